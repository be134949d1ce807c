package goal_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsight-app/finsight-api/internal/auth"
	"github.com/finsight-app/finsight-api/internal/goal"
	util "github.com/finsight-app/finsight-api/internal/utils"
)

type fixture struct {
	svc    goal.GoalService
	ledger *goal.MemoryLedger
	index  *goal.MemoryIndex
	ctx    context.Context
	userID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ledger := goal.NewMemoryLedger()
	index := goal.NewMemoryIndex()
	userID := uuid.New()
	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: userID.String()})
	return &fixture{
		svc:    goal.NewService(ledger, index),
		ledger: ledger,
		index:  index,
		ctx:    ctx,
		userID: userID,
	}
}

func deadlineIn(years, months int) util.Date {
	return util.NewDate(time.Now().UTC().AddDate(years, months, 0))
}

func createDTO(name string, target int64, deadline util.Date) goal.CreateGoalDTO {
	return goal.CreateGoalDTO{
		Name:         name,
		TargetAmount: decimal.NewFromInt(target),
		Deadline:     deadline,
	}
}

func TestCreateGoal(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Create(f.ctx, createDTO("Build emergency fund", 5000, deadlineIn(0, 6)))
	require.NoError(t, err)

	assert.Equal(t, "Build emergency fund", resp.Name)
	assert.Equal(t, goal.BucketShortTerm, resp.Bucket)
	assert.Equal(t, goal.StatusActive, resp.Status)
	assert.Equal(t, int64(0), resp.Progress)

	names, err := f.index.Names(f.ctx, f.userID, goal.BucketShortTerm)
	require.NoError(t, err)
	assert.Equal(t, []string{"Build emergency fund"}, names)
}

func TestCreateDuplicateRejected(t *testing.T) {
	f := newFixture(t)
	dto := createDTO("Build emergency fund", 5000, deadlineIn(1, 0))

	_, err := f.svc.Create(f.ctx, dto)
	require.NoError(t, err)

	_, err = f.svc.Create(f.ctx, dto)
	assert.ErrorIs(t, err, goal.ErrDuplicateGoalName)

	recs, err := f.ledger.ListByUser(f.ctx, f.userID)
	require.NoError(t, err)
	assert.Len(t, recs, 1, "duplicate create must not add a second record")
}

func TestCreateValidationListsAllViolations(t *testing.T) {
	f := newFixture(t)

	dto := goal.CreateGoalDTO{
		Name:          "   ",
		TargetAmount:  decimal.Zero,
		CurrentAmount: decimal.NewFromInt(-5),
		Deadline:      util.NewDate(time.Now().UTC().AddDate(0, 0, -30)),
	}

	_, err := f.svc.Create(f.ctx, dto)

	var vErr *goal.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Len(t, vErr.Violations, 4, "every violated constraint is reported")

	recs, _ := f.ledger.ListByUser(f.ctx, f.userID)
	assert.Empty(t, recs, "validation failure must not write")
	names, _ := f.index.Names(f.ctx, f.userID, goal.BucketShortTerm)
	assert.Empty(t, names)
}

func TestCreateZeroTargetRejected(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("x", 0, deadlineIn(1, 0)))

	var vErr *goal.ValidationError
	require.ErrorAs(t, err, &vErr)
}

func TestUpdateMigratesBucket(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("Buy a house", 60000, deadlineIn(0, 6)))
	require.NoError(t, err)

	newDeadline := deadlineIn(7, 0)
	resp, err := f.svc.Update(f.ctx, "Buy a house", goal.UpdateGoalDTO{Deadline: &newDeadline})
	require.NoError(t, err)
	assert.Equal(t, goal.BucketLongTerm, resp.Bucket)

	all, err := f.index.All(f.ctx, f.userID)
	require.NoError(t, err)
	assert.Empty(t, all[goal.BucketShortTerm])
	assert.Empty(t, all[goal.BucketMediumTerm])
	assert.Equal(t, []string{"Buy a house"}, all[goal.BucketLongTerm])
}

func TestUpdateRefreshesStatus(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("Save for vacation", 3000, deadlineIn(0, 6)))
	require.NoError(t, err)

	amount := decimal.NewFromInt(3000)
	resp, err := f.svc.Update(f.ctx, "Save for vacation", goal.UpdateGoalDTO{CurrentAmount: &amount})
	require.NoError(t, err)

	assert.Equal(t, goal.StatusCompleted, resp.Status)
	assert.Equal(t, int64(100), resp.Progress)
}

func TestUpdateUnknownGoal(t *testing.T) {
	f := newFixture(t)

	amount := decimal.NewFromInt(10)
	_, err := f.svc.Update(f.ctx, "nope", goal.UpdateGoalDTO{CurrentAmount: &amount})
	assert.ErrorIs(t, err, goal.ErrGoalNotFound)
}

func TestDeleteRemovesFromEveryBucket(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("Start investing", 1000, deadlineIn(0, 3)))
	require.NoError(t, err)

	// Simulate prior drift: the name also lingers in another bucket.
	require.NoError(t, f.index.Append(f.ctx, f.userID, goal.BucketLongTerm, "Start investing"))

	require.NoError(t, f.svc.Delete(f.ctx, "Start investing"))

	all, err := f.index.All(f.ctx, f.userID)
	require.NoError(t, err)
	for bucket, names := range all {
		assert.Empty(t, names, "bucket %s should be empty", bucket)
	}

	rec, err := f.ledger.FindByName(f.ctx, f.userID, "Start investing")
	require.NoError(t, err)
	assert.Nil(t, rec)

	assert.ErrorIs(t, f.svc.Delete(f.ctx, "Start investing"), goal.ErrGoalNotFound)
}

func TestBackfillIdempotent(t *testing.T) {
	f := newFixture(t)

	names := map[goal.Bucket][]string{
		goal.BucketShortTerm: {"Build emergency fund", "Save for vacation"},
		goal.BucketLongTerm:  {"Retirement planning"},
	}

	first, err := f.svc.Backfill(f.ctx, names)
	require.NoError(t, err)
	assert.Len(t, first.Created, 3)
	assert.Empty(t, first.Skipped)

	recsAfterFirst, err := f.ledger.ListByUser(f.ctx, f.userID)
	require.NoError(t, err)

	second, err := f.svc.Backfill(f.ctx, names)
	require.NoError(t, err)
	assert.Empty(t, second.Created)
	assert.Len(t, second.Skipped, 3)

	recsAfterSecond, err := f.ledger.ListByUser(f.ctx, f.userID)
	require.NoError(t, err)
	require.Len(t, recsAfterSecond, len(recsAfterFirst))
	for n, rec := range recsAfterSecond {
		assert.Equal(t, recsAfterFirst[n].Name, rec.Name)
		assert.True(t, recsAfterFirst[n].TargetAmount.Equal(rec.TargetAmount))
		assert.True(t, recsAfterFirst[n].CurrentAmount.Equal(rec.CurrentAmount))
	}
}

func TestBackfillAppliesKeywordDefaults(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Backfill(f.ctx, map[goal.Bucket][]string{
		goal.BucketShortTerm: {"Build emergency fund", "Something else entirely"},
	})
	require.NoError(t, err)

	emergency, err := f.ledger.FindByName(f.ctx, f.userID, "Build emergency fund")
	require.NoError(t, err)
	require.NotNil(t, emergency)
	assert.True(t, emergency.TargetAmount.Equal(decimal.NewFromInt(10000)))
	assert.Equal(t, goal.BucketShortTerm, emergency.Bucket, "1-year horizon classifies short term")

	generic, err := f.ledger.FindByName(f.ctx, f.userID, "Something else entirely")
	require.NoError(t, err)
	require.NotNil(t, generic)
	assert.True(t, generic.TargetAmount.Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, goal.BucketMediumTerm, generic.Bucket, "2-year horizon classifies medium term")
}

func TestBackfillDoesNotOverwriteProgress(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("Build emergency fund", 8000, deadlineIn(0, 9)))
	require.NoError(t, err)
	amount := decimal.NewFromInt(2500)
	_, err = f.svc.Update(f.ctx, "Build emergency fund", goal.UpdateGoalDTO{CurrentAmount: &amount})
	require.NoError(t, err)

	result, err := f.svc.Backfill(f.ctx, map[goal.Bucket][]string{
		goal.BucketShortTerm: {"Build emergency fund"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Build emergency fund"}, result.Skipped)

	rec, err := f.ledger.FindByName(f.ctx, f.userID, "Build emergency fund")
	require.NoError(t, err)
	assert.True(t, rec.CurrentAmount.Equal(decimal.NewFromInt(2500)), "existing progress untouched")
	assert.True(t, rec.TargetAmount.Equal(decimal.NewFromInt(8000)))
}

func TestRepairHealsOrphanedRecord(t *testing.T) {
	f := newFixture(t)

	// A record that made it into the ledger but never into the index.
	orphan := &goal.GoalRecord{
		ID:           uuid.New(),
		UserID:       f.userID,
		Name:         "Orphaned goal",
		TargetAmount: decimal.NewFromInt(1000),
		Deadline:     deadlineIn(0, 4),
		Bucket:       goal.BucketShortTerm,
		Status:       goal.StatusActive,
	}
	require.NoError(t, f.ledger.Upsert(context.Background(), orphan))

	require.NoError(t, f.svc.Repair(f.ctx))

	names, err := f.index.Names(f.ctx, f.userID, goal.BucketShortTerm)
	require.NoError(t, err)
	assert.Contains(t, names, "Orphaned goal")
}

func TestSummary(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, goal.CreateGoalDTO{
		Name:          "Save for vacation",
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(40),
		Deadline:      deadlineIn(0, 6),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, goal.CreateGoalDTO{
		Name:          "Buy a house",
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(70),
		Deadline:      deadlineIn(3, 0),
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, goal.CreateGoalDTO{
		Name:          "Done already",
		TargetAmount:  decimal.NewFromInt(100),
		CurrentAmount: decimal.NewFromInt(100),
		Deadline:      deadlineIn(0, 2),
	})
	require.NoError(t, err)

	summary, err := f.svc.Summary(f.ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalGoals)
	assert.Equal(t, 2, summary.ActiveGoals)
	assert.Equal(t, 1, summary.CompletedGoals)
	assert.Equal(t, int64(70), summary.OverallProgress)
	require.NotNil(t, summary.NextMilestone)
	assert.Equal(t, "Buy a house", summary.NextMilestone.Name, "closest active goal wins")
	require.Len(t, summary.TopGoals, 3)
	assert.Equal(t, "Done already", summary.TopGoals[0].Name)
}

func TestListGroupsByBucket(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(f.ctx, createDTO("Save for vacation", 3000, deadlineIn(0, 6)))
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, createDTO("Buy a house", 60000, deadlineIn(3, 0)))
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, createDTO("Retirement planning", 500000, deadlineIn(20, 0)))
	require.NoError(t, err)

	organized, err := f.svc.List(f.ctx)
	require.NoError(t, err)

	require.Len(t, organized.ShortTerm, 1)
	require.Len(t, organized.MediumTerm, 1)
	require.Len(t, organized.LongTerm, 1)
	assert.Equal(t, "Save for vacation", organized.ShortTerm[0].Name)
	assert.Equal(t, "Buy a house", organized.MediumTerm[0].Name)
	assert.Equal(t, "Retirement planning", organized.LongTerm[0].Name)
}

func TestMissingClaims(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.List(context.Background())
	assert.ErrorIs(t, err, goal.ErrUnauthorized)
}

// failingIndex wraps MemoryIndex and fails writes on demand.
type failingIndex struct {
	*goal.MemoryIndex
	fail bool
}

var errIndexDown = errors.New("index down")

func (f *failingIndex) Append(ctx context.Context, userID uuid.UUID, bucket goal.Bucket, name string) error {
	if f.fail {
		return errIndexDown
	}
	return f.MemoryIndex.Append(ctx, userID, bucket, name)
}

func (f *failingIndex) Move(ctx context.Context, userID uuid.UUID, from, to goal.Bucket, name string) error {
	if f.fail {
		return errIndexDown
	}
	return f.MemoryIndex.Move(ctx, userID, from, to, name)
}

func TestCreateSurfacesIndexSyncFailure(t *testing.T) {
	ledger := goal.NewMemoryLedger()
	index := &failingIndex{MemoryIndex: goal.NewMemoryIndex(), fail: true}
	userID := uuid.New()
	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: userID.String()})
	svc := goal.NewService(ledger, index)

	resp, err := svc.Create(ctx, createDTO("Build emergency fund", 5000, deadlineIn(0, 6)))

	var isErr *goal.IndexSyncError
	require.ErrorAs(t, err, &isErr)
	require.NotNil(t, resp, "the committed record is returned alongside the error")

	rec, findErr := ledger.FindByName(ctx, userID, "Build emergency fund")
	require.NoError(t, findErr)
	assert.NotNil(t, rec, "ledger write is not rolled back")

	// The caller can heal via Repair once the index is back.
	index.fail = false
	require.NoError(t, svc.Repair(ctx))
	names, err := index.Names(ctx, userID, goal.BucketShortTerm)
	require.NoError(t, err)
	assert.Equal(t, []string{"Build emergency fund"}, names)
}

func TestUpdateSurfacesMigrationFailure(t *testing.T) {
	ledger := goal.NewMemoryLedger()
	index := &failingIndex{MemoryIndex: goal.NewMemoryIndex()}
	userID := uuid.New()
	ctx := auth.WithClaims(context.Background(), &auth.Claims{UserID: userID.String()})
	svc := goal.NewService(ledger, index)

	_, err := svc.Create(ctx, createDTO("Buy a house", 60000, deadlineIn(0, 6)))
	require.NoError(t, err)

	index.fail = true
	newDeadline := deadlineIn(7, 0)
	_, err = svc.Update(ctx, "Buy a house", goal.UpdateGoalDTO{Deadline: &newDeadline})

	var isErr *goal.IndexSyncError
	require.ErrorAs(t, err, &isErr)

	rec, findErr := ledger.FindByName(ctx, userID, "Buy a house")
	require.NoError(t, findErr)
	assert.Equal(t, goal.BucketLongTerm, rec.Bucket, "ledger carries the new bucket")

	// The name is still somewhere in the index, never silently lost.
	all, allErr := index.All(ctx, userID)
	require.NoError(t, allErr)
	found := 0
	for _, names := range all {
		for _, n := range names {
			if n == "Buy a house" {
				found++
			}
		}
	}
	assert.Equal(t, 1, found)
}
