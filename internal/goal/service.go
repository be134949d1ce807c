package goal

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/finsight-app/finsight-api/internal/auth"
	"github.com/finsight-app/finsight-api/internal/config"
	util "github.com/finsight-app/finsight-api/internal/utils"
)

// GoalService orchestrates every mutation across the progress ledger
// and the name index. Nothing else writes to either store; that is
// what keeps the two representations of the goal set from drifting.
//
// Mutations returning an *IndexSyncError still return the written
// record: the ledger commit stands, only the index step needs a retry
// or a Repair.
type GoalService interface {
	Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error)
	Get(ctx context.Context, name string) (*GoalResponse, error)
	List(ctx context.Context) (*OrganizedGoals, error)
	Update(ctx context.Context, name string, dto UpdateGoalDTO) (*GoalResponse, error)
	Delete(ctx context.Context, name string) error
	Backfill(ctx context.Context, names map[Bucket][]string) (*BackfillResult, error)
	Repair(ctx context.Context) error
	Summary(ctx context.Context) (*GoalSummary, error)
}

type goalService struct {
	ledger   LedgerRepository
	index    NameIndex
	defaults []BackfillDefault
}

func NewService(ledger LedgerRepository, index NameIndex) GoalService {
	return NewServiceWithDefaults(ledger, index, DefaultBackfillRules)
}

// NewServiceWithDefaults lets callers swap the backfill keyword table.
func NewServiceWithDefaults(ledger LedgerRepository, index NameIndex, defaults []BackfillDefault) GoalService {
	return &goalService{ledger: ledger, index: index, defaults: defaults}
}

func getUserIDFromContext(ctx context.Context, log logrus.FieldLogger, action string) (uuid.UUID, error) {
	claims, err := auth.GetUserClaimsFromContext(ctx)
	if err != nil {
		log.WithError(err).Warnf("Attempt to %s without authentication", action)
		return uuid.Nil, ErrUnauthorized
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		log.WithError(err).Warn("Malformed user id in claims")
		return uuid.Nil, ErrUnauthorized
	}
	return userID, nil
}

func (s *goalService) Create(ctx context.Context, dto CreateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "create goal")
	if err != nil {
		return nil, err
	}

	if vErr := validateCreate(dto, util.Today()); vErr != nil {
		return nil, vErr
	}
	name := strings.TrimSpace(dto.Name)

	existing, err := s.ledger.FindByName(ctx, userID, name)
	if err != nil {
		log.WithError(err).Error("Failed to check for existing goal")
		return nil, ErrStoreUnavailable
	}
	if existing != nil {
		return nil, ErrDuplicateGoalName
	}

	now := time.Now()
	rec := &GoalRecord{
		ID:            uuid.New(),
		UserID:        userID,
		Name:          name,
		CurrentAmount: dto.CurrentAmount,
		TargetAmount:  dto.TargetAmount,
		Deadline:      dto.Deadline,
		Bucket:        ClassifyNow(dto.Deadline.Time),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	rec.RefreshStatus()

	if err := s.ledger.Create(ctx, rec); err != nil {
		if errors.Is(err, ErrDuplicateGoalName) {
			return nil, err
		}
		log.WithError(err).Error("Failed to create goal record")
		return nil, ErrStoreUnavailable
	}

	if err := s.index.Append(ctx, userID, rec.Bucket, name); err != nil {
		log.WithError(err).WithFields(logrus.Fields{
			"goal_name": name,
			"bucket":    rec.Bucket,
		}).Error("Goal created but name index update failed")
		return toResponse(rec), &IndexSyncError{Op: "create", Err: err}
	}

	log.WithField("goal_name", name).Info("Goal created")
	return toResponse(rec), nil
}

func (s *goalService) Get(ctx context.Context, name string) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "get goal")
	if err != nil {
		return nil, err
	}

	rec, err := s.ledger.FindByName(ctx, userID, name)
	if err != nil {
		log.WithError(err).Error("Failed to load goal")
		return nil, ErrStoreUnavailable
	}
	if rec == nil {
		return nil, ErrGoalNotFound
	}
	rec.RefreshStatus()
	return toResponse(rec), nil
}

func (s *goalService) List(ctx context.Context) (*OrganizedGoals, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "list goals")
	if err != nil {
		return nil, err
	}

	recs, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to list goals")
		return nil, ErrStoreUnavailable
	}

	organized := &OrganizedGoals{
		ShortTerm:  []GoalResponse{},
		MediumTerm: []GoalResponse{},
		LongTerm:   []GoalResponse{},
	}
	for _, rec := range recs {
		rec.RefreshStatus()
		resp := *toResponse(rec)
		switch rec.Bucket {
		case BucketShortTerm:
			organized.ShortTerm = append(organized.ShortTerm, resp)
		case BucketMediumTerm:
			organized.MediumTerm = append(organized.MediumTerm, resp)
		case BucketLongTerm:
			organized.LongTerm = append(organized.LongTerm, resp)
		}
	}
	return organized, nil
}

func (s *goalService) Update(ctx context.Context, name string, dto UpdateGoalDTO) (*GoalResponse, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "update goal")
	if err != nil {
		return nil, err
	}

	rec, err := s.ledger.FindByName(ctx, userID, name)
	if err != nil {
		log.WithError(err).Error("Failed to load goal for update")
		return nil, ErrStoreUnavailable
	}
	if rec == nil {
		return nil, ErrGoalNotFound
	}

	if vErr := validateUpdate(dto, util.Today()); vErr != nil {
		return nil, vErr
	}

	if dto.CurrentAmount != nil {
		rec.CurrentAmount = *dto.CurrentAmount
	}
	if dto.TargetAmount != nil {
		rec.TargetAmount = *dto.TargetAmount
	}
	if dto.Deadline != nil {
		rec.Deadline = *dto.Deadline
	}

	oldBucket := rec.Bucket
	rec.Bucket = ClassifyNow(rec.Deadline.Time)
	rec.RefreshStatus()
	rec.UpdatedAt = time.Now()

	if err := s.ledger.Upsert(ctx, rec); err != nil {
		log.WithError(err).Error("Failed to update goal record")
		return nil, ErrStoreUnavailable
	}

	if rec.Bucket != oldBucket {
		if err := s.index.Move(ctx, userID, oldBucket, rec.Bucket, rec.Name); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"goal_name":   rec.Name,
				"from_bucket": oldBucket,
				"to_bucket":   rec.Bucket,
			}).Error("Goal updated but bucket migration failed")
			return toResponse(rec), &IndexSyncError{Op: "update", Err: err}
		}
	}

	log.WithField("goal_name", rec.Name).Info("Goal updated")
	return toResponse(rec), nil
}

func (s *goalService) Delete(ctx context.Context, name string) error {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "delete goal")
	if err != nil {
		return err
	}

	rec, err := s.ledger.FindByName(ctx, userID, name)
	if err != nil {
		log.WithError(err).Error("Failed to load goal for delete")
		return ErrStoreUnavailable
	}
	if rec == nil {
		return ErrGoalNotFound
	}

	if err := s.ledger.DeleteByName(ctx, userID, name); err != nil {
		log.WithError(err).Error("Failed to delete goal record")
		return ErrStoreUnavailable
	}

	if err := s.index.RemoveAll(ctx, userID, name); err != nil {
		log.WithError(err).WithField("goal_name", name).
			Error("Goal deleted but name index cleanup failed")
		return &IndexSyncError{Op: "delete", Err: err}
	}

	log.WithField("goal_name", name).Info("Goal deleted")
	return nil
}

// Backfill synthesizes ledger records for legacy profile goal names
// that have none, using the keyword defaults table. Existing records
// are left untouched, so re-running is safe; their index entries are
// re-asserted, which also heals records orphaned by an earlier index
// failure.
func (s *goalService) Backfill(ctx context.Context, names map[Bucket][]string) (*BackfillResult, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "backfill goals")
	if err != nil {
		return nil, err
	}

	result := &BackfillResult{Created: []string{}, Skipped: []string{}}
	today := util.Today()

	for _, bucket := range Buckets() {
		for _, raw := range names[bucket] {
			name := strings.TrimSpace(raw)
			if name == "" {
				continue
			}

			existing, err := s.ledger.FindByName(ctx, userID, name)
			if err != nil {
				log.WithError(err).Error("Failed to check goal during backfill")
				return nil, ErrStoreUnavailable
			}
			if existing != nil {
				if err := s.index.Append(ctx, userID, existing.Bucket, name); err != nil {
					log.WithError(err).WithField("goal_name", name).
						Warn("Failed to re-assert index entry during backfill")
				}
				result.Skipped = append(result.Skipped, name)
				continue
			}

			def := defaultsFor(name, s.defaults)
			deadline := today.AddMonths(def.HorizonMonths)
			now := time.Now()
			rec := &GoalRecord{
				ID:            uuid.New(),
				UserID:        userID,
				Name:          name,
				CurrentAmount: decimal.Zero,
				TargetAmount:  def.TargetAmount,
				Deadline:      deadline,
				Bucket:        ClassifyNow(deadline.Time),
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			rec.RefreshStatus()

			if err := s.ledger.Upsert(ctx, rec); err != nil {
				log.WithError(err).WithField("goal_name", name).
					Error("Failed to backfill goal record")
				return nil, ErrStoreUnavailable
			}
			if err := s.index.Append(ctx, userID, rec.Bucket, name); err != nil {
				log.WithError(err).WithField("goal_name", name).
					Error("Goal backfilled but name index update failed")
				return result, &IndexSyncError{Op: "backfill", Err: err}
			}
			result.Created = append(result.Created, name)
		}
	}

	log.WithFields(logrus.Fields{
		"created": len(result.Created),
		"skipped": len(result.Skipped),
	}).Info("Backfill finished")
	return result, nil
}

// Repair rebuilds the name index from a full ledger scan, restoring
// the invariant that every record's name sits in exactly the bucket
// its deadline classifies to.
func (s *goalService) Repair(ctx context.Context) error {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "repair goal index")
	if err != nil {
		return err
	}

	recs, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to scan ledger for repair")
		return ErrStoreUnavailable
	}

	entries := make(map[Bucket][]string, len(Buckets()))
	for _, rec := range recs {
		bucket := ClassifyNow(rec.Deadline.Time)
		entries[bucket] = append(entries[bucket], rec.Name)
	}

	if err := s.index.Rebuild(ctx, userID, entries); err != nil {
		log.WithError(err).Error("Failed to rebuild name index")
		return &IndexSyncError{Op: "repair", Err: err}
	}

	log.WithField("records", len(recs)).Info("Goal index rebuilt")
	return nil
}

func (s *goalService) Summary(ctx context.Context) (*GoalSummary, error) {
	log := config.WithContext(ctx)
	userID, err := getUserIDFromContext(ctx, log, "summarize goals")
	if err != nil {
		return nil, err
	}

	recs, err := s.ledger.ListByUser(ctx, userID)
	if err != nil {
		log.WithError(err).Error("Failed to load goals for summary")
		return nil, ErrStoreUnavailable
	}
	for _, rec := range recs {
		rec.RefreshStatus()
	}

	active, completed := Partition(recs)

	summary := &GoalSummary{
		OverallProgress: OverallProgress(recs),
		BucketProgress:  make(map[Bucket]int64, len(Buckets())),
		TotalGoals:      len(recs),
		ActiveGoals:     len(active),
		CompletedGoals:  len(completed),
		TopGoals:        []GoalResponse{},
	}
	for _, bucket := range Buckets() {
		summary.BucketProgress[bucket] = BucketProgress(recs, bucket)
	}
	if milestone := NextMilestone(active); milestone != nil {
		summary.NextMilestone = toResponse(milestone)
	}
	for _, rec := range TopGoals(recs, 3) {
		summary.TopGoals = append(summary.TopGoals, *toResponse(rec))
	}
	return summary, nil
}
