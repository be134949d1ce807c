package goal

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the progress ledger: one record per
// (user, goal name), creation order preserved by listing.
type LedgerRepository interface {
	Create(ctx context.Context, rec *GoalRecord) error
	Upsert(ctx context.Context, rec *GoalRecord) error
	FindByName(ctx context.Context, userID uuid.UUID, name string) (*GoalRecord, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*GoalRecord, error)
	DeleteByName(ctx context.Context, userID uuid.UUID, name string) error
}

type ledgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, rec *GoalRecord) error {
	if err := r.db.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateGoalName
		}
		return err
	}
	return nil
}

// Upsert writes the record, updating in place when the
// (user_id, goal_name) pair already exists. Retrying the same call is
// a no-op, which keeps edit and backfill idempotent.
func (r *ledgerRepository) Upsert(ctx context.Context, rec *GoalRecord) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "goal_name"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"current_amount", "target_amount", "deadline", "category", "status", "updated_at",
		}),
	}).Create(rec).Error
}

func (r *ledgerRepository) FindByName(ctx context.Context, userID uuid.UUID, name string) (*GoalRecord, error) {
	var rec GoalRecord
	err := r.db.WithContext(ctx).
		First(&rec, "user_id = ? AND goal_name = ?", userID, name).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rec, nil
}

func (r *ledgerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*GoalRecord, error) {
	var recs []*GoalRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *ledgerRepository) DeleteByName(ctx context.Context, userID uuid.UUID, name string) error {
	return r.db.WithContext(ctx).
		Delete(&GoalRecord{}, "user_id = ? AND goal_name = ?", userID, name).Error
}
