package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	util "github.com/finsight-app/finsight-api/internal/utils"
)

// GoalRecord is the progress ledger row for one (user, goal name) pair.
// The ledger is the source of truth for amounts; Bucket is a cached
// classification of Deadline and Status a cached derivation of the
// amounts, both refreshed on every write.
type GoalRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4()" json:"id"`
	UserID        uuid.UUID       `gorm:"column:user_id;not null;uniqueIndex:idx_goal_progress_user_name" json:"user_id"`
	Name          string          `gorm:"column:goal_name;type:varchar(100);not null;uniqueIndex:idx_goal_progress_user_name" json:"goal_name"`
	CurrentAmount decimal.Decimal `gorm:"type:decimal(15,2);not null;default:0" json:"current_amount"`
	TargetAmount  decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"target_amount"`
	Deadline      util.Date       `gorm:"type:date;not null" json:"deadline"`
	Bucket        Bucket          `gorm:"column:category;type:varchar(20);not null" json:"category"`
	Status        Status          `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (GoalRecord) TableName() string {
	return "goal_progress"
}

// Completed derives completion from the amounts. The stored Status
// column can drift and is advisory only.
func (g *GoalRecord) Completed() bool {
	return g.CurrentAmount.GreaterThanOrEqual(g.TargetAmount)
}

// RefreshStatus re-derives the cached status column from the amounts.
func (g *GoalRecord) RefreshStatus() {
	if g.Completed() {
		g.Status = StatusCompleted
	} else {
		g.Status = StatusActive
	}
}
