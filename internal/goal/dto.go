package goal

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	util "github.com/finsight-app/finsight-api/internal/utils"
)

type CreateGoalDTO struct {
	Name          string          `json:"goal_name"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	Deadline      util.Date       `json:"deadline"`
}

// UpdateGoalDTO carries only the fields the caller wants to change.
type UpdateGoalDTO struct {
	CurrentAmount *decimal.Decimal `json:"current_amount"`
	TargetAmount  *decimal.Decimal `json:"target_amount"`
	Deadline      *util.Date       `json:"deadline"`
}

type GoalResponse struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Name          string          `json:"goal_name"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	Deadline      util.Date       `json:"deadline"`
	Bucket        Bucket          `json:"category"`
	Status        Status          `json:"status"`
	Progress      int64           `json:"progress"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// OrganizedGoals groups a user's goals by time horizon, the shape the
// goals screen renders.
type OrganizedGoals struct {
	ShortTerm  []GoalResponse `json:"short_term"`
	MediumTerm []GoalResponse `json:"medium_term"`
	LongTerm   []GoalResponse `json:"long_term"`
}

// BackfillRequest is the legacy profile structure: bare goal names
// grouped by bucket, with no amounts or deadlines attached.
type BackfillRequest struct {
	Goals map[Bucket][]string `json:"financial_goals"`
}

type BackfillResult struct {
	Created []string `json:"created"`
	Skipped []string `json:"skipped"`
}

type GoalSummary struct {
	OverallProgress int64            `json:"overall_progress"`
	BucketProgress  map[Bucket]int64 `json:"bucket_progress"`
	TotalGoals      int              `json:"total_goals"`
	ActiveGoals     int              `json:"active_goals"`
	CompletedGoals  int              `json:"completed_goals"`
	NextMilestone   *GoalResponse    `json:"next_milestone,omitempty"`
	TopGoals        []GoalResponse   `json:"top_goals"`
}

func toResponse(g *GoalRecord) *GoalResponse {
	return &GoalResponse{
		ID:            g.ID,
		UserID:        g.UserID,
		Name:          g.Name,
		CurrentAmount: g.CurrentAmount,
		TargetAmount:  g.TargetAmount,
		Deadline:      g.Deadline,
		Bucket:        g.Bucket,
		Status:        g.Status,
		Progress:      ProgressOf(g),
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}
