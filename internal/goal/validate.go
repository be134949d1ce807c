package goal

import (
	"strings"

	util "github.com/finsight-app/finsight-api/internal/utils"
)

// validateCreate checks every create constraint and reports all
// violations at once.
func validateCreate(dto CreateGoalDTO, today util.Date) *ValidationError {
	var violations []FieldViolation

	if strings.TrimSpace(dto.Name) == "" {
		violations = append(violations, FieldViolation{"goal_name", "must not be empty"})
	}
	if !dto.TargetAmount.IsPositive() {
		violations = append(violations, FieldViolation{"target_amount", "must be greater than zero"})
	}
	if dto.CurrentAmount.IsNegative() {
		violations = append(violations, FieldViolation{"current_amount", "must not be negative"})
	}
	if dto.Deadline.IsZero() {
		violations = append(violations, FieldViolation{"deadline", "must be a valid date"})
	} else if dto.Deadline.BeforeDate(today) {
		violations = append(violations, FieldViolation{"deadline", "must not be in the past"})
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}

// validateUpdate applies the create rules to whichever fields were
// supplied. A past deadline already on file stays valid; only a newly
// supplied deadline is checked for staleness.
func validateUpdate(dto UpdateGoalDTO, today util.Date) *ValidationError {
	var violations []FieldViolation

	if dto.TargetAmount != nil && !dto.TargetAmount.IsPositive() {
		violations = append(violations, FieldViolation{"target_amount", "must be greater than zero"})
	}
	if dto.CurrentAmount != nil && dto.CurrentAmount.IsNegative() {
		violations = append(violations, FieldViolation{"current_amount", "must not be negative"})
	}
	if dto.Deadline != nil {
		if dto.Deadline.IsZero() {
			violations = append(violations, FieldViolation{"deadline", "must be a valid date"})
		} else if dto.Deadline.BeforeDate(today) {
			violations = append(violations, FieldViolation{"deadline", "must not be in the past"})
		}
	}

	if len(violations) > 0 {
		return &ValidationError{Violations: violations}
	}
	return nil
}
