package goal

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrGoalNotFound      = errors.New("goal not found")
	ErrDuplicateGoalName = errors.New("a goal with this name already exists")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrStoreUnavailable  = errors.New("goal store unavailable")
)

type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every violated constraint found, not just
// the first one.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.Field+": "+v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IndexSyncError reports that the ledger write committed but the name
// index could not be brought in line. The ledger is correct; the index
// is stale until a retry or Repair.
type IndexSyncError struct {
	Op  string
	Err error
}

func (e *IndexSyncError) Error() string {
	return fmt.Sprintf("goal index out of sync after %s: %v", e.Op, e.Err)
}

func (e *IndexSyncError) Unwrap() error {
	return e.Err
}
