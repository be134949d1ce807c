package goal

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"
)

// Read-side math over a ledger snapshot. Everything here is pure:
// callers pass the records in and nothing is re-fetched.

var hundred = decimal.NewFromInt(100)

// ProgressOf returns a goal's completion percentage, rounded and
// clamped to [0, 100]. A non-positive target yields 0 instead of a
// division; the ledger rejects that state but old rows may carry it.
func ProgressOf(rec *GoalRecord) int64 {
	if !rec.TargetAmount.IsPositive() {
		return 0
	}
	pct := rec.CurrentAmount.Div(rec.TargetAmount).Mul(hundred).Round(0).IntPart()
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

func progressRatio(rec *GoalRecord) decimal.Decimal {
	if !rec.TargetAmount.IsPositive() {
		return decimal.Zero
	}
	return rec.CurrentAmount.Div(rec.TargetAmount)
}

func meanProgress(recs []*GoalRecord) int64 {
	if len(recs) == 0 {
		return 0
	}
	var sum int64
	for _, rec := range recs {
		sum += ProgressOf(rec)
	}
	return int64(math.Round(float64(sum) / float64(len(recs))))
}

// BucketProgress is the mean progress of the goals in one bucket,
// or 0 when the bucket is empty.
func BucketProgress(recs []*GoalRecord, bucket Bucket) int64 {
	var matched []*GoalRecord
	for _, rec := range recs {
		if rec.Bucket == bucket {
			matched = append(matched, rec)
		}
	}
	return meanProgress(matched)
}

// OverallProgress is the mean progress across all goals, or 0 when
// there are none.
func OverallProgress(recs []*GoalRecord) int64 {
	return meanProgress(recs)
}

// Partition splits a snapshot into active and completed goals by the
// derived rule current >= target, ignoring the stored status column.
func Partition(recs []*GoalRecord) (active, completed []*GoalRecord) {
	for _, rec := range recs {
		if rec.Completed() {
			completed = append(completed, rec)
		} else {
			active = append(active, rec)
		}
	}
	return active, completed
}

// NextMilestone picks the active goal closest to completion. Ties keep
// the first record in list order, so the result is deterministic for a
// fixed snapshot order.
func NextMilestone(active []*GoalRecord) *GoalRecord {
	if len(active) == 0 {
		return nil
	}
	closest := active[0]
	for _, rec := range active[1:] {
		if progressRatio(rec).GreaterThan(progressRatio(closest)) {
			closest = rec
		}
	}
	return closest
}

// TopGoals returns up to n goals ordered by descending progress,
// preserving snapshot order between equals.
func TopGoals(recs []*GoalRecord, n int) []*GoalRecord {
	sorted := make([]*GoalRecord, len(recs))
	copy(sorted, recs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return ProgressOf(sorted[i]) > ProgressOf(sorted[j])
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	return sorted
}
