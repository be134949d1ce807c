package goal

import "time"

// Classify buckets a deadline by its calendar distance from today:
// up to one year out is short term, up to five years is medium term,
// anything further is long term. Calendar arithmetic (AddDate) keeps
// the boundaries aligned with the human reading of "1 year" and
// "5 years" rather than a fixed day count.
//
// A past deadline classifies by the same rule; rejecting stale
// deadlines is the caller's validation concern.
func Classify(deadline, today time.Time) Bucket {
	if !deadline.After(today.AddDate(1, 0, 0)) {
		return BucketShortTerm
	}
	if !deadline.After(today.AddDate(5, 0, 0)) {
		return BucketMediumTerm
	}
	return BucketLongTerm
}

// ClassifyNow classifies against the current date.
func ClassifyNow(deadline time.Time) Bucket {
	return Classify(deadline, time.Now())
}
