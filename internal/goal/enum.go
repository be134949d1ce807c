package goal

// Bucket is a goal's time-horizon classification.
type Bucket string

const (
	BucketShortTerm  Bucket = "short_term"
	BucketMediumTerm Bucket = "medium_term"
	BucketLongTerm   Bucket = "long_term"
)

// Buckets returns all buckets in display order.
func Buckets() []Bucket {
	return []Bucket{BucketShortTerm, BucketMediumTerm, BucketLongTerm}
}

func (b Bucket) Valid() bool {
	switch b {
	case BucketShortTerm, BucketMediumTerm, BucketLongTerm:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)
