package goal

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// NameIndex is the denormalized bucket -> goal-name mapping used for
// fast "what goals exist" reads without loading ledger rows. Only the
// goal service writes to it.
type NameIndex interface {
	// Append adds name to the bucket's list, removing any earlier
	// occurrence first so the entry stays unique within the list.
	Append(ctx context.Context, userID uuid.UUID, bucket Bucket, name string) error
	// Move relocates name from one bucket's list to another in a
	// single step, so a failure never strands the name in neither.
	Move(ctx context.Context, userID uuid.UUID, from, to Bucket, name string) error
	// RemoveAll drops name from every bucket list. Deletion searches
	// all buckets rather than trusting the record's cached bucket.
	RemoveAll(ctx context.Context, userID uuid.UUID, name string) error
	Names(ctx context.Context, userID uuid.UUID, bucket Bucket) ([]string, error)
	All(ctx context.Context, userID uuid.UUID) (map[Bucket][]string, error)
	// Rebuild replaces the user's entire index with the given lists.
	Rebuild(ctx context.Context, userID uuid.UUID, entries map[Bucket][]string) error
}

type redisIndex struct {
	rdb *redis.Client
}

// NewRedisIndex returns a NameIndex backed by one Redis list per
// (user, bucket) pair. Lists preserve insertion order.
func NewRedisIndex(rdb *redis.Client) NameIndex {
	return &redisIndex{rdb: rdb}
}

func indexKey(userID uuid.UUID, bucket Bucket) string {
	return fmt.Sprintf("goal_index:%s:%s", userID, bucket)
}

func (i *redisIndex) Append(ctx context.Context, userID uuid.UUID, bucket Bucket, name string) error {
	_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, indexKey(userID, bucket), 0, name)
		pipe.RPush(ctx, indexKey(userID, bucket), name)
		return nil
	})
	return err
}

func (i *redisIndex) Move(ctx context.Context, userID uuid.UUID, from, to Bucket, name string) error {
	_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LRem(ctx, indexKey(userID, from), 0, name)
		pipe.LRem(ctx, indexKey(userID, to), 0, name)
		pipe.RPush(ctx, indexKey(userID, to), name)
		return nil
	})
	return err
}

func (i *redisIndex) RemoveAll(ctx context.Context, userID uuid.UUID, name string) error {
	_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, bucket := range Buckets() {
			pipe.LRem(ctx, indexKey(userID, bucket), 0, name)
		}
		return nil
	})
	return err
}

func (i *redisIndex) Names(ctx context.Context, userID uuid.UUID, bucket Bucket) ([]string, error) {
	return i.rdb.LRange(ctx, indexKey(userID, bucket), 0, -1).Result()
}

func (i *redisIndex) All(ctx context.Context, userID uuid.UUID) (map[Bucket][]string, error) {
	out := make(map[Bucket][]string, len(Buckets()))
	for _, bucket := range Buckets() {
		names, err := i.Names(ctx, userID, bucket)
		if err != nil {
			return nil, err
		}
		out[bucket] = names
	}
	return out, nil
}

func (i *redisIndex) Rebuild(ctx context.Context, userID uuid.UUID, entries map[Bucket][]string) error {
	_, err := i.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, bucket := range Buckets() {
			key := indexKey(userID, bucket)
			pipe.Del(ctx, key)
			if names := entries[bucket]; len(names) > 0 {
				args := make([]interface{}, len(names))
				for n, name := range names {
					args[n] = name
				}
				pipe.RPush(ctx, key, args...)
			}
		}
		return nil
	})
	return err
}
