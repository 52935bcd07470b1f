package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = 6 * time.Hour

// DedupChecker provides idempotency checks for sensor readings backed by
// Redis. Key format: reading:<batch_id>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact reading has already been processed.
func (d *DedupChecker) IsDuplicate(ctx context.Context, batchID string, recordedAt time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(batchID, recordedAt)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this reading has been processed (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, batchID string, recordedAt time.Time) error {
	return d.client.Set(ctx, d.key(batchID, recordedAt), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(batchID string, recordedAt time.Time) string {
	return fmt.Sprintf("reading:%s:%d", batchID, recordedAt.Unix())
}
