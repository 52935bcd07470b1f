package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestChecker(t *testing.T) (*DedupChecker, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(mr.Close)

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewDedupChecker(client), mr
}

func TestDedupChecker_MarkThenCheck(t *testing.T) {
	checker, _ := newTestChecker(t)
	ctx := context.Background()
	recordedAt := time.Unix(1700000000, 0)

	dup, err := checker.IsDuplicate(ctx, "batch-1", recordedAt)
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if dup {
		t.Fatalf("fresh reading must not be a duplicate")
	}

	if err := checker.Mark(ctx, "batch-1", recordedAt); err != nil {
		t.Fatalf("Mark error: %v", err)
	}

	dup, err = checker.IsDuplicate(ctx, "batch-1", recordedAt)
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if !dup {
		t.Fatalf("marked reading must be a duplicate")
	}

	// Same timestamp on a different batch is distinct.
	dup, err = checker.IsDuplicate(ctx, "batch-2", recordedAt)
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if dup {
		t.Fatalf("different batch must not collide")
	}
}

func TestDedupChecker_KeyExpires(t *testing.T) {
	checker, mr := newTestChecker(t)
	ctx := context.Background()
	recordedAt := time.Unix(1700000000, 0)

	if err := checker.Mark(ctx, "batch-1", recordedAt); err != nil {
		t.Fatalf("Mark error: %v", err)
	}

	mr.FastForward(dedupTTL + time.Second)

	dup, err := checker.IsDuplicate(ctx, "batch-1", recordedAt)
	if err != nil {
		t.Fatalf("IsDuplicate error: %v", err)
	}
	if dup {
		t.Fatalf("expired key must not count as duplicate")
	}
}
