package polls

import (
	"context"
	"fmt"
	"time"

	"github.com/riverqueue/river"
)

type Service interface {
	ScheduleDeletion(ctx context.Context, args DeletePollArgs, runAt time.Time) error
}

type pollService[TTx any] struct {
	client *river.Client[TTx]
}

func NewPollsService[TTx any](client *river.Client[TTx]) Service {
	return &pollService[TTx]{client: client}
}

// ScheduleDeletion enqueues the deletion job. A zero runAt runs it as soon as
// a worker is free. Duplicate requests for the same poll collapse into one job.
func (r *pollService[TTx]) ScheduleDeletion(ctx context.Context, args DeletePollArgs, runAt time.Time) error {
	opts := &river.InsertOpts{
		MaxAttempts: 3,
		UniqueOpts:  river.UniqueOpts{ByArgs: true},
	}
	if !runAt.IsZero() {
		opts.ScheduledAt = runAt
	}
	if _, err := r.client.Insert(ctx, args, opts); err != nil {
		return fmt.Errorf("failed to enqueue poll deletion: %w", err)
	}
	return nil
}
