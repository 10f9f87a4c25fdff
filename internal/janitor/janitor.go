package janitor

import (
	"context"
	"log"
	"time"

	"github.com/jayteemoney/ticket/internal/store"
)

// Janitor periodically deletes drafts that have not been written for TTL.
type Janitor struct {
	Store    store.Pruner
	TTL      time.Duration
	Interval time.Duration

	now func() time.Time
}

func (j *Janitor) Run(ctx context.Context) error {
	t := time.NewTicker(j.Interval)
	defer t.Stop()

	// kick immediately
	j.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			j.tick(ctx)
		}
	}
}

func (j *Janitor) tick(ctx context.Context) {
	now := time.Now
	if j.now != nil {
		now = j.now
	}
	cutoff := now().Add(-j.TTL)
	n, err := j.Store.Prune(ctx, cutoff)
	if err != nil {
		log.Printf("janitor: prune failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("janitor: pruned %d drafts older than %s", n, cutoff.UTC().Format(time.RFC3339))
	}
}
