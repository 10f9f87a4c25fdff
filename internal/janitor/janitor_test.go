package janitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePruner struct {
	mu      sync.Mutex
	cutoffs []time.Time
	err     error
}

func (f *fakePruner) Prune(ctx context.Context, before time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cutoffs = append(f.cutoffs, before)
	return 2, f.err
}

func (f *fakePruner) calls() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]time.Time(nil), f.cutoffs...)
}

func TestTickUsesTTL(t *testing.T) {
	p := &fakePruner{}
	now := time.Date(2025, 3, 15, 19, 0, 0, 0, time.UTC)
	j := &Janitor{Store: p, TTL: 48 * time.Hour, Interval: time.Hour, now: func() time.Time { return now }}

	j.tick(context.Background())

	require.Len(t, p.calls(), 1)
	assert.Equal(t, now.Add(-48*time.Hour), p.calls()[0])
}

func TestTickSurvivesErrors(t *testing.T) {
	p := &fakePruner{err: errors.New("db down")}
	j := &Janitor{Store: p, TTL: time.Hour, Interval: time.Hour}
	j.tick(context.Background())
	assert.Len(t, p.calls(), 1)
}

func TestRunStopsOnCancel(t *testing.T) {
	p := &fakePruner{}
	j := &Janitor{Store: p, TTL: time.Hour, Interval: 5 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- j.Run(ctx) }()

	require.Eventually(t, func() bool { return len(p.calls()) >= 2 }, time.Second, time.Millisecond)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}
