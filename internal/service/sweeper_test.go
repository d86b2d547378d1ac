package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type countingPurger struct {
	calls atomic.Int32
	err   error
}

func (p *countingPurger) PurgeExpired(context.Context, time.Time) (int64, error) {
	p.calls.Add(1)
	return 1, p.err
}

func TestSessionSweeper_RunPurgesUntilCancelled(t *testing.T) {
	p := &countingPurger{}
	sw := NewSessionSweeper(p, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sw.Run(ctx, 5*time.Millisecond)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for p.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatalf("sweeper did not tick, calls=%d", p.calls.Load())
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestSessionSweeper_ErrorDoesNotStopLoop(t *testing.T) {
	p := &countingPurger{err: errors.New("locked")}
	sw := NewSessionSweeper(p, nil)

	sw.sweep(context.Background(), time.Now())
	sw.sweep(context.Background(), time.Now())
	if p.calls.Load() != 2 {
		t.Fatalf("expected 2 purge calls, got %d", p.calls.Load())
	}
}
