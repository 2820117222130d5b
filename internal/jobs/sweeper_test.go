package jobs

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/eventdesk/backoffice/internal/models"
)

// sweepRecorder embeds a nil EventsRepo so any call beyond
// CompletePastEvents panics the test.
type sweepRecorder struct {
	models.EventsRepo
	calls int
	err   error
}

func (r *sweepRecorder) CompletePastEvents(ctx context.Context, now time.Time) (int64, error) {
	r.calls++
	return 2, r.err
}

func TestSweeperRun(t *testing.T) {
	repo := &sweepRecorder{}
	s := NewSweeper(repo, slog.New(slog.NewTextHandler(io.Discard, nil)), "@hourly")

	s.run()
	if repo.calls != 1 {
		t.Fatalf("CompletePastEvents called %d times, want 1", repo.calls)
	}

	repo.err = errors.New("store down")
	s.run()
	if repo.calls != 2 {
		t.Fatalf("a failing sweep must not stop later runs, calls = %d", repo.calls)
	}
}

func TestSweeperRejectsBadSchedule(t *testing.T) {
	s := NewSweeper(&sweepRecorder{}, slog.New(slog.NewTextHandler(io.Discard, nil)), "not a schedule")
	if err := s.Start(); err == nil {
		s.Stop()
		t.Fatal("expected an error for an unparsable cron schedule")
	}
}
