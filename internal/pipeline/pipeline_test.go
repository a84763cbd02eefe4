package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackresolve/core/internal/external"
)

type fakeDownloader struct {
	path string
	err  error
}

func (f fakeDownloader) Download(ctx context.Context, mediaURL string) (string, error) {
	return f.path, f.err
}

type fakeTagger struct{ err error }

func (f fakeTagger) Tag(ctx context.Context, path string, meta external.TagMetadata) error {
	return f.err
}

type fakeProbe struct {
	durationMs int64
	err        error
}

func (f fakeProbe) ProbeDurationMs(ctx context.Context, path string) (int64, error) {
	return f.durationMs, f.err
}

type fakeNotifier struct {
	calls []external.RunSummary
}

func (f *fakeNotifier) NotifyRunSummary(ctx context.Context, summary external.RunSummary) error {
	f.calls = append(f.calls, summary)
	return nil
}

func TestValidateDurationWithinTolerancePasses(t *testing.T) {
	probe := fakeProbe{durationMs: 181_000}
	if err := ValidateDuration(context.Background(), probe, "/tmp/x.mp3", 180_000, 5); err != nil {
		t.Fatalf("expected pass, got %v", err)
	}
}

func TestValidateDurationBeyondToleranceFails(t *testing.T) {
	probe := fakeProbe{durationMs: 210_000}
	err := ValidateDuration(context.Background(), probe, "/tmp/x.mp3", 180_000, 5)
	if err == nil {
		t.Fatal("expected failure for 30s drift beyond 5s tolerance")
	}
}

func TestValidateDurationSkippedWhenExpectedUnknown(t *testing.T) {
	probe := fakeProbe{durationMs: 999_000}
	if err := ValidateDuration(context.Background(), probe, "/tmp/x.mp3", 0, 5); err != nil {
		t.Fatalf("expected skip to pass, got %v", err)
	}
}

func TestRunnerFinishDispatchesExactlyOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRunner(Dependencies{}, notifier)

	require.NoError(t, r.Finish(context.Background(), "run-1"))
	require.NoError(t, r.Finish(context.Background(), "run-1"))
	assert.Len(t, notifier.calls, 1)
	assert.Equal(t, "run-1", notifier.calls[0].RunID)
}

func TestNewRunIDProducesDistinctNonEmptyIDs(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func TestRunnerFinishConcurrentCallsDispatchOnce(t *testing.T) {
	notifier := &fakeNotifier{}
	r := NewRunner(Dependencies{}, notifier)

	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			done <- r.Finish(context.Background(), "run-concurrent")
		}()
	}
	for i := 0; i < 8; i++ {
		if err := <-done; err != nil {
			t.Fatalf("concurrent Finish: %v", err)
		}
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected exactly one NotifyRunSummary call, got %d", len(notifier.calls))
	}
}
