// Package external declares the contract boundaries §6 describes for
// systems the core calls but does not implement: downloading, tagging,
// duration probing, playlist parsing, job scheduling, and run-summary
// notification. None of these have a production implementation here;
// callers supply their own.
package external

import (
	"context"

	"github.com/trackresolve/core/internal/model"
)

// Downloader fetches media for a URL and returns a local path. The core
// does not parse or interpret the downloader's output beyond the
// returned path and a subsequent duration probe.
type Downloader interface {
	Download(ctx context.Context, mediaURL string) (localPath string, err error)
}

// TagMetadata is the canonical field set Tagger.Tag writes.
type TagMetadata struct {
	Title       string
	Artist      string
	Album       string
	AlbumArtist string
	TrackNumber int
	DiscNumber  int
	Year        string
	Genre       string
	MBID        string
	ISRC        string
	Lyrics      string // optional
	ArtworkURL  string // optional
}

// Tagger writes canonical tags to a downloaded file. Implementations
// must be idempotent and must fail loudly: the core refuses to proceed
// on any tag failure.
type Tagger interface {
	Tag(ctx context.Context, path string, meta TagMetadata) error
}

// DurationProbe measures a file's actual duration for the validation
// gate: a mismatch beyond duration_tolerance_seconds marks the job
// validation_failed and the ledger is left untouched.
type DurationProbe interface {
	ProbeDurationMs(ctx context.Context, path string) (int64, error)
}

// PlaylistParser turns a caller-supplied playlist source into a list of
// intents the core can resolve independently.
type PlaylistParser interface {
	ParsePlaylist(ctx context.Context, source string) ([]model.Intent, error)
}

// Job is one unit of work a JobQueue schedules: resolve and materialize
// a single intent.
type Job struct {
	PlaylistID string
	Intent     model.Intent
}

// JobQueue accepts jobs for asynchronous processing by a worker pool the
// caller owns.
type JobQueue interface {
	Enqueue(ctx context.Context, job Job) error
}

// Scheduler drives recurring or deferred playlist resolution runs.
type Scheduler interface {
	Schedule(ctx context.Context, run func(ctx context.Context) error) error
}

// RunOutcome is one intent's terminal status, per §7: exactly one of
// completed, failed, validation_failed, or cancelled.
type RunOutcome string

const (
	RunOutcomeCompleted        RunOutcome = "completed"
	RunOutcomeFailed           RunOutcome = "failed"
	RunOutcomeValidationFailed RunOutcome = "validation_failed"
	RunOutcomeCancelled        RunOutcome = "cancelled"
)

// RunSummary aggregates per-intent outcomes for a single run id.
type RunSummary struct {
	RunID    string
	Outcomes map[RunOutcome]int
	Edges    []model.DecisionEdge
}

// Notifier dispatches a completed RunSummary exactly once per run id.
// The core never calls this more than once per run; enforcement of the
// single-dispatch guarantee lives in internal/pipeline.
type Notifier interface {
	NotifyRunSummary(ctx context.Context, summary RunSummary) error
}
