// Package pipeline orchestrates a single intent end to end: normalize,
// bind, enrich, resolve, download, tag, validate, build a path, and
// record the ledger entry, returning exactly one terminal status per
// §7: completed, failed, validation_failed, or cancelled.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/external"
	"github.com/trackresolve/core/internal/ledger"
	"github.com/trackresolve/core/internal/mb"
	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/normalize"
	"github.com/trackresolve/core/internal/obs"
	"github.com/trackresolve/core/internal/pathbuild"
	"github.com/trackresolve/core/internal/providers"
	"github.com/trackresolve/core/internal/resolve"
)

// Outcome is a single intent's full processing result.
type Outcome struct {
	Status external.RunOutcome
	Edge   model.DecisionEdge
	Path   string
	Err    error
}

// Dependencies bundles every external collaborator Process needs. Tests
// supply fakes for Downloader/Tagger/DurationProbe; MB and the
// providers still need live or stubbed HTTP behind them.
type Dependencies struct {
	MB             *mb.Client
	Adapters       []providers.Adapter
	Downloader     external.Downloader
	Tagger         external.Tagger
	DurationProbe  external.DurationProbe
	Ledger         *ledger.Ledger
	Metrics        *obs.Metrics
	ObsServer      *obs.Server
	Ext            string // output file extension, e.g. "mp3"
	Log            *slog.Logger
}

// Process runs one intent through the full pipeline.
func Process(ctx context.Context, deps Dependencies, playlistID string, intent model.Intent) Outcome {
	if err := ctx.Err(); err != nil {
		return Outcome{Status: external.RunOutcomeCancelled}
	}

	merged := mergeDerivedVariants(intent)

	bindResult := mb.Bind(ctx, deps.MB, merged)
	if bindResult.Pair == nil {
		edge := model.DecisionEdge{BindingOutcome: reasonsToString(bindResult.Reasons)}
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: binding failed: %v", bindResult.Reasons)}
	}

	pair, enrichReason := mb.Enrich(ctx, deps.MB, *bindResult.Pair)
	if enrichReason != nil {
		edge := model.DecisionEdge{BindingOutcome: string(*enrichReason)}
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: %s", *enrichReason)}
	}

	if deps.Ledger != nil && pair.ISRC != "" {
		if existingPath, found, err := deps.Ledger.Get(playlistID, pair.ISRC); err == nil && found {
			return Outcome{Status: external.RunOutcomeCompleted, Path: existingPath}
		}
	}

	aliases := make([]string, 0, len(pair.TrackAliases))
	for alias := range pair.TrackAliases {
		aliases = append(aliases, alias)
	}

	edge := resolve.Resolve(ctx, merged, aliases, deps.Adapters)
	if deps.Metrics != nil {
		deps.Metrics.Observe(edge)
	}
	if deps.ObsServer != nil {
		deps.ObsServer.Record(edge)
	}
	edge.BindingOutcome = "bound"

	if edge.AcceptedCandidate == nil {
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: %s", edge.ResolverOutcome)}
	}

	localPath, err := deps.Downloader.Download(ctx, edge.AcceptedCandidate.URL)
	if err != nil {
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: download: %w", err)}
	}

	meta := external.TagMetadata{
		Title:       edge.AcceptedCandidate.Title,
		Artist:      merged.Artist,
		Album:       pair.AlbumTitle,
		AlbumArtist: merged.Artist,
		TrackNumber: pair.TrackNumber,
		DiscNumber:  pair.DiscNumber,
		Year:        pair.YearOf(),
		MBID:        pair.RecordingID,
		ISRC:        pair.ISRC,
	}
	if err := deps.Tagger.Tag(ctx, localPath, meta); err != nil {
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: tag_error: %w", err)}
	}

	if err := ValidateDuration(ctx, deps.DurationProbe, localPath, pair.DurationMs, merged.Thresholds.DurationToleranceSec); err != nil {
		return Outcome{Status: external.RunOutcomeValidationFailed, Edge: edge, Err: err}
	}

	path, err := pathbuild.Build(pair, merged.Artist, edge.AcceptedCandidate.Title, deps.Ext)
	if err != nil {
		return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: %w", err)}
	}

	if deps.Ledger != nil && pair.ISRC != "" {
		if err := deps.Ledger.Record(model.IdempotencyRecord{PlaylistID: playlistID, ISRC: pair.ISRC, FilePath: path}); err != nil {
			return Outcome{Status: external.RunOutcomeFailed, Edge: edge, Err: fmt.Errorf("pipeline: ledger: %w", err)}
		}
	}

	return Outcome{Status: external.RunOutcomeCompleted, Edge: edge, Path: path}
}

// mergeDerivedVariants folds the variant tags implied by the query
// itself (e.g. a track title that already says "(Live)") into
// allow_variants, per normalize.DeriveAllowedVariants.
func mergeDerivedVariants(intent model.Intent) model.Intent {
	derived := normalize.DeriveAllowedVariants(intent.Track, intent.Album)
	merged := make(map[model.VariantTag]bool, len(intent.AllowVariants)+len(derived))
	for tag := range intent.AllowVariants {
		merged[tag] = true
	}
	for tag := range derived {
		merged[tag] = true
	}
	intent.AllowVariants = merged
	return intent
}

func reasonsToString(reasons []decision.Reason) string {
	if len(reasons) == 0 {
		return ""
	}
	out := string(reasons[0])
	for _, r := range reasons[1:] {
		out += "," + string(r)
	}
	return out
}
