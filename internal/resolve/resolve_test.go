package resolve

import (
	"context"
	"testing"

	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/providers"
)

// fakeAdapter returns a fixed candidate set regardless of query, letting
// tests exercise the resolver's selection and ladder logic without real
// network calls.
type fakeAdapter struct {
	name       string
	modifier   float64
	candidates []model.Candidate
}

func (f fakeAdapter) Name() string           { return f.name }
func (f fakeAdapter) SourceModifier() float64 { return f.modifier }
func (f fakeAdapter) Search(ctx context.Context, query string, limit int) ([]model.Candidate, error) {
	return f.candidates, nil
}

// TestResolveScenarioLiveAndPreviewRejected implements spec §8 scenario
// 2: both candidates carry a rejecting penalty, so the resolver reports
// no_candidate_above_threshold across every rung.
func TestResolveScenarioLiveAndPreviewRejected(t *testing.T) {
	intent := model.Intent{
		Artist:         "Artist",
		Track:          "Song",
		DurationHintMs: 200000,
		AllowVariants:  map[model.VariantTag]bool{},
		SourcePriority: []string{"ytm"},
		Thresholds:     model.Thresholds{AcceptanceThreshold: 0.78},
	}
	adapter := fakeAdapter{name: "ytm", modifier: 1.0, candidates: []model.Candidate{
		{Source: "ytm", Title: "Song (Live)", ArtistDetected: "Artist", DurationSec: 200, SourceModifier: 1.0},
		{Source: "ytm", Title: "Song (Preview)", ArtistDetected: "Artist", DurationSec: 30, SourceModifier: 1.0},
	}}

	edge := Resolve(context.Background(), intent, nil, []providers.Adapter{adapter})

	if edge.AcceptedCandidate != nil {
		t.Fatalf("expected no accepted candidate, got %+v", edge.AcceptedCandidate)
	}
	if edge.ResolverOutcome != "no_candidate_above_threshold" {
		t.Errorf("expected no_candidate_above_threshold, got %q", edge.ResolverOutcome)
	}
}

// TestResolveScenarioSourcePriorityTiebreak implements spec §8 scenario
// 3: two candidates tie on final_score; the one from the
// higher-priority source wins.
func TestResolveScenarioSourcePriorityTiebreak(t *testing.T) {
	intent := model.Intent{
		Artist:         "Artist",
		Track:          "Song",
		DurationHintMs: 200000,
		AllowVariants:  map[model.VariantTag]bool{},
		SourcePriority: []string{"youtube_music", "youtube"},
		Thresholds:     model.Thresholds{AcceptanceThreshold: 0.78},
	}
	ytm := fakeAdapter{name: "youtube_music", modifier: 1.0, candidates: []model.Candidate{
		{CandidateID: "a", Source: "youtube_music", Title: "Song", ArtistDetected: "Artist", DurationSec: 200, SourceModifier: 1.0},
	}}
	yt := fakeAdapter{name: "youtube", modifier: 1.0, candidates: []model.Candidate{
		{CandidateID: "b", Source: "youtube", Title: "Song", ArtistDetected: "Artist", DurationSec: 200, SourceModifier: 1.0},
	}}

	edge := Resolve(context.Background(), intent, nil, []providers.Adapter{ytm, yt})

	if edge.AcceptedCandidate == nil {
		t.Fatalf("expected an accepted candidate")
	}
	if edge.AcceptedCandidate.Source != "youtube_music" {
		t.Errorf("expected youtube_music to win the tie, got %q", edge.AcceptedCandidate.Source)
	}
}
