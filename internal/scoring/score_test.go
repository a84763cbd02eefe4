package scoring

import (
	"testing"

	"github.com/trackresolve/core/internal/model"
)

func TestDurationScoreCurve(t *testing.T) {
	tests := []struct {
		name                string
		candidateMs         int64
		expectedMs          int64
		want                float64
	}{
		{"unknown candidate", 0, 200000, 0.5},
		{"unknown expected", 200000, 0, 0.5},
		{"exact match", 200000, 200000, 1.00},
		{"2s delta", 202000, 200000, 1.00},
		{"5s delta", 205000, 200000, 0.90},
		{"10s delta", 210000, 200000, 0.75},
		{"20s delta", 220000, 200000, 0.50},
		{"30s delta", 230000, 200000, 0.20},
		{"60s delta", 260000, 200000, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DurationScore(tt.candidateMs, tt.expectedMs)
			if got != tt.want {
				t.Errorf("DurationScore(%d, %d) = %v, want %v", tt.candidateMs, tt.expectedMs, got, tt.want)
			}
		})
	}
}

func TestAlbumSimilarityNeutralAndDisjoint(t *testing.T) {
	if got := AlbumSimilarity("", "Some Album"); got != 0.5 {
		t.Errorf("expected album missing from one side to be neutral 0.5, got %v", got)
	}
	if got := AlbumSimilarity("Greatest Hits", ""); got != 0.5 {
		t.Errorf("expected candidate missing album to be neutral 0.5, got %v", got)
	}
	if got := AlbumSimilarity("Greatest Hits", "A Totally Different Record"); got != 0 {
		t.Errorf("expected disjoint albums to score 0, got %v", got)
	}
	if got := AlbumSimilarity("Greatest Hits", "Greatest Hits"); got != 1 {
		t.Errorf("expected identical albums to score 1, got %v", got)
	}
}

func TestArtistSimilarityContiguousRunFloors(t *testing.T) {
	got := ArtistSimilarity("Taylor Swift", "", "Taylor Swift - Topic", "Taylor Swift - Love Story")
	if got < 0.75 {
		t.Errorf("expected contiguous artist run to floor at 0.75, got %v", got)
	}
}

func TestPenaltiesDisallowedVariantRejects(t *testing.T) {
	variants := map[model.VariantTag]bool{model.VariantLive: true}
	allowed := map[model.VariantTag]bool{}
	result := Penalties(variants, allowed, false, 200, 200)
	if result.Multiplier > 0.10+1e-9 {
		t.Errorf("expected disallowed discriminating variant to reject, multiplier=%v", result.Multiplier)
	}
	if result.Reason != "disallowed_variant" {
		t.Errorf("expected reason disallowed_variant, got %q", result.Reason)
	}
}

func TestPenaltiesNeutralVariantNeverRejects(t *testing.T) {
	variants := map[model.VariantTag]bool{model.VariantOfficialVideo: true}
	allowed := map[model.VariantTag]bool{}
	result := Penalties(variants, allowed, false, 200, 200)
	if result.Multiplier != 1.0 {
		t.Errorf("expected neutral variant to carry no penalty, got %v", result.Multiplier)
	}
}

func TestPenaltiesPreviewShortDuration(t *testing.T) {
	result := Penalties(map[model.VariantTag]bool{}, map[model.VariantTag]bool{}, false, 30, 180)
	if result.Reason != "preview" {
		t.Errorf("expected a short duration against a long expectation to be flagged preview, got %q", result.Reason)
	}
}

// TestScenarioLiveAndPreviewBothRejected implements spec §8's scenario:
// two candidates, {source:ytm, title:"Song (Live)", dur:200} and
// {source:ytm, title:"Song (Preview)", dur:30}, both rejected when the
// intent disallows both variants and expects a full-length duration.
func TestScenarioLiveAndPreviewBothRejected(t *testing.T) {
	intent := model.Intent{
		Artist:         "Artist",
		Track:          "Song",
		DurationHintMs: 200000,
		AllowVariants:  map[model.VariantTag]bool{},
	}

	live := model.Candidate{Source: "ytm", Title: "Song (Live)", ArtistDetected: "Artist", DurationSec: 200}
	preview := model.Candidate{Source: "ytm", Title: "Song (Preview)", ArtistDetected: "Artist", DurationSec: 30}

	liveScored := Score(intent, live, nil)
	if liveScored.RejectionReason == "" {
		t.Errorf("expected live candidate to be rejected, got final_score=%v reason=%q", liveScored.FinalScore, liveScored.RejectionReason)
	}

	previewScored := Score(intent, preview, nil)
	if previewScored.RejectionReason == "" {
		t.Errorf("expected preview candidate to be rejected, got final_score=%v reason=%q", previewScored.FinalScore, previewScored.RejectionReason)
	}
}

func TestScoreWeightsSumToFinalScoreUpperBound(t *testing.T) {
	intent := model.Intent{
		Artist:         "Artist",
		Track:          "Song",
		DurationHintMs: 200000,
		AllowVariants:  map[model.VariantTag]bool{},
	}
	cand := model.Candidate{Source: "ytm", Title: "Song", ArtistDetected: "Artist", DurationSec: 200, SourceModifier: 1.0}
	scored := Score(intent, cand, nil)
	if scored.FinalScore > 1.0 {
		t.Errorf("final_score must stay within [0,1], got %v", scored.FinalScore)
	}
	if scored.RejectionReason != "" {
		t.Errorf("expected a clean exact match to carry no rejection, got %q", scored.RejectionReason)
	}
}
