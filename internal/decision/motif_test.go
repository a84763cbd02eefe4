package decision

import (
	"testing"

	"github.com/trackresolve/core/internal/model"
)

func TestMotifsFlagsWrongVariantAccept(t *testing.T) {
	accepted := model.ScoredCandidate{
		VariantTags: map[model.VariantTag]bool{model.VariantLive: true},
	}
	edge := model.DecisionEdge{AcceptedCandidate: &accepted}
	motifs := Motifs(edge)
	if !contains(motifs, "wrong_variant_accept") {
		t.Errorf("expected wrong_variant_accept, got %v", motifs)
	}
}

func TestMotifsFlagsRejectionTags(t *testing.T) {
	edge := model.DecisionEdge{
		RejectedTopN: []model.ScoredCandidate{
			{VariantTags: map[model.VariantTag]bool{model.VariantRemaster: true}},
			{VariantTags: map[model.VariantTag]bool{model.VariantSpedUp: true}},
		},
	}
	motifs := Motifs(edge)
	if !contains(motifs, "remaster_rejection") || !contains(motifs, "tempo_fx_rejection") {
		t.Errorf("expected remaster_rejection and tempo_fx_rejection, got %v", motifs)
	}
}

func TestExportFlattensRejectedCandidates(t *testing.T) {
	edge := model.DecisionEdge{
		IntentFingerprint: "fp",
		RejectedTopN: []model.ScoredCandidate{
			{Candidate: model.Candidate{CandidateID: "c1", Source: "ytm"}, RejectionReason: "preview"},
		},
	}
	records := Export(edge)
	if len(records) != 1 || records[0].CandidateID != "c1" || records[0].RejectionReason != "preview" {
		t.Errorf("Export() = %+v, want one record for c1/preview", records)
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
