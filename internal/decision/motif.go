package decision

import (
	"sort"

	"github.com/trackresolve/core/internal/model"
)

// riskyAcceptVariants are discriminating variant tags that, if they
// appear on an *accepted* candidate, usually indicate a caller-supplied
// allow_variants mistake rather than a genuine preference, grounded on
// scripts/music_hard_negative_miner.py's _RISKY_ACCEPT_TAGS table.
var riskyAcceptVariants = map[model.VariantTag]bool{
	model.VariantLyricVideo: true,
	model.VariantLive:       true,
	model.VariantRemaster:   true,
	model.VariantRadioEdit:  true,
	model.VariantSpedUp:     true,
	model.VariantSlowed:     true,
	model.VariantNightcore:  true,
	model.VariantEightD:     true,
	model.VariantExtended:   true,
	model.VariantEdit:       true,
	model.VariantCut:        true,
}

var tempoFXVariants = map[model.VariantTag]bool{
	model.VariantSpedUp:    true,
	model.VariantSlowed:    true,
	model.VariantNightcore: true,
	model.VariantEightD:    true,
}

// Motifs classifies edge into the hard-negative-mining failure motifs
// the miner script groups fixtures by: wrong_variant_accept,
// duration_drift, lyric_video_rejection, remaster_rejection,
// live_rejection, and tempo_fx_rejection.
func Motifs(edge model.DecisionEdge) []string {
	motifSet := make(map[string]bool)

	if edge.AcceptedCandidate != nil {
		for tag := range edge.AcceptedCandidate.VariantTags {
			if riskyAcceptVariants[tag] {
				motifSet["wrong_variant_accept"] = true
				break
			}
		}
	}

	if edge.ResolverOutcome == string(ReasonDurationFiltered) {
		motifSet["duration_drift"] = true
	}

	rejectedTags := make(map[model.VariantTag]bool)
	for _, cand := range edge.RejectedTopN {
		for tag := range cand.VariantTags {
			rejectedTags[tag] = true
		}
	}
	if rejectedTags[model.VariantLyricVideo] {
		motifSet["lyric_video_rejection"] = true
	}
	if rejectedTags[model.VariantRemaster] {
		motifSet["remaster_rejection"] = true
	}
	if rejectedTags[model.VariantLive] {
		motifSet["live_rejection"] = true
	}
	for tag := range tempoFXVariants {
		if rejectedTags[tag] {
			motifSet["tempo_fx_rejection"] = true
			break
		}
	}

	motifs := make([]string, 0, len(motifSet))
	for m := range motifSet {
		motifs = append(motifs, m)
	}
	sort.Strings(motifs)
	return motifs
}
