package decision

import (
	"sort"
	"time"

	"github.com/trackresolve/core/internal/model"
)

// NewEdge stamps createdAt onto an already-populated DecisionEdge. The
// caller supplies createdAt explicitly (rather than time.Now() inside
// this package) so replaying a recorded run produces byte-identical
// edges.
func NewEdge(edge model.DecisionEdge, createdAt time.Time) model.DecisionEdge {
	edge.CreatedAt = createdAt
	return edge
}

// HardNegativeRecord is one rejected candidate shaped for export to a
// hard-negative-mining dataset: the intent it was scored against, its
// subscores, and why it lost.
type HardNegativeRecord struct {
	IntentFingerprint string                `json:"intent_fingerprint"`
	CandidateID       string                `json:"candidate_id"`
	Source            string                `json:"source"`
	Title             string                `json:"title"`
	Subscores         model.Subscores       `json:"subscores"`
	VariantTags       []model.VariantTag    `json:"variant_tags"`
	FinalScore        float64               `json:"final_score"`
	RejectionReason   string                `json:"rejection_reason"`
}

// Export flattens edge's rejected candidates into hard-negative-mining
// records, per §4.G's "consumers may persist it for hard-negative
// mining" note and original_source's equivalent export shape.
func Export(edge model.DecisionEdge) []HardNegativeRecord {
	out := make([]HardNegativeRecord, 0, len(edge.RejectedTopN))
	for _, cand := range edge.RejectedTopN {
		tags := make([]model.VariantTag, 0, len(cand.VariantTags))
		for tag := range cand.VariantTags {
			tags = append(tags, tag)
		}
		sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
		out = append(out, HardNegativeRecord{
			IntentFingerprint: edge.IntentFingerprint,
			CandidateID:       cand.CandidateID,
			Source:            cand.Source,
			Title:             cand.Title,
			Subscores:         cand.Subscores,
			VariantTags:       tags,
			FinalScore:        cand.FinalScore,
			RejectionReason:   cand.RejectionReason,
		})
	}
	return out
}
