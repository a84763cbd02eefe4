package resolve

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"sort"
	"time"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/providers"
	"github.com/trackresolve/core/internal/scoring"
)

// MaxCandidatesPerSource caps how many raw candidates one adapter call
// contributes per rung.
const MaxCandidatesPerSource = 10

// Resolve runs the full protocol from §4.E: build a query, iterate
// adapters in source_priority order, score every candidate, and select
// the best survivor. On failure at every rung it returns a DecisionEdge
// with no accepted candidate and ResolverOutcome set to
// no_candidate_above_threshold.
func Resolve(ctx context.Context, intent model.Intent, aliases []string, adapters []providers.Adapter) (edge model.DecisionEdge) {
	edge.IntentFingerprint = fingerprint(intent)

	defer func() { edge = decision.NewEdge(edge, time.Now()) }()

	acceptance := intent.Thresholds.AcceptanceThreshold
	if acceptance <= 0 {
		acceptance = 0.78
	}

	adaptersByName := make(map[string]providers.Adapter, len(adapters))
	for _, a := range adapters {
		adaptersByName[a.Name()] = a
	}

	var rejectedAll []model.ScoredCandidate

	for rungIdx, r := range Rungs {
		select {
		case <-ctx.Done():
			edge.ResolverOutcome = "cancelled"
			return
		default:
		}

		query := buildQuery(intent, aliases, r)
		edge.RungsTried = append(edge.RungsTried, rungIdx)

		var survivors []model.ScoredCandidate
		for srcRank, sourceName := range intent.SourcePriority {
			adapter, ok := adaptersByName[sourceName]
			if !ok {
				continue
			}
			candidates, err := adapter.Search(ctx, query, MaxCandidatesPerSource)
			if err != nil {
				continue
			}
			for _, cand := range candidates {
				scored := scoring.Score(intent, cand, aliases)
				scored.SourcePriorityRank = srcRank
				if scored.RejectionReason != "" {
					rejectedAll = append(rejectedAll, scored)
					continue
				}
				survivors = append(survivors, scored)
			}
		}

		sortCandidates(survivors, intent.DurationHintMs)

		if len(survivors) > 0 && survivors[0].FinalScore >= acceptance {
			accepted := survivors[0]
			edge.AcceptedCandidate = &accepted
			edge.RungOutcomes = append(edge.RungOutcomes, "accepted")
			edge.ResolverOutcome = "accepted"
			edge.RejectedTopN = topN(append(rejectedAll, survivors[1:]...), intent.DurationHintMs, 5)
			return
		}

		rejectedAll = append(rejectedAll, survivors...)
		edge.RungOutcomes = append(edge.RungOutcomes, string(decision.ReasonNoCandidateAboveThreshold))
	}

	edge.ResolverOutcome = string(decision.ReasonNoCandidateAboveThreshold)
	edge.RejectedTopN = topN(rejectedAll, intent.DurationHintMs, 5)
	return
}

// sortCandidates applies §4.E's strict, fully-specified sort order:
// final_score desc, duration_delta_ms asc, title_noise_score asc,
// source_priority_rank asc, candidate_id asc. Unknown duration deltas
// (-1) sort last.
func sortCandidates(cands []model.ScoredCandidate, expectedMs int64) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if a.FinalScore != b.FinalScore {
			return a.FinalScore > b.FinalScore
		}
		da, db := a.DurationDeltaMs(expectedMs), b.DurationDeltaMs(expectedMs)
		if da != db {
			if da < 0 {
				return false
			}
			if db < 0 {
				return true
			}
			return da < db
		}
		if a.TitleNoiseScore != b.TitleNoiseScore {
			return a.TitleNoiseScore < b.TitleNoiseScore
		}
		if a.SourcePriorityRank != b.SourcePriorityRank {
			return a.SourcePriorityRank < b.SourcePriorityRank
		}
		return a.CandidateID < b.CandidateID
	})
}

func topN(cands []model.ScoredCandidate, expectedMs int64, n int) []model.ScoredCandidate {
	sortCandidates(cands, expectedMs)
	if len(cands) > n {
		return cands[:n]
	}
	return cands
}

// fingerprint derives a stable, order-independent identifier for an
// intent, used only for observability correlation.
func fingerprint(intent model.Intent) string {
	h := sha1.New()
	fmt.Fprintf(h, "%s|%s|%s|%d", intent.Artist, intent.Track, intent.Album, intent.DurationHintMs)
	return hex.EncodeToString(h.Sum(nil))
}
