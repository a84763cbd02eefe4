// Package scoring implements the deterministic scoring kernel: per-field
// subscores, the duration curve, penalty multipliers, and the combined
// final score described in spec.md §4.B.
//
// Token-set operations reuse github.com/samber/lo (deep in the teacher's
// module graph as an indirect dependency, promoted to direct here, the
// way the rest of the pack leans on small functional-collection
// libraries instead of hand-rolled loops). Character-level similarity
// uses github.com/xrash/smetrics's Jaro-Winkler implementation
// (likewise promoted from indirect) as the orthographic complement to
// token-set Jaccard.
package scoring

import (
	"strings"

	"github.com/samber/lo"
	"github.com/xrash/smetrics"

	"github.com/trackresolve/core/internal/normalize"
)

// jaccard computes token-set Jaccard similarity between two token slices.
func jaccard(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	union := lo.Union(a, b)
	inter := lo.Intersect(a, b)
	if len(union) == 0 {
		return 0
	}
	return float64(len(inter)) / float64(len(union))
}

// lcsRatio computes a longest-common-subsequence length ratio, 2*|LCS| /
// (|a| + |b|), matching difflib's SequenceMatcher.ratio() convention.
func lcsRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	n, m := len(a), len(b)
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	lcsLen := prev[m]
	return 2 * float64(lcsLen) / float64(n+m)
}

// textSimilarity blends token-set Jaccard with the LCS ratio: the
// average of the two, which rewards both bag-of-words overlap and
// ordered character overlap without letting either dominate alone.
func textSimilarity(expected, candidate string) float64 {
	j := jaccard(normalize.Tokenize(expected), normalize.Tokenize(candidate))
	l := lcsRatio(strings.ToLower(expected), strings.ToLower(candidate))
	return (j + l) / 2
}

// jaroWinklerSimilarity exposes the character-level complement used by
// ArtistSimilarity for short, typo-prone artist names.
func jaroWinklerSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0
	}
	return smetrics.JaroWinkler(a, b, 0.7, 4)
}

// ArtistSimilarity computes token-set Jaccard over the normalized tokens
// of the expected artist versus every candidate-side artist signal
// (detected artist, uploader with trailing "- Topic" stripped, and a
// leading "Artist - Track" prefix parsed from the title). If the expected
// artist appears as a contiguous token run in any signal, the score
// floors at 0.75. Jaro-Winkler is blended in to reward close
// orthographic matches that Jaccard alone would score 0 (single-token
// artist names with a typo).
func ArtistSimilarity(expectedArtist string, candidateArtist, uploader, title string) float64 {
	expectedTokens := normalize.Tokenize(expectedArtist)
	if len(expectedTokens) == 0 {
		return 0
	}

	signals := []string{candidateArtist, stripTopicSuffix(uploader)}
	if prefix, ok := splitArtistTrackPrefix(title); ok {
		signals = append(signals, prefix)
	}

	best := 0.0
	contiguous := false
	for _, sig := range signals {
		sigTokens := normalize.Tokenize(sig)
		score := jaccard(expectedTokens, sigTokens)
		if score > best {
			best = score
		}
		if containsContiguousRun(sigTokens, expectedTokens) {
			contiguous = true
		}
		if jw := jaroWinklerSimilarity(expectedArtist, sig); jw > best {
			best = jw
		}
	}

	if contiguous && best < 0.75 {
		best = 0.75
	}
	return clamp01(best)
}

func stripTopicSuffix(s string) string {
	const suffix = " - topic"
	low := strings.ToLower(strings.TrimSpace(s))
	if strings.HasSuffix(low, suffix) {
		return strings.TrimSpace(s[:len(s)-len(suffix)])
	}
	return s
}

// splitArtistTrackPrefix parses a leading "Artist - Track" pattern out of
// a raw title, as commonly seen in UGC video titles.
func splitArtistTrackPrefix(title string) (string, bool) {
	for _, sep := range []string{" - ", " – ", " — "} {
		if idx := strings.Index(title, sep); idx > 0 {
			return strings.TrimSpace(title[:idx]), true
		}
	}
	return "", false
}

func containsContiguousRun(haystack, needle []string) bool {
	if len(needle) == 0 || len(haystack) < len(needle) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, tok := range needle {
			if haystack[i+j] != tok {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// TrackSimilarity computes the best-of-two score for an expected track
// title: one computed against normalize.Normalize(expected.track), one
// against normalize.Relax(expected.track), combined by arithmetic max.
// aliases, when present, are each scored the same way and the overall
// best wins. Returns the score and which form ("normalized", "relaxed",
// or "alias") produced it.
func TrackSimilarity(expectedTrack string, candidateTitle string, aliases []string) (float64, string) {
	normScore := textSimilarity(normalize.Normalize(expectedTrack), normalize.Normalize(candidateTitle))
	relaxScore := textSimilarity(normalize.Relax(expectedTrack), normalize.Relax(candidateTitle))

	best := normScore
	variant := "normalized"
	if relaxScore > best {
		best = relaxScore
		variant = "relaxed"
	}

	for _, alias := range aliases {
		aliasScore := textSimilarity(normalize.Normalize(alias), normalize.Normalize(candidateTitle))
		if aliasScore > best {
			best = aliasScore
			variant = "alias"
		}
	}

	return clamp01(best), variant
}

// AlbumSimilarity computes Jaccard on normalized album tokens. A missing
// candidate album yields the neutral 0.5; two present-but-disjoint
// albums yield 0.
func AlbumSimilarity(expectedAlbum, candidateAlbum string) float64 {
	if strings.TrimSpace(expectedAlbum) == "" {
		return 0.5
	}
	if strings.TrimSpace(candidateAlbum) == "" {
		return 0.5
	}
	score := jaccard(normalize.Tokenize(normalize.Normalize(expectedAlbum)), normalize.Tokenize(normalize.Normalize(candidateAlbum)))
	return score
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
