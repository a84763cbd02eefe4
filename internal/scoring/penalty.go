package scoring

import "github.com/trackresolve/core/internal/model"

// PenaltyResult carries the combined multiplier plus, when it drops to
// the rejection floor, the specific failure reason a single penalty
// reached it with. Multiple penalties can still combine multiplicatively
// even when none of them alone is a rejection.
type PenaltyResult struct {
	Multiplier float64
	Reason     string // "" unless Multiplier <= 0.10
}

// Penalties applies four of spec §4.B's five penalty multipliers
// (disallowed variant, cover, preview/too short, remaster), combined by
// product; the album-mismatch multiplier is AlbumMismatchPenalty.
// coverDifferentArtist is decided upstream by the caller
// (normalize.DetectCover), since it needs context this package does not
// own.
func Penalties(variants map[model.VariantTag]bool, allowVariants map[model.VariantTag]bool, coverDifferentArtist bool, candidateDurationSec, expectedDurationSec int64) PenaltyResult {
	mult := 1.0
	reason := ""

	if hasDisallowedDiscriminatingVariant(variants, allowVariants) {
		mult *= 0.10
		reason = "disallowed_variant"
	}

	if coverDifferentArtist {
		mult *= 0.10
		if reason == "" {
			reason = "cover_artist"
		}
	}

	if isPreviewOrTooShort(variants, candidateDurationSec, expectedDurationSec) {
		mult *= 0.10
		if reason == "" {
			reason = "preview"
		}
	}

	if variants[model.VariantRemaster] && !allowVariants[model.VariantRemaster] {
		mult *= 0.90
	}

	if mult > 0.10+1e-9 {
		reason = ""
	}

	return PenaltyResult{Multiplier: mult, Reason: reason}
}

func hasDisallowedDiscriminatingVariant(variants, allowed map[model.VariantTag]bool) bool {
	for tag := range variants {
		if model.IsDiscriminating(tag) && !allowed[tag] {
			return true
		}
	}
	return false
}

func isPreviewOrTooShort(variants map[model.VariantTag]bool, candidateDurationSec, expectedDurationSec int64) bool {
	if variants[model.VariantPreview] {
		return true
	}
	return candidateDurationSec > 0 && candidateDurationSec <= 45 && expectedDurationSec > 60
}

// AlbumMismatchPenalty is applied separately from Penalties because it
// folds into the same multiplicative chain but is decided from the
// already-computed album_similarity rather than a boolean flag.
func AlbumMismatchPenalty(albumExplicitlyMismatched bool) float64 {
	if albumExplicitlyMismatched {
		return 0.80
	}
	return 1.0
}
