package mb

import (
	"context"
	"sort"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/normalize"
	"github.com/trackresolve/core/internal/scoring"
)

// BindResult is the outcome of Bind: either a populated Pair, or a
// non-empty, ordered Reasons list explaining why binding failed. Never
// both.
type BindResult struct {
	Pair    *model.BoundPair
	Reasons []decision.Reason
}

// usableRelease pairs a release with the recording it was fetched for,
// plus the track-list position the recording occupies within it.
type usableRelease struct {
	release model.Release
	rec     model.Recording
	disc    int
	track   int
	length  model.Track
}

// Bind runs Stages 1-4 of the binding engine against intent, using
// client to search recordings and fetch releases. Determinism: the same
// MB payload always yields the same BoundPair, since every stage sorts
// by fully-specified keys with release_id as the final tiebreaker.
func Bind(ctx context.Context, client *Client, intent model.Intent) BindResult {
	var reasons []decision.Reason

	recordings, err := client.SearchRecordings(ctx, SearchParams{
		Track:  normalize.Normalize(intent.Track),
		Artist: normalize.Normalize(intent.Artist),
		Album:  normalize.Normalize(intent.Album),
		Limit:  10,
	})
	if err != nil {
		return BindResult{Reasons: []decision.Reason{decision.ReasonSourceUnavailable}}
	}

	maxDelta := intent.Thresholds.MaxDurationDeltaMs
	if maxDelta <= 0 {
		maxDelta = 10_000
	}

	var survivors []model.Recording
	for _, rec := range recordings {
		variants := normalize.ExtractVariantTags(rec.Title)
		rejected := false
		for tag := range variants {
			if model.IsDiscriminating(tag) && !intent.AllowVariants[tag] {
				reasons = append(reasons, decision.ReasonDisallowedVariant)
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}

		if rec.LengthMs > 0 && intent.HasDurationHint() {
			delta := rec.LengthMs - intent.DurationHintMs
			if delta < 0 {
				delta = -delta
			}
			if delta > maxDelta {
				reasons = append(reasons, decision.ReasonDurationDeltaGtLimit)
				continue
			}
			if rec.LengthMs >= 25_000 && rec.LengthMs <= 40_000 && intent.DurationHintMs > 60_000 {
				reasons = append(reasons, decision.ReasonDurationFiltered)
				continue
			}
		}

		survivors = append(survivors, rec)
	}

	if len(survivors) == 0 {
		if len(reasons) == 0 {
			reasons = append(reasons, decision.ReasonNoValidReleaseForRecording)
		}
		return BindResult{Reasons: reasons}
	}

	var allUsable []usableRelease

	for _, rec := range survivors {
		for _, releaseID := range rec.ReleaseRefs {
			release, err := client.GetRelease(ctx, releaseID)
			if err != nil {
				continue
			}
			disc, track, trackEntry, ok := release.FindTrack(rec.RecordingID)
			if !ok {
				continue
			}
			if !isUsableRelease(release, disc, track) {
				continue
			}
			allUsable = append(allUsable, usableRelease{release: release, rec: rec, disc: disc, track: track, length: trackEntry})
		}
	}

	if len(allUsable) == 0 {
		return BindResult{Reasons: []decision.Reason{decision.ReasonNoValidReleaseForRecording}}
	}

	bucketed, bucketReasons := bucketAndFilter(allUsable, intent)
	if len(bucketed) == 0 {
		return BindResult{Reasons: bucketReasons}
	}

	type scoredPair struct {
		ur          usableRelease
		rec         model.Recording
		correctness float64
		completeness float64
	}

	maxCorrectness := 3.0 + 3.0 + 2.0 + 1.0
	var scored []scoredPair
	for _, ur := range bucketed {
		rec := ur.rec
		artistSim := scoring.ArtistSimilarity(intent.Artist, rec.ArtistCreditName(), "", rec.Title)
		trackSim, _ := scoring.TrackSimilarity(intent.Track, rec.Title, rec.Aliases)
		durSim := 0.5
		if rec.LengthMs > 0 {
			durSim = scoring.DurationScore(rec.LengthMs, intent.DurationHintMs)
		}
		albumSim := 0.5
		if intent.Album != "" {
			albumSim = scoring.AlbumSimilarity(intent.Album, ur.release.Title)
		}
		correctness := artistSim*3 + trackSim*3 + durSim*2 + albumSim*1
		completeness := completenessScore(ur, rec)

		scored = append(scored, scoredPair{ur: ur, rec: rec, correctness: correctness, completeness: completeness})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].correctness != scored[j].correctness {
			return scored[i].correctness > scored[j].correctness
		}
		if scored[i].completeness != scored[j].completeness {
			return scored[i].completeness > scored[j].completeness
		}
		iMatch := scored[i].ur.release.Country == intent.CountryPreference
		jMatch := scored[j].ur.release.Country == intent.CountryPreference
		if iMatch != jMatch {
			return iMatch
		}
		if scored[i].ur.release.Date != scored[j].ur.release.Date {
			return scored[i].ur.release.Date < scored[j].ur.release.Date
		}
		return scored[i].ur.release.ReleaseID < scored[j].ur.release.ReleaseID
	})

	best := scored[0]
	threshold := intent.Thresholds.BindingThreshold
	if threshold <= 0 {
		threshold = 0.90
	}
	if best.correctness/maxCorrectness < threshold {
		return BindResult{Reasons: []decision.Reason{decision.ReasonMBBindingBelowThreshold}}
	}

	aliases := make(map[string]bool)
	for _, a := range best.rec.Aliases {
		aliases[a] = true
	}
	if best.rec.Disambiguation != "" {
		aliases[best.rec.Disambiguation] = true
	}
	for _, m := range best.ur.release.MediumList {
		for _, t := range m.Tracks {
			if t.RecordingID == best.rec.RecordingID {
				aliases[t.Title] = true
			}
		}
	}

	var isrc string
	if len(best.rec.ISRCs) > 0 {
		isrc = best.rec.ISRCs[0]
	}

	pair := &model.BoundPair{
		RecordingID:    best.rec.RecordingID,
		ReleaseID:      best.ur.release.ReleaseID,
		ReleaseGroupID: best.ur.release.ReleaseGroup.ID,
		AlbumTitle:     best.ur.release.Title,
		ReleaseDate:    best.ur.release.Date,
		TrackNumber:    best.ur.track,
		DiscNumber:     best.ur.disc,
		DurationMs:     best.rec.LengthMs,
		ISRC:           isrc,
		TrackAliases:   aliases,
	}

	return BindResult{Pair: pair}
}

func isUsableRelease(r model.Release, disc, track int) bool {
	if r.Status != "Official" {
		return false
	}
	switch r.ReleaseGroup.PrimaryType {
	case "Album", "EP", "Single":
	default:
		return false
	}
	if disc < 1 || track < 1 {
		return false
	}
	if r.YearOf() == "" {
		return false
	}
	if r.Title == "" {
		return false
	}
	return true
}

// bucketAndFilter applies Stage 3's bucket preference order and the
// compilation-album-hint rule, returning only releases from the
// highest-preference non-empty bucket.
func bucketAndFilter(candidates []usableRelease, intent model.Intent) ([]usableRelease, []decision.Reason) {
	var albumBucket, compilationBucket, singleBucket []usableRelease

	for _, c := range candidates {
		rg := c.release.ReleaseGroup
		isAlbumLike := rg.PrimaryType == "Album" || rg.PrimaryType == "EP"
		isCompilation := rg.HasSecondaryType("Compilation")

		switch {
		case isAlbumLike && !isCompilation:
			albumBucket = append(albumBucket, c)
		case isAlbumLike && isCompilation:
			compilationBucket = append(compilationBucket, c)
		case rg.PrimaryType == "Single":
			singleBucket = append(singleBucket, c)
		}
	}

	if len(albumBucket) > 0 {
		return albumBucket, nil
	}

	if len(compilationBucket) > 0 {
		if intent.Album == "" {
			return compilationBucket, nil
		}
		wantAlbum := normalize.Normalize(intent.Album)
		var matched []usableRelease
		for _, c := range compilationBucket {
			if normalize.Normalize(c.release.Title) == wantAlbum {
				matched = append(matched, c)
			}
		}
		if len(matched) == 0 {
			return nil, []decision.Reason{decision.ReasonCompilationAlbumMismatch}
		}
		return matched, nil
	}

	if len(singleBucket) > 0 && intent.AllowNonAlbumFallback {
		return singleBucket, nil
	}

	return nil, []decision.Reason{decision.ReasonNoValidReleaseForRecording}
}

// completenessScore counts presence-bonuses for ISRC, label info,
// barcode, track length, country, and release-date granularity.
func completenessScore(ur usableRelease, rec model.Recording) float64 {
	score := 0.0
	if len(rec.ISRCs) > 0 {
		score++
	}
	if ur.release.LabelInfo != "" {
		score++
	}
	if ur.release.Barcode != "" {
		score++
	}
	if ur.length.LengthMs > 0 {
		score++
	}
	if ur.release.Country != "" {
		score++
	}
	score += float64(ur.release.DateGranularity())
	return score
}
