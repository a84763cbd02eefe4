package scoring

import (
	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/normalize"
)

// weights are the fixed final_score weights from spec §4.B; they never
// vary by call site.
const (
	weightArtist   = 0.30
	weightTrack    = 0.35
	weightAlbum    = 0.10
	weightDuration = 0.15
	weightUploader = 0.05
	weightSource   = 0.05
)

// Score evaluates a single candidate against intent, producing the full
// ScoredCandidate the resolver sorts and selects from. aliases are MB
// aliases for the bound (or provisional) recording, if any are known at
// scoring time.
func Score(intent model.Intent, cand model.Candidate, aliases []string) model.ScoredCandidate {
	variants := normalize.ExtractVariantTags(cand.Title)

	trackScore, variantUsed := TrackSimilarity(intent.Track, cand.Title, aliases)
	artistScore := ArtistSimilarity(intent.Artist, cand.ArtistDetected, cand.Uploader, cand.Title)
	albumScore := AlbumSimilarity(intent.Album, cand.AlbumDetected)

	expectedMs := intent.DurationHintMs
	candidateMs := cand.DurationSec * 1000
	durationScore := DurationScore(candidateMs, expectedMs)

	sourceModifier := cand.SourceModifier
	if sourceModifier <= 0 {
		sourceModifier = 1.0
	}
	uploaderTrust := UploaderTrust(cand.Uploader)

	sub := model.Subscores{
		ArtistSimilarity: artistScore,
		TrackSimilarity:  trackScore,
		AlbumSimilarity:  albumScore,
		DurationScore:    durationScore,
		UploaderTrust:    uploaderTrust,
		SourceModifier:   sourceModifier,
	}

	base := artistScore*weightArtist +
		trackScore*weightTrack +
		albumScore*weightAlbum +
		durationScore*weightDuration +
		uploaderTrust*weightUploader +
		sourceModifier*weightSource

	coverDifferentArtist := normalize.DetectCover(cand.Title, "", cand.Uploader, intent.Artist)
	penaltyResult := Penalties(variants, intent.AllowVariants, coverDifferentArtist, cand.DurationSec, intent.DurationHintMs/1000)

	albumMismatched := intent.Album != "" && cand.AlbumDetected != "" && albumScore == 0
	albumMult := AlbumMismatchPenalty(albumMismatched)

	finalScore := base * penaltyResult.Multiplier * albumMult
	if finalScore < 0 {
		finalScore = 0
	}
	if finalScore > 1 {
		finalScore = 1
	}

	reason := penaltyResult.Reason

	normalizedTitle := normalize.Normalize(cand.Title)
	noiseScore := TitleNoiseScore(cand.Title, normalizedTitle)

	return model.ScoredCandidate{
		Candidate:             cand,
		Subscores:             sub,
		VariantTags:           variants,
		TitleNoiseScore:       noiseScore,
		FinalScore:            finalScore,
		ScoreTrackVariantUsed: variantUsed,
		RejectionReason:       reason,
	}
}
