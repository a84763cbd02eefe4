package mb

import (
	"context"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/model"
)

// Enrich fills any of {track_number, disc_number, release_date,
// release_group_id, album_title} missing from pair by fetching its
// already-bound release_id and locating the recording in the medium
// list. It never re-binds: the release_id is fixed input, not a search
// parameter.
func Enrich(ctx context.Context, client *Client, pair model.BoundPair) (model.BoundPair, *decision.Reason) {
	if pair.Complete() {
		return pair, nil
	}

	release, err := client.GetRelease(ctx, pair.ReleaseID)
	if err != nil {
		reason := decision.ReasonReleaseEnrichmentIncomplete
		return pair, &reason
	}

	if pair.AlbumTitle == "" {
		pair.AlbumTitle = release.Title
	}
	if pair.ReleaseDate == "" {
		pair.ReleaseDate = release.Date
	}
	if pair.ReleaseGroupID == "" {
		pair.ReleaseGroupID = release.ReleaseGroup.ID
	}
	if pair.TrackNumber < 1 || pair.DiscNumber < 1 {
		disc, track, _, ok := release.FindTrack(pair.RecordingID)
		if !ok {
			reason := decision.ReasonReleaseEnrichmentIncomplete
			return pair, &reason
		}
		pair.DiscNumber = disc
		pair.TrackNumber = track
	}

	if !pair.Complete() {
		reason := decision.ReasonReleaseEnrichmentIncomplete
		return pair, &reason
	}

	return pair, nil
}
