// Package resolve is Component E, the media candidate resolver: it
// turns an intent (optionally enriched with a Bound Pair's aliases) and
// a set of provider adapters into a single best candidate, escalating
// through a fixed query-relaxation ladder when no candidate clears the
// acceptance threshold.
package resolve

import (
	"fmt"
	"strings"

	"github.com/trackresolve/core/internal/model"
	"github.com/trackresolve/core/internal/normalize"
)

// rung describes one step of the six-rung query-relaxation ladder. The
// ladder's exact shape is tunable configuration, not hard-coded
// behavior; Rungs below is the package's default and is swappable by
// callers who need a different ladder.
type rung struct {
	dropAlbum       bool
	useRelaxedTrack bool
	useAlias        bool
	dropKeywords    bool
	bareArtistTrack bool
}

// Rungs is the default six-rung ladder: 0 = album-aware strict, 1 = drop
// album, 2 = drop album + relaxed track form, 3 = first alias, 4 = drop
// "official/topic" keywords, 5 = bare artist+track.
var Rungs = []rung{
	{},
	{dropAlbum: true},
	{dropAlbum: true, useRelaxedTrack: true},
	{dropAlbum: true, useAlias: true},
	{dropAlbum: true, useAlias: true, dropKeywords: true},
	{bareArtistTrack: true},
}

// buildQuery renders rung r's query string: quoted artist/track/album
// tokens (album omitted when absent or dropped) followed by "audio
// official topic" unless the rung drops those keywords.
func buildQuery(intent model.Intent, aliases []string, r rung) string {
	track := intent.Track
	if r.useRelaxedTrack {
		track = normalize.Relax(track)
	}
	if r.useAlias && len(aliases) > 0 {
		track = aliases[0]
	}

	var parts []string
	if intent.Artist != "" {
		parts = append(parts, fmt.Sprintf("%q", intent.Artist))
	}
	if track != "" {
		parts = append(parts, fmt.Sprintf("%q", track))
	}
	if !r.dropAlbum && !r.bareArtistTrack && intent.Album != "" {
		parts = append(parts, fmt.Sprintf("%q", intent.Album))
	}

	if !r.dropKeywords && !r.bareArtistTrack {
		parts = append(parts, "audio", "official", "topic")
	}

	return strings.Join(parts, " ")
}
