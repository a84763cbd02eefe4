// Package pathbuild is Component F, the canonical filesystem path
// builder. It generalizes original_source/media/path_builder.py's
// layout and sanitization rules, but deliberately drops its
// sanitize_for_filesystem fallback to "Unknown"/"Unknown Album"/"Unknown
// Artist": the no-Unknown-Album invariant instead refuses to build a
// path at all when required metadata is missing.
package pathbuild

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/model"
)

var invalidFSChars = map[rune]bool{
	'<': true, '>': true, ':': true, '"': true,
	'/': true, '\\': true, '|': true, '?': true, '*': true,
}

// sanitize strips filesystem-invalid characters, collapses whitespace,
// trims trailing spaces/periods, and NFC-normalizes. It never
// substitutes a placeholder for an empty result; an empty result is the
// caller's problem to detect before calling Build.
func sanitize(value string) string {
	var b strings.Builder
	for _, r := range value {
		if !invalidFSChars[r] {
			b.WriteRune(r)
		}
	}
	collapsed := strings.Join(strings.Fields(b.String()), " ")
	collapsed = strings.TrimRight(collapsed, " .")
	return norm.NFC.String(collapsed)
}

// Build produces the relative path "Music/{album_artist}/{album_title}
// ({YYYY})/Disc {disc}/{track:02d} - {title}.{ext}" for a bound pair. It
// refuses to run unless album_title is non-empty, release_date carries a
// year, and track/disc numbers are both >= 1, per §4.F; callers must
// ensure release enrichment (§4.D) succeeded before calling this.
func Build(pair model.BoundPair, albumArtist, trackTitle, ext string) (string, error) {
	if pair.AlbumTitle == "" || pair.YearOf() == "" || pair.TrackNumber < 1 || pair.DiscNumber < 1 {
		return "", fmt.Errorf("pathbuild: %s", decision.ReasonMetadataIncompleteBeforePathBuild)
	}

	sanitizedArtist := sanitize(albumArtist)
	sanitizedAlbum := sanitize(pair.AlbumTitle)
	sanitizedTitle := sanitize(trackTitle)
	if sanitizedArtist == "" || sanitizedAlbum == "" || sanitizedTitle == "" {
		return "", fmt.Errorf("pathbuild: %s", decision.ReasonMetadataIncompleteBeforePathBuild)
	}

	albumFolder := fmt.Sprintf("%s (%s)", sanitizedAlbum, pair.YearOf())
	filename := fmt.Sprintf("%02d - %s", pair.TrackNumber, sanitizedTitle)
	if ext = strings.TrimPrefix(ext, "."); ext != "" {
		filename = filename + "." + ext
	}

	path := strings.Join([]string{
		"Music", sanitizedArtist, albumFolder,
		fmt.Sprintf("Disc %d", pair.DiscNumber), filename,
	}, "/")

	if strings.Contains(path, "Unknown Album") {
		return "", fmt.Errorf("pathbuild: %s", decision.ReasonFilenameContractViolation)
	}

	return path, nil
}
