package pathbuild

import (
	"strings"
	"testing"

	"github.com/trackresolve/core/internal/model"
)

func validPair() model.BoundPair {
	return model.BoundPair{
		AlbumTitle:  "Son of a Preacher Man",
		ReleaseDate: "2008-05-12",
		TrackNumber: 7,
		DiscNumber:  1,
	}
}

func TestBuildProducesCanonicalLayout(t *testing.T) {
	got, err := Build(validPair(), "John Rich", "Shuttin' Detroit Down", "mp3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "Music/John Rich/Son of a Preacher Man (2008)/Disc 1/07 - Shuttin' Detroit Down.mp3"
	if got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuildRefusesMissingYear(t *testing.T) {
	pair := validPair()
	pair.ReleaseDate = ""
	if _, err := Build(pair, "Artist", "Title", "mp3"); err == nil {
		t.Errorf("expected an error when release_date lacks a year")
	}
}

func TestBuildRefusesMissingTrackNumber(t *testing.T) {
	pair := validPair()
	pair.TrackNumber = 0
	if _, err := Build(pair, "Artist", "Title", "mp3"); err == nil {
		t.Errorf("expected an error when track_number < 1")
	}
}

func TestBuildNeverEmitsUnknownAlbum(t *testing.T) {
	pair := validPair()
	pair.AlbumTitle = ""
	_, err := Build(pair, "Artist", "Title", "mp3")
	if err == nil {
		t.Fatalf("expected an error for empty album_title")
	}
	if strings.Contains(err.Error(), "Unknown Album") {
		t.Errorf("error must not itself fabricate Unknown Album text")
	}
}

func TestSanitizeStripsInvalidCharsAndTrailingPeriod(t *testing.T) {
	got := sanitize(`Song: "Title" / Take*2.`)
	if strings.ContainsAny(got, `<>:"/\|?*`) {
		t.Errorf("sanitize left invalid characters in %q", got)
	}
	if strings.HasSuffix(got, ".") || strings.HasSuffix(got, " ") {
		t.Errorf("sanitize left a trailing period/space in %q", got)
	}
}
