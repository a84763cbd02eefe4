package mb

import (
	"testing"

	"github.com/trackresolve/core/internal/decision"
	"github.com/trackresolve/core/internal/model"
)

func albumRelease(id, title string, secondary ...string) usableRelease {
	return usableRelease{release: model.Release{
		ReleaseID: id,
		Title:     title,
		Status:    "Official",
		Date:      "2008-01-01",
		ReleaseGroup: model.ReleaseGroup{
			ID:             id + "-rg",
			PrimaryType:    "Album",
			SecondaryTypes: secondary,
		},
	}, disc: 1, track: 1}
}

func singleRelease(id, title string) usableRelease {
	return usableRelease{release: model.Release{
		ReleaseID: id,
		Title:     title,
		Status:    "Official",
		Date:      "2008-01-01",
		ReleaseGroup: model.ReleaseGroup{
			ID:          id + "-rg",
			PrimaryType: "Single",
		},
	}, disc: 1, track: 1}
}

func TestBucketAndFilterPrefersAlbumOverCompilation(t *testing.T) {
	candidates := []usableRelease{
		albumRelease("r1", "Studio Album"),
		albumRelease("r2", "Greatest Hits", "Compilation"),
	}
	got, reasons := bucketAndFilter(candidates, model.Intent{})
	if len(reasons) != 0 {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
	if len(got) != 1 || got[0].release.ReleaseID != "r1" {
		t.Errorf("expected only the album bucket release, got %+v", got)
	}
}

func TestBucketAndFilterCompilationMismatchWithAlbumHint(t *testing.T) {
	candidates := []usableRelease{
		albumRelease("r2", "Greatest Hits", "Compilation"),
	}
	_, reasons := bucketAndFilter(candidates, model.Intent{Album: "Studio Album"})
	if len(reasons) != 1 || reasons[0] != decision.ReasonCompilationAlbumMismatch {
		t.Errorf("expected compilation_album_mismatch, got %v", reasons)
	}
}

func TestBucketAndFilterCompilationMatchesHintedAlbum(t *testing.T) {
	candidates := []usableRelease{
		albumRelease("r2", "Studio Album", "Compilation"),
	}
	got, reasons := bucketAndFilter(candidates, model.Intent{Album: "Studio Album"})
	if len(reasons) != 0 {
		t.Fatalf("unexpected reasons: %v", reasons)
	}
	if len(got) != 1 {
		t.Errorf("expected the hint-matching compilation to pass, got %+v", got)
	}
}

func TestBucketAndFilterSingleRequiresFallbackFlag(t *testing.T) {
	candidates := []usableRelease{singleRelease("r3", "Song (Single)")}

	_, reasons := bucketAndFilter(candidates, model.Intent{AllowNonAlbumFallback: false})
	if len(reasons) != 1 || reasons[0] != decision.ReasonNoValidReleaseForRecording {
		t.Errorf("expected rejection without the fallback flag, got %v", reasons)
	}

	got, reasons := bucketAndFilter(candidates, model.Intent{AllowNonAlbumFallback: true})
	if len(reasons) != 0 || len(got) != 1 {
		t.Errorf("expected the single to pass with the fallback flag set, got got=%+v reasons=%v", got, reasons)
	}
}

func TestIsUsableReleaseRejectsNonOfficialStatus(t *testing.T) {
	r := model.Release{Status: "Promotion", Date: "2020", Title: "X", ReleaseGroup: model.ReleaseGroup{PrimaryType: "Album"}}
	if isUsableRelease(r, 1, 1) {
		t.Errorf("expected non-official release to be unusable")
	}
}

func TestIsUsableReleaseRejectsMissingYear(t *testing.T) {
	r := model.Release{Status: "Official", Date: "", Title: "X", ReleaseGroup: model.ReleaseGroup{PrimaryType: "Album"}}
	if isUsableRelease(r, 1, 1) {
		t.Errorf("expected release without a year to be unusable")
	}
}

func TestCompletenessScorePresenceBonuses(t *testing.T) {
	ur := usableRelease{
		release: model.Release{Country: "US", Barcode: "123", LabelInfo: "Some Label", Date: "2020-01-01"},
		length:  model.Track{LengthMs: 200000},
	}
	rec := model.Recording{ISRCs: []string{"US123"}}
	score := completenessScore(ur, rec)
	// isrc + label + barcode + length + country + day-granularity(3) = 8
	if score != 8 {
		t.Errorf("completenessScore() = %v, want 8", score)
	}
}
