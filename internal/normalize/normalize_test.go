package normalize

import (
	"testing"

	"github.com/trackresolve/core/internal/model"
)

func TestNormalizeStripsPromotionalNoise(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"official video suffix", "Shuttin' Detroit Down [Music Video]", "shuttin' detroit down"},
		{"topic channel suffix", "John Rich - Topic", "john rich"},
		{"lyrics suffix", "Song (Lyrics)", "song"},
		{"keeps live paren", "Song (Live)", "song (live)"},
		{"keeps motion picture paren", "Song (From the Motion Picture)", "song (from the motion picture)"},
		{"trailing dash run", "Song - - ", "song"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRelaxStripsKnownVariantParens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"live", "Song (Live)", "song"},
		{"deluxe edition", "Song (Deluxe Edition)", "song"},
		{"remaster with year", "Song (Remastered 2011)", "song"},
		{"unrelated paren survives", "Song (From the Motion Picture)", "song from the motion picture"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Relax(tt.in)
			if got != tt.want {
				t.Errorf("Relax(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractVariantTags(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want model.VariantTag
	}{
		{"live", "Song (Live at Wembley)", model.VariantLive},
		{"remaster", "Song (Remastered 2009)", model.VariantRemaster},
		{"sped up", "Song (Sped Up)", model.VariantSpedUp},
		{"sped up dash", "Song (Sped-Up Version)", model.VariantSpedUp},
		{"nightcore", "Song [Nightcore]", model.VariantNightcore},
		{"preview", "Song (Preview)", model.VariantPreview},
		{"extended mix", "Song (Extended Mix)", model.VariantExtended},
		{"radio edit", "Song (Radio Edit)", model.VariantRadioEdit},
		{"deluxe", "Album (Deluxe Edition)", model.VariantDeluxe},
		{"official video neutral", "Song (Official Video)", model.VariantOfficialVideo},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tags := ExtractVariantTags(tt.in)
			if !tags[tt.want] {
				t.Errorf("ExtractVariantTags(%q) = %v, want to contain %q", tt.in, tags, tt.want)
			}
		})
	}
}

func TestNeutralVsDiscriminating(t *testing.T) {
	for tag := range model.NeutralVariants {
		if model.IsDiscriminating(tag) {
			t.Errorf("%q should be neutral", tag)
		}
	}
	discriminating := []model.VariantTag{model.VariantLive, model.VariantRemaster, model.VariantRemix, model.VariantSpedUp}
	for _, tag := range discriminating {
		if !model.IsDiscriminating(tag) {
			t.Errorf("%q should be discriminating", tag)
		}
	}
}

func TestDeriveAllowedVariants(t *testing.T) {
	allowed := DeriveAllowedVariants("Song (Live)", "")
	if !allowed[model.VariantLive] {
		t.Errorf("expected live to be allowed when query itself says Live")
	}

	allowed = DeriveAllowedVariants("Song", "Deluxe Edition")
	if !allowed[model.VariantDeluxe] {
		t.Errorf("expected deluxe to be allowed when album hint says Deluxe Edition")
	}
}

func TestDetectCover(t *testing.T) {
	if !DetectCover("Song (Cover)", "", "Random Uploader", "Original Artist") {
		t.Errorf("expected cover to be detected when uploader differs from expected artist")
	}
	if DetectCover("Song (Cover)", "", "Original Artist", "Original Artist") {
		t.Errorf("expected no cover flag when uploader matches expected artist")
	}
	if DetectCover("Song", "", "Random Uploader", "Original Artist") {
		t.Errorf("expected no cover flag without the word cover present")
	}
}

func TestTokenize(t *testing.T) {
	got := Tokenize("Shuttin' Detroit Down!")
	want := []string{"shuttin", "detroit", "down"}
	if len(got) != len(want) {
		t.Fatalf("Tokenize() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokenize()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
