// Package model holds the shared domain types passed between the
// normalizer, binding engine, scoring kernel, resolver, and path builder.
// Nothing in this package performs I/O.
package model

import "time"

// VariantTag is a closed-vocabulary label describing the kind of
// rendition a title or candidate represents.
type VariantTag string

const (
	VariantLive          VariantTag = "live"
	VariantAcoustic      VariantTag = "acoustic"
	VariantRemaster      VariantTag = "remaster"
	VariantRemix         VariantTag = "remix"
	VariantRadioEdit      VariantTag = "radio_edit"
	VariantExtended      VariantTag = "extended"
	VariantEdit          VariantTag = "edit"
	VariantCut           VariantTag = "cut"
	VariantSpedUp        VariantTag = "sped_up"
	VariantSlowed        VariantTag = "slowed"
	VariantNightcore     VariantTag = "nightcore"
	VariantEightD        VariantTag = "eight_d"
	VariantLyricVideo    VariantTag = "lyric_video"
	VariantMusicVideo    VariantTag = "music_video"
	VariantAudio         VariantTag = "audio"
	VariantOfficialVideo VariantTag = "official_video"
	VariantPreview       VariantTag = "preview"
	VariantCover         VariantTag = "cover"
	VariantInstrumental  VariantTag = "instrumental"
	VariantKaraoke       VariantTag = "karaoke"
	VariantDeluxe        VariantTag = "deluxe"
)

// NeutralVariants modify packaging or presentation, never recording
// identity, and never cause rejection on their own.
var NeutralVariants = map[VariantTag]bool{
	VariantAudio:         true,
	VariantOfficialVideo: true,
	VariantDeluxe:        true,
}

// IsDiscriminating reports whether tag modifies the recording itself and
// therefore must be matched against the caller's allow-list.
func IsDiscriminating(tag VariantTag) bool {
	return !NeutralVariants[tag]
}

// MediaIntent distinguishes music lookups from other kinds the core
// ignores.
type MediaIntent string

const (
	MediaIntentTrack MediaIntent = "music_track"
	MediaIntentAlbum MediaIntent = "music_album"
)

// Thresholds bundles the tunable knobs that gate binding and selection.
type Thresholds struct {
	BindingThreshold      float64
	MaxDurationDeltaMs    int64
	AcceptanceThreshold   float64
	DurationToleranceSec  float64
}

// Intent is the caller's imprecise description of the track they want.
type Intent struct {
	Artist             string
	Track              string
	Album              string
	DurationHintMs      int64
	MediaIntent        MediaIntent
	CountryPreference  string
	AllowVariants      map[VariantTag]bool
	Thresholds         Thresholds
	SourcePriority     []string
	AllowNonAlbumFallback bool
}

// HasDurationHint reports whether the caller supplied a duration hint.
func (i Intent) HasDurationHint() bool { return i.DurationHintMs > 0 }

// ArtistCredit is one segment of a MusicBrainz artist credit.
type ArtistCredit struct {
	ArtistID   string
	Name       string
	SortName   string
	JoinPhrase string
}

// Recording is the catalog's notion of a single audio recording.
type Recording struct {
	RecordingID  string
	Title        string
	ArtistCredit []ArtistCredit
	LengthMs     int64 // 0 means unknown
	ISRCs        []string
	ExtScore     int // catalog-reported search relevance, 0-100
	ReleaseRefs  []string
	Disambiguation string
	Aliases      []string
}

// ArtistCreditName renders the full artist-credit phrase.
func (r Recording) ArtistCreditName() string {
	var out string
	for _, ac := range r.ArtistCredit {
		out += ac.Name
		out += ac.JoinPhrase
	}
	return out
}

// ReleaseGroup carries the primary/secondary type classification used by
// bucket ranking.
type ReleaseGroup struct {
	ID             string
	PrimaryType    string // Album, EP, Single, Broadcast, Other
	SecondaryTypes []string
}

// HasSecondaryType reports whether name (case-sensitive, catalog form) is
// present in the release group's secondary types.
func (rg ReleaseGroup) HasSecondaryType(name string) bool {
	for _, t := range rg.SecondaryTypes {
		if t == name {
			return true
		}
	}
	return false
}

// Track is one entry in a release's medium track list.
type Track struct {
	Position    int
	RecordingID string
	LengthMs    int64
	Title       string
}

// Medium is one disc/side of a release.
type Medium struct {
	Position int
	Tracks   []Track
}

// Release is the catalog's notion of a specific pressing/edition.
type Release struct {
	ReleaseID    string
	Title        string
	Status       string // only "Official" is acceptable by default
	Country      string
	Date         string // YYYY, YYYY-MM, or YYYY-MM-DD
	ReleaseGroup ReleaseGroup
	MediumList   []Medium
	Barcode      string
	LabelInfo    string
}

// YearOf returns the four-digit year prefix of Date, or "" if absent.
func (r Release) YearOf() string {
	if len(r.Date) >= 4 {
		return r.Date[:4]
	}
	return ""
}

// DateGranularity scores how specific r.Date is: 3 = day, 2 = month, 1 =
// year, 0 = unusable.
func (r Release) DateGranularity() int {
	switch {
	case len(r.Date) >= 10:
		return 3
	case len(r.Date) >= 7:
		return 2
	case len(r.Date) >= 4:
		return 1
	default:
		return 0
	}
}

// FindTrack locates recordingID within the release's medium list, if
// present.
func (r Release) FindTrack(recordingID string) (disc, track int, t Track, ok bool) {
	for _, m := range r.MediumList {
		for _, tr := range m.Tracks {
			if tr.RecordingID == recordingID {
				return m.Position, tr.Position, tr, true
			}
		}
	}
	return 0, 0, Track{}, false
}

// BoundPair is the binding engine's output: a single canonical
// (recording, release) identity sufficient to tag and place a file.
type BoundPair struct {
	RecordingID     string
	ReleaseID       string
	ReleaseGroupID  string
	AlbumTitle      string
	ReleaseDate     string
	TrackNumber     int
	DiscNumber      int
	DurationMs      int64
	ISRC            string
	TrackAliases    map[string]bool
}

// Complete reports whether every field the no-Unknown-Album invariant
// requires is populated.
func (b BoundPair) Complete() bool {
	return b.AlbumTitle != "" && b.TrackNumber >= 1 && b.DiscNumber >= 1 && b.YearOf() != ""
}

// YearOf mirrors Release.YearOf for the bound release date.
func (b BoundPair) YearOf() string {
	if len(b.ReleaseDate) >= 4 {
		return b.ReleaseDate[:4]
	}
	return ""
}

// Candidate is one raw result returned by a media provider adapter.
type Candidate struct {
	CandidateID    string
	Source         string
	URL            string
	Title          string
	Uploader       string
	DurationSec    int64 // 0 means unknown
	ArtistDetected string
	TrackDetected  string
	AlbumDetected  string
	Official       bool
	ISRC           string
	SourceModifier float64 // adapter-provided constant, defaults to 1.0
}

// Subscores are the per-field components of a candidate's final score.
type Subscores struct {
	ArtistSimilarity float64
	TrackSimilarity  float64
	AlbumSimilarity  float64
	DurationScore    float64
	UploaderTrust    float64
	SourceModifier   float64
}

// ScoredCandidate is a Candidate enriched with the scoring kernel's
// output.
type ScoredCandidate struct {
	Candidate
	Subscores           Subscores
	VariantTags         map[VariantTag]bool
	TitleNoiseScore     int
	FinalScore          float64
	ScoreTrackVariantUsed string // "normalized", "relaxed", or "alias"
	RejectionReason     string
	SourcePriorityRank  int
}

// DurationDeltaMs returns |candidate duration - expected duration| in
// milliseconds, or -1 if either side is unknown.
func (s ScoredCandidate) DurationDeltaMs(expectedMs int64) int64 {
	if s.DurationSec <= 0 || expectedMs <= 0 {
		return -1
	}
	d := s.DurationSec*1000 - expectedMs
	if d < 0 {
		d = -d
	}
	return d
}

// DecisionEdge is the per-intent observability record: what was
// accepted, what was rejected, and why.
type DecisionEdge struct {
	IntentFingerprint string
	AcceptedCandidate *ScoredCandidate
	RejectedTopN      []ScoredCandidate
	RungsTried        []int
	RungOutcomes      []string
	BindingOutcome    string
	ResolverOutcome   string
	CreatedAt         time.Time
}

// IdempotencyRecord is one (playlist, isrc) -> path mapping.
type IdempotencyRecord struct {
	PlaylistID string
	ISRC       string
	FilePath   string
}
