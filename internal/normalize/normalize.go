// Package normalize turns display strings into lookup and scoring forms
// and extracts the closed-vocabulary variant tags used downstream by the
// scoring kernel and binding engine.
//
// The approach generalizes the teacher's MetadataCleaner
// (service/musicbrainz/clean.go): regexp2 patterns against a table of
// known noise/variant words, rather than ad hoc per-call-site regexes.
package normalize

import (
	"strings"
	"unicode"

	"github.com/dlclark/regexp2"
	"golang.org/x/text/unicode/norm"

	"github.com/trackresolve/core/internal/model"
)

// promotionalTokens are trailing/bracketed tokens stripped unconditionally
// from the lookup form because they carry no identity information.
var promotionalTokens = []string{
	"official music video", "official video", "official audio",
	"music video", "lyric video", "lyrics", "visualizer", "audio", "hd",
}

// trailingDashRunRE strips a trailing run of dash-like separators left
// over after promotional-token removal ("Song - - " -> "Song").
var trailingDashRunRE = regexp2.MustCompile(`[\s\-‐‒–—]+$`, 0)

// topicSuffixRE strips a YouTube-style "<Artist> - Topic" channel suffix.
var topicSuffixRE = regexp2.MustCompile(`(?i)\s*-\s*topic\s*$`, 0)

var whitespaceRE = regexp2.MustCompile(`\s+`, 0)

var bracketPairs = map[rune]rune{'(': ')', '[': ']', '{': '}'}

// bracketedSegment is one [start,end) byte range covering an entire
// "(...)"/"[...]"/"{...}" run, found by scanning runes directly rather
// than trusting regexp2's match offsets to line up with Go byte indices.
type bracketedSegment struct {
	start, end int // byte offsets into the original string, end exclusive
	inner      string
}

// findBracketedSegments returns every top-level bracketed run in s, in
// order, without nesting support (none of our inputs nest brackets).
func findBracketedSegments(s string) []bracketedSegment {
	var segs []bracketedSegment
	runes := []rune(s)
	byteOffsets := make([]int, len(runes)+1)
	off := 0
	for i, r := range runes {
		byteOffsets[i] = off
		off += len(string(r))
	}
	byteOffsets[len(runes)] = off

	i := 0
	for i < len(runes) {
		closeRune, isOpen := bracketPairs[runes[i]]
		if !isOpen {
			i++
			continue
		}
		j := i + 1
		for j < len(runes) && runes[j] != closeRune {
			j++
		}
		if j < len(runes) {
			inner := string(runes[i+1 : j])
			segs = append(segs, bracketedSegment{
				start: byteOffsets[i],
				end:   byteOffsets[j+1],
				inner: strings.TrimSpace(inner),
			})
			i = j + 1
		} else {
			i++
		}
	}
	return segs
}

// relaxedPatterns matches parenthetical content that Relax strips.
var relaxedPatterns = []*regexp2.Regexp{
	regexp2.MustCompile(`(?i)\blive\b`, 0),
	regexp2.MustCompile(`(?i)\bdeluxe(?:\s+edition)?\b`, 0),
	regexp2.MustCompile(`(?i)\bremaster(?:ed)?(?:\s+\d{2,4})?\b`, 0),
}

// variantPatterns maps a closed set of regex recognizers to the variant
// tag they signal. Order does not matter; all patterns are tried.
var variantPatterns = []struct {
	tag     model.VariantTag
	pattern *regexp2.Regexp
}{
	{model.VariantLive, regexp2.MustCompile(`(?i)\blive\b`, 0)},
	{model.VariantAcoustic, regexp2.MustCompile(`(?i)\bacoustic\b`, 0)},
	{model.VariantRemaster, regexp2.MustCompile(`(?i)\bremaster(?:ed)?\b`, 0)},
	{model.VariantRemix, regexp2.MustCompile(`(?i)\bremix(?:ed)?\b`, 0)},
	{model.VariantRadioEdit, regexp2.MustCompile(`(?i)\bradio\s+edit\b`, 0)},
	{model.VariantExtended, regexp2.MustCompile(`(?i)\bextended(?:\s+mix)?\b`, 0)},
	{model.VariantSpedUp, regexp2.MustCompile(`(?i)\bsped[\-\s]?up\b`, 0)},
	{model.VariantSlowed, regexp2.MustCompile(`(?i)\bslowed(?:\s+(?:down|reverb))?\b`, 0)},
	{model.VariantNightcore, regexp2.MustCompile(`(?i)\bnightcore\b`, 0)},
	{model.VariantEightD, regexp2.MustCompile(`(?i)\b8d\b`, 0)},
	{model.VariantLyricVideo, regexp2.MustCompile(`(?i)\blyric\s+video\b`, 0)},
	{model.VariantMusicVideo, regexp2.MustCompile(`(?i)\bmusic\s+video\b`, 0)},
	{model.VariantOfficialVideo, regexp2.MustCompile(`(?i)\bofficial\s+video\b`, 0)},
	{model.VariantOfficialVideo, regexp2.MustCompile(`(?i)\bofficial\s+music\s+video\b`, 0)},
	{model.VariantAudio, regexp2.MustCompile(`(?i)\bofficial\s+audio\b`, 0)},
	{model.VariantAudio, regexp2.MustCompile(`(?i)\baudio\b`, 0)},
	{model.VariantPreview, regexp2.MustCompile(`(?i)\bpreview\b`, 0)},
	{model.VariantCover, regexp2.MustCompile(`(?i)\bcover\b`, 0)},
	{model.VariantInstrumental, regexp2.MustCompile(`(?i)\binstrumental\b`, 0)},
	{model.VariantKaraoke, regexp2.MustCompile(`(?i)\bkaraoke\b`, 0)},
	{model.VariantDeluxe, regexp2.MustCompile(`(?i)\bdeluxe(?:\s+edition)?\b`, 0)},
	{model.VariantEdit, regexp2.MustCompile(`(?i)\bedit\b`, 0)},
	{model.VariantCut, regexp2.MustCompile(`(?i)\bcut\b`, 0)},
}

func match(re *regexp2.Regexp, s string) bool {
	m, _ := re.FindStringMatch(s)
	return m != nil
}

func replaceAll(re *regexp2.Regexp, s, repl string) string {
	out, _ := re.Replace(s, repl, -1, -1)
	return out
}

// collapseWhitespace trims and collapses runs of whitespace to a single
// space.
func collapseWhitespace(s string) string {
	return strings.TrimSpace(replaceAll(whitespaceRE, s, " "))
}

// Normalize maps a display string into its lookup form: NFKC, casefolded,
// promotional noise stripped, whitespace collapsed. Non-promotional
// parentheticals such as "(Live)" or "(From the Motion Picture)" survive
// verbatim; only brackets whose entire content is a known promotional
// token are removed.
func Normalize(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)
	s = replaceAll(topicSuffixRE, s, "")

	var b strings.Builder
	last := 0
	for _, seg := range findBracketedSegments(s) {
		b.WriteString(s[last:seg.start])
		if !isPromotionalToken(seg.inner) {
			b.WriteString(s[seg.start:seg.end])
		}
		last = seg.end
	}
	b.WriteString(s[last:])
	s = b.String()

	for _, tok := range promotionalTokens {
		s = strings.ReplaceAll(s, tok, " ")
	}
	s = replaceAll(trailingDashRunRE, s, "")
	return collapseWhitespace(s)
}

func isPromotionalToken(inner string) bool {
	low := strings.ToLower(strings.TrimSpace(inner))
	for _, tok := range promotionalTokens {
		if low == tok {
			return true
		}
	}
	return false
}

// Relax removes a small closed set of parenthetical/bracketed segments
// (live, deluxe edition, remaster(ed) [year]) used only to compute an
// alternate track-similarity score; other parentheses keep their inner
// text.
func Relax(text string) string {
	s := norm.NFKC.String(text)
	s = strings.ToLower(s)

	var b strings.Builder
	last := 0
	for _, seg := range findBracketedSegments(s) {
		b.WriteString(s[last:seg.start])
		if matchesAnyRelaxed(seg.inner) {
			b.WriteString(" ")
		} else {
			b.WriteString(" " + seg.inner + " ")
		}
		last = seg.end
	}
	b.WriteString(s[last:])
	return collapseWhitespace(b.String())
}

func matchesAnyRelaxed(s string) bool {
	for _, re := range relaxedPatterns {
		if match(re, s) {
			return true
		}
	}
	return false
}

// ExtractVariantTags scans text for every recognized variant marker,
// case-insensitively. Markers are matched anywhere in text as whole
// words, not only inside brackets or as a trailing suffix.
func ExtractVariantTags(text string) map[model.VariantTag]bool {
	tags := make(map[model.VariantTag]bool)
	s := norm.NFKC.String(text)
	for _, vp := range variantPatterns {
		if match(vp.pattern, s) {
			tags[vp.tag] = true
		}
	}
	return tags
}

// DeriveAllowedVariants computes the allow_variants set implied by the
// query itself: a query that already says "Live" or "Deluxe Edition"
// means the caller wants that variant, not a rejection of it.
func DeriveAllowedVariants(queryTrack, queryAlbum string) map[model.VariantTag]bool {
	allowed := make(map[model.VariantTag]bool)
	for tag := range ExtractVariantTags(queryTrack) {
		allowed[tag] = true
	}
	for tag := range ExtractVariantTags(queryAlbum) {
		allowed[tag] = true
	}
	return allowed
}

// DetectCover classifies a candidate as a cover version when the
// uploader's normalized name diverges from the expected artist and the
// title or disambiguation text contains "cover".
func DetectCover(title, disambiguation, uploader, expectedArtist string) bool {
	hasCoverWord := strings.Contains(strings.ToLower(title), "cover") ||
		strings.Contains(strings.ToLower(disambiguation), "cover")
	if !hasCoverWord {
		return false
	}
	return !sameArtist(uploader, expectedArtist)
}

func sameArtist(a, b string) bool {
	na := collapseWhitespace(strings.ToLower(stripNonLetterDigit(a)))
	nb := collapseWhitespace(strings.ToLower(stripNonLetterDigit(b)))
	return na != "" && na == nb
}

func stripNonLetterDigit(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Tokenize splits normalized text into a deduplication-ready token slice,
// dropping empty tokens.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}
