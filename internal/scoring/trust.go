package scoring

import (
	"regexp"
	"strings"
)

// topicUploaderRE matches the YouTube auto-generated "<Artist> - Topic"
// channel naming convention.
var topicUploaderRE = regexp.MustCompile(`(?i)\s*-\s*topic\s*$`)

// curatedOfficialUploaders is a small allow-list of known-official
// distribution channels that do not follow the "- Topic" convention.
var curatedOfficialUploaders = map[string]bool{
	"vevo":                  true,
	"umg":                   true,
	"sony music":            true,
	"warner music":          true,
	"ministry of sound":     true,
	"triple j":              true,
	"npr music":             true,
	"colors":                true,
}

// UploaderTrust scores the channel-intent signal: 1.0 for a recognized
// "<Artist> - Topic" channel or a curated official distributor, 0.7
// otherwise.
func UploaderTrust(uploader string) float64 {
	trimmed := strings.TrimSpace(uploader)
	if trimmed == "" {
		return 0.7
	}
	if topicUploaderRE.MatchString(trimmed) {
		return 1.0
	}
	if curatedOfficialUploaders[strings.ToLower(trimmed)] {
		return 1.0
	}
	return 0.7
}

// TitleNoiseScore counts promotional tokens normalize.Normalize stripped
// out of the raw title, used as a tie-break signal (fewer stripped
// tokens means a cleaner, more literal title).
func TitleNoiseScore(raw, normalized string) int {
	rawTokens := len(splitWords(raw))
	normTokens := len(splitWords(normalized))
	delta := rawTokens - normTokens
	if delta < 0 {
		return 0
	}
	return delta
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n'
	})
}
