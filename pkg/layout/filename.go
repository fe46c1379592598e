package layout

import (
	"regexp"
	"strings"
	"unicode"
)

const (
	// Extension is appended to every stem.
	Extension = ".json"

	// MaxStemLength bounds the stem, extension excluded.
	MaxStemLength = 50
)

var (
	spaceRun  = regexp.MustCompile(` +`)
	hyphenRun = regexp.MustCompile(`-+`)
	stemShape = regexp.MustCompile(`^[a-z0-9-]{0,50}$`)
)

// Stem normalizes a workflow name to at most MaxStemLength characters of
// [a-z0-9-]. Distinct names can share a stem.
func Stem(name string) string {
	kept := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-':
			return r
		case unicode.IsSpace(r):
			return ' '
		default:
			return -1
		}
	}, strings.ToLower(name))

	stem := spaceRun.ReplaceAllString(kept, "-")
	stem = hyphenRun.ReplaceAllString(stem, "-")

	if len(stem) > MaxStemLength {
		stem = stem[:MaxStemLength]
	}

	return stem
}

// DeriveFilename returns the file name a workflow is exported to.
func DeriveFilename(name string) string {
	return Stem(name) + Extension
}

// IsStem reports whether s is already a normalized stem.
func IsStem(s string) bool {
	return stemShape.MatchString(s)
}

// DisambiguatedStem derives a stem that embeds the remote id so two workflows
// whose names normalize to the same stem do not overwrite each other.
func DisambiguatedStem(name, remoteID string) string {
	suffix := Stem(remoteID)
	if suffix == "" {
		return Stem(name)
	}

	base := Stem(name)
	if base == "" {
		base = "workflow"
	}

	room := MaxStemLength - len(suffix) - 1
	if room < 1 {
		return suffix[:min(len(suffix), MaxStemLength)]
	}

	if len(base) > room {
		base = base[:room]
	}

	return hyphenRun.ReplaceAllString(base+"-"+suffix, "-")
}
