package textutil

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// sceneDropChars removes punctuation that release groups and indexers use
// inconsistently.
var sceneDropChars = strings.NewReplacer(
	",", "",
	":", "",
	"(", "",
	")", "",
	"!", "",
	"?", "",
	"’", "",
	"'", "",
)

// sceneSeparators maps word separators onto the scene dot convention.
var sceneSeparators = strings.NewReplacer(
	"- ", ".",
	" ", ".",
	"&", "and",
	"/", ".",
)

var (
	repeatedDots   = regexp.MustCompile(`\.{2,}`)
	sceneSpaceLike = regexp.MustCompile(`[. -]`)
)

// SanitizeSceneName normalizes a show or release name into the comparable key
// used by the scene name cache. Two names that differ only in punctuation,
// separators, case, or accents produce the same key:
//
//	SanitizeSceneName("Law & Order: SVU")  == "law and order svu"
//	SanitizeSceneName("Law.and.Order.SVU") == "law and order svu"
func SanitizeSceneName(name string) string {
	name = foldAccents(name)
	name = sceneDotName(name)
	if name == "" {
		return ""
	}
	name = sceneSpaceLike.ReplaceAllString(name, " ")
	return strings.TrimSpace(strings.ToLower(name))
}

// sceneDotName renders name in dotted scene form ("Show.Name.2010").
func sceneDotName(name string) string {
	if name == "" {
		return ""
	}
	name = sceneDropChars.Replace(name)
	name = sceneSeparators.Replace(name)
	name = repeatedDots.ReplaceAllString(name, ".")
	return strings.TrimSuffix(name, ".")
}

func foldAccents(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, name)
	if err != nil {
		return name
	}
	return folded
}
