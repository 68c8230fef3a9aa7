package categorizer

import (
	"regexp"
	"strings"

	"fjacquet/bill-merge/internal/textutils"
)

// matcher tests one rule condition against normalized text.
type matcher interface {
	Match(target string) bool
}

// aliasMatcher matches when any alias is a substring of the target.
type aliasMatcher struct {
	aliases []string
}

func newAliasMatcher(pattern string) aliasMatcher {
	var aliases []string
	for _, a := range strings.Split(textutils.Normalize(pattern), "|") {
		if a = strings.TrimSpace(a); a != "" {
			aliases = append(aliases, a)
		}
	}
	return aliasMatcher{aliases: aliases}
}

func (m aliasMatcher) Match(target string) bool {
	for _, a := range m.aliases {
		if strings.Contains(target, a) {
			return true
		}
	}
	return false
}

// regexMatcher is a case-insensitive regular expression search.
type regexMatcher struct {
	re *regexp.Regexp
}

// newRegexMatcher compiles pattern. Only compatibility forms and spacing are
// normalized, so escapes such as \S keep their meaning.
func newRegexMatcher(pattern string) (regexMatcher, error) {
	re, err := regexp.Compile("(?i)" + textutils.NormalizePattern(pattern))
	if err != nil {
		return regexMatcher{}, err
	}
	return regexMatcher{re: re}, nil
}

func (m regexMatcher) Match(target string) bool {
	return m.re.MatchString(target)
}

func newMatcher(pattern string, isRegex bool) (matcher, error) {
	if isRegex {
		return newRegexMatcher(pattern)
	}
	return newAliasMatcher(pattern), nil
}
