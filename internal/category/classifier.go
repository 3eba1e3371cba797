package category

import (
	"regexp"
	"strings"
	"sync"
)

var patterns sync.Map // alias -> *regexp.Regexp, nil when the alias is not a valid pattern

func compileAlias(alias string) *regexp.Regexp {
	if v, ok := patterns.Load(alias); ok {
		re, _ := v.(*regexp.Regexp)
		return re
	}

	re, err := regexp.Compile(`(?i)^(?:` + alias + `)`)
	if err != nil {
		re = nil
	}

	patterns.Store(alias, re)

	return re
}

// matchAlias tries alias as a regular expression anchored at the start of
// description, then as a case-insensitive literal prefix. Learned aliases
// are raw descriptions, so "coffee (large)" must still match itself.
func matchAlias(alias, description string) bool {
	if alias == "" {
		return false
	}

	if re := compileAlias(alias); re != nil && re.MatchString(description) {
		return true
	}

	return strings.HasPrefix(strings.ToLower(description), strings.ToLower(alias))
}

// Classify returns the first candidate with an alias matching description,
// or fallback when none does.
func Classify(description string, candidates []Category, fallback Category) Category {
	for _, c := range candidates {
		if c.Matches(description) {
			return c
		}
	}

	return fallback
}

// Learned returns the alias to record when a transaction moves from the
// fallback category to a real one. Only a non-empty description is learned.
func Learned(old, updated Category, description string) (string, bool) {
	if !old.IsFallback() || updated.IsFallback() || description == "" {
		return "", false
	}

	return strings.ToLower(description), true
}
