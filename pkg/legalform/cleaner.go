package legalform

import (
	"regexp"
	"strings"
)

var bracketTailPattern = regexp.MustCompile(`\s*\([^)]+\)\s*$`)

// StripParenthesizedTail removes a single trailing "(...)" group, along with
// the whitespace preceding it.
func StripParenthesizedTail(s string) string {
	loc := bracketTailPattern.FindStringIndex(s)
	if loc == nil {
		return s
	}
	return strings.TrimSpace(s[:loc[0]])
}

// StripPunctuation removes ",", ";", and ":" from s.
func StripPunctuation(s string) string {
	r := strings.NewReplacer(",", "", ";", "", ":", "")
	return r.Replace(s)
}

// Clean trims s, strips a trailing parenthesized group, then strips
// punctuation.
func Clean(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return ""
	}
	stripped := StripParenthesizedTail(trimmed)
	return strings.TrimSpace(StripPunctuation(stripped))
}

// CleanAndRemoveLegalForm cleans s, then iteratively strips any catalog
// entry that appears as a trailing whole word or as the entire remaining
// string, case-insensitively, until no entry can be stripped.
func (c *Catalog) CleanAndRemoveLegalForm(s string) string {
	cleaned := Clean(s)
	if cleaned == "" {
		return ""
	}
	return c.removeLegalForms(cleaned)
}

func (c *Catalog) removeLegalForms(name string) string {
	result := name
	for {
		removed := false
		for form := range c.forms {
			upperResult := strings.ToUpper(result)
			upperForm := strings.ToUpper(form)

			if upperResult == upperForm {
				result = ""
				removed = true
				break
			}
			if strings.HasSuffix(upperResult, " "+upperForm) {
				result = strings.TrimSpace(result[:len(result)-len(form)-1])
				removed = true
				break
			}
		}
		if !removed {
			break
		}
	}
	return result
}
