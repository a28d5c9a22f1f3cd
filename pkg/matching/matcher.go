// Package matching scores two corporate names for the probability that they
// name the same legal entity, combining diacritic-insensitive equality,
// Jaro-Winkler and Levenshtein similarity, legal-form-aware cleaning, and a
// handful of word-level heuristics (abbreviation matching, initial-letter
// matching) that catch the cases plain string similarity misses.
package matching

import (
	"math"
	"regexp"
	"strings"
	"unicode"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/scoring"
	"github.com/Ramsey-B/corpmatch/pkg/textutil"
	"github.com/Ramsey-B/corpmatch/pkg/wordmatch"
)

const (
	stretchedJaroWinklerThreshold = 0.95
	levenshteinHighThreshold      = 0.95
	levenshteinClamp              = 0.95
	wordMatchThreshold            = 0.85
	initialLetterScore            = 0.5
	legalFormMismatchPenalty      = 0.9
	defaultCountryCode            = "DE"
)

// Matcher compares corporate names using a catalog-aware legal-form cleaner
// and retriever. It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	catalog   *legalform.Catalog
	retriever *legalform.Retriever
	scorer    *scoring.Scorer
}

func NewMatcher(catalog *legalform.Catalog, retriever *legalform.Retriever) *Matcher {
	return &Matcher{
		catalog:   catalog,
		retriever: retriever,
		scorer:    scoring.NewScorer(),
	}
}

// Match returns the probability that name1 and name2 refer to the same
// corporate entity, or false if they don't match or either is empty.
// country1/country2 are ISO country codes used to select the legal-form
// catalog; either may be empty.
func (m *Matcher) Match(name1, name2, country1, country2 string) (float64, bool) {
	if strings.TrimSpace(name1) == "" || strings.TrimSpace(name2) == "" {
		return 0, false
	}

	n1 := strings.ToUpper(strings.TrimSpace(name1))
	n2 := strings.ToUpper(strings.TrimSpace(name2))

	if textutil.EqualDiacriticInsensitive(n1, n2) {
		return 1.0, true
	}

	jw := m.scorer.StretchedJaroWinkler(n1, n2)
	if jw >= stretchedJaroWinklerThreshold {
		return jw, true
	}

	rawLev := 0.0
	if len([]rune(n1)) > 2 && len([]rune(n2)) > 2 {
		rawLev = m.scorer.Levenshtein(n1, n2)
		if rawLev >= levenshteinHighThreshold {
			return levenshteinClamp, true
		}
	}

	countryCode := reconcileCountryCode(country1, country2)

	legalForm1, ok1 := m.retriever.RetrieveLegalForm(n1, countryCode)
	legalForm2, ok2 := m.retriever.RetrieveLegalForm(n2, countryCode)

	// Special case: one name carries no detectable legal form. Bring the
	// two forms together so the "equal forms" branch below applies.
	if ok1 && !ok2 {
		legalForm2, ok2 = legalForm1, true
	}
	if ok2 && !ok1 {
		legalForm1, ok1 = legalForm2, true
	}

	var cleaned1, cleaned2 string
	if ok1 && legalForm1 == legalForm2 {
		cleaned1 = strings.ToUpper(m.retriever.CompanyNameWithoutLegalForm(n1, countryCode))
		cleaned2 = strings.ToUpper(m.retriever.CompanyNameWithoutLegalForm(n2, countryCode))
	} else {
		cleaned1 = strings.ToUpper(legalform.Clean(n1))
		cleaned2 = strings.ToUpper(legalform.Clean(n2))
	}

	mismatchPenalty := 1.0
	if ok1 && ok2 && legalForm1 != legalForm2 {
		mismatchPenalty = legalFormMismatchPenalty
	}

	if cleaned1 == "" || cleaned2 == "" {
		return 0, false
	}

	if textutil.EqualDiacriticInsensitive(cleaned1, cleaned2) {
		return 0.99, true
	}

	if score, ok := matchWordsWithAbbreviations(cleaned1, cleaned2, m.scorer); ok && score > wordMatchThreshold {
		return score, true
	}

	wordScoreL := wordmatch.CompareByWords(cleaned1, cleaned2)

	if score, ok := matchInitialLetters(cleaned1, cleaned2); ok {
		return score, true
	}

	cleanedJW := m.scorer.StretchedJaroWinkler(cleaned1, cleaned2)

	cleanedLev := 0.0
	if len([]rune(cleaned1)) > 2 && len([]rune(cleaned2)) > 2 {
		cleanedLev = m.scorer.Levenshtein(cleaned1, cleaned2)
		if cleanedLev >= levenshteinClamp {
			cleanedLev = levenshteinClamp
		}
	}

	switch {
	case cleanedJW*mismatchPenalty >= 0.9 && cleanedLev >= wordScoreL:
		return cleanedJW * mismatchPenalty, true
	case wordScoreL > rawLev && wordScoreL > cleanedLev && wordScoreL >= wordMatchThreshold:
		return wordScoreL * mismatchPenalty, true
	case rawLev >= wordMatchThreshold:
		return rawLev * mismatchPenalty, true
	case cleanedLev >= wordMatchThreshold:
		return cleanedLev * mismatchPenalty, true
	default:
		return 0, false
	}
}

// reconcileCountryCode picks a single country to drive legal-form lookups:
// a missing code falls back to the other side's code, two conflicting
// present codes cancel out to the default rather than favoring either side.
func reconcileCountryCode(country1, country2 string) string {
	code := strings.ToUpper(strings.TrimSpace(country1))
	other := strings.ToUpper(strings.TrimSpace(country2))
	if code != "" && other != "" && code != other {
		code = ""
	}
	if code == "" && other != "" {
		code = other
	}
	if code == "" {
		code = defaultCountryCode
	}
	return code
}

var wordSplitPattern = regexp.MustCompile(`[\s\-]+`)

// splitIntoWords tokenizes on whitespace/hyphen runs, then further splits any
// token containing a dot so that the dot stays attached to the fragment that
// precedes it (e.g. "U.S." -> ["U.", "S."]).
func splitIntoWords(name string) []string {
	var words []string
	for _, part := range wordSplitPattern.Split(name, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, ".") {
			words = append(words, splitPreservingDot(part)...)
		} else {
			words = append(words, part)
		}
	}
	return words
}

func splitPreservingDot(part string) []string {
	var out []string
	var b strings.Builder
	for _, r := range part {
		b.WriteRune(r)
		if r == '.' {
			out = append(out, b.String())
			b.Reset()
		}
	}
	if b.Len() > 0 {
		out = append(out, b.String())
	}
	trimmed := out[:0]
	for _, w := range out {
		w = strings.TrimSpace(w)
		if w != "" {
			trimmed = append(trimmed, w)
		}
	}
	return trimmed
}

// matchWordsWithAbbreviations tries both directional word-sequence matches
// (name1 against name2's positions and vice versa) and keeps the higher
// defined score.
func matchWordsWithAbbreviations(name1, name2 string, scorer *scoring.Scorer) (float64, bool) {
	words1 := splitIntoWords(name1)
	words2 := splitIntoWords(name2)
	if len(words1) <= 1 || len(words2) <= 1 {
		return 0, false
	}

	score1, ok1 := matchWordSequence(words1, words2, scorer)
	score2, ok2 := matchWordSequence(words2, words1, scorer)

	switch {
	case ok1 && ok2:
		return math.Max(score1, score2), true
	case ok1:
		return score1, true
	case ok2:
		return score2, true
	default:
		return 0, false
	}
}

// matchWordSequence pairs words1[i] with words2[i] up to the shorter list's
// length; every pair must be an exact/diacritic match, an abbreviation pair,
// or a close Jaro-Winkler match, or the whole sequence is rejected.
func matchWordSequence(words1, words2 []string, scorer *scoring.Scorer) (float64, bool) {
	totalWords := len(words1)
	maxTotalWords := len(words2)
	if len(words2) < totalWords {
		totalWords = len(words2)
	}
	if len(words1) > maxTotalWords {
		maxTotalWords = len(words1)
	}
	if totalWords == 0 {
		return 0, false
	}
	if float64(totalWords) <= float64(maxTotalWords)/2.0 {
		return 0, false
	}

	matches := 0
	totalScore := 0.0
	for i := 0; i < totalWords; i++ {
		w1, w2 := words1[i], words2[i]
		switch {
		case strings.EqualFold(w1, w2), textutil.EqualDiacriticInsensitive(w1, w2):
			matches++
			totalScore += 1.0
		case isAbbreviation(w1, w2) || isAbbreviation(w2, w1):
			matches++
			totalScore += 0.9
		default:
			jw := scorer.JaroWinkler(w1, w2)
			if jw < stretchedJaroWinklerThreshold {
				return 0, false
			}
			matches++
			totalScore += jw
		}
	}

	if matches != totalWords {
		return 0, false
	}
	return totalScore / (float64(totalWords) + float64(maxTotalWords-totalWords)*0.2), true
}

// isAbbreviation reports whether abbrev is a single letter (optionally
// followed by a dot) matching fullWord's first letter, e.g. "B." or "B" for
// "Business".
func isAbbreviation(fullWord, abbrev string) bool {
	fr := []rune(fullWord)
	ar := []rune(abbrev)
	if len(fr) == 0 || len(ar) == 0 || len(fr) <= len(ar) {
		return false
	}
	if len(ar) == 2 && ar[1] == '.' {
		return unicode.ToUpper(ar[0]) == unicode.ToUpper(fr[0])
	}
	if len(ar) == 1 {
		return unicode.ToUpper(ar[0]) == unicode.ToUpper(fr[0])
	}
	return false
}

// matchInitialLetters reports whether one cleaned name is just the initial
// letters of the other's words, e.g. "International Business Machines" vs
// "IBM".
func matchInitialLetters(name1, name2 string) (float64, bool) {
	words1 := splitIntoWords(name1)
	words2 := splitIntoWords(name2)

	if matchesInitials(words1, name2) || matchesInitials(words2, name1) {
		return initialLetterScore, true
	}
	return 0, false
}

func matchesInitials(longWords []string, shortName string) bool {
	if len(longWords) == 0 || shortName == "" {
		return false
	}
	var initials strings.Builder
	for _, w := range longWords {
		r := []rune(w)
		if len(r) == 0 {
			continue
		}
		initials.WriteRune(unicode.ToUpper(r[0]))
	}
	return initials.String() == alphabeticOnlyUpper(shortName)
}

func alphabeticOnlyUpper(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(s) {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
