package legalform

import (
	"regexp"
	"strings"

	"github.com/Ramsey-B/corpmatch/pkg/scoring"
	"github.com/Ramsey-B/corpmatch/pkg/textutil"
)

const (
	matchSimilarityThreshold = 0.85
	maxRecursionDepth        = 50
)

var retrieverScorer = scoring.NewScorer()

var (
	ampersandReplacer  = strings.NewReplacer("&", " u ", "+", " u ")
	punctuationPattern = regexp.MustCompile(`[;$.,_#+*§"!?-]`)
	bracketPattern     = regexp.MustCompile(`\([^)]*\)`)
	spacePattern       = regexp.MustCompile(`\s+`)
)

// normalizeWords lowercases, folds "&"/"+" to " u ", strips punctuation and
// parenthesized asides, collapses whitespace, strips diacritics word by
// word, and folds "und" to "u". It is the shared first step for a company
// name being matched against the catalog and for a legal_form_replacements.csv
// search pattern, so both sides of a comparison land on the same footing.
func normalizeWords(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	processed := strings.ToLower(s)
	processed = ampersandReplacer.Replace(processed)
	processed = punctuationPattern.ReplaceAllString(processed, " ")
	processed = bracketPattern.ReplaceAllString(processed, " ")
	processed = strings.TrimSpace(spacePattern.ReplaceAllString(processed, " "))
	if processed == "" {
		return nil
	}

	raw := strings.Split(processed, " ")
	words := make([]string, 0, len(raw))
	for _, w := range raw {
		norm := strings.ToLower(textutil.NormalizeStripped(w))
		if norm == "" {
			continue
		}
		if norm == "und" {
			norm = "u"
		}
		words = append(words, norm)
	}
	return words
}

// legalFormEntry is a catalog Entry enriched with the retriever's own view
// of it: the normalized search words and whether the short name actually
// abbreviates a distinct long name (entries that do are never used as
// fallback-suffix matches; only entries whose short name is not a real
// abbreviation are tried there).
type legalFormEntry struct {
	Entry
	cleanedShortName    []string
	isActuallyShortened bool
}

// Retriever identifies and strips the legal-form suffix of a company name,
// per country, using the replacement-rule-normalized catalog built from a
// Catalog's per-country entries.
type Retriever struct {
	replacements []ReplacementEntry
	countryForms map[string][]legalFormEntry
}

// NewRetriever builds a Retriever from catalog's per-country entries and a
// set of replacement rules (see LoadReplacements). Entries within a country
// are sorted by cleaned short-name length, descending, so longer legal
// forms are preferred candidates over ones they contain (e.g. "gmbh & co kg"
// before "kg").
func NewRetriever(catalog *Catalog, replacements []ReplacementEntry) *Retriever {
	r := &Retriever{
		replacements: replacements,
		countryForms: make(map[string][]legalFormEntry),
	}
	if catalog == nil {
		return r
	}

	for country, entries := range catalog.byCountry {
		forms := make([]legalFormEntry, 0, len(entries))
		for _, e := range entries {
			forms = append(forms, legalFormEntry{
				Entry:               e,
				cleanedShortName:    normalizeWords(e.ShortName),
				isActuallyShortened: e.LongName != "" && !strings.EqualFold(e.ShortName, e.LongName),
			})
		}
		sortLegalFormEntries(forms)
		r.countryForms[country] = forms
	}
	return r
}

func sortLegalFormEntries(forms []legalFormEntry) {
	for i := 1; i < len(forms); i++ {
		for j := i; j > 0 && cleanedLength(forms[j].cleanedShortName) > cleanedLength(forms[j-1].cleanedShortName); j-- {
			forms[j], forms[j-1] = forms[j-1], forms[j]
		}
	}
}

// RetrieveLegalForm returns the catalog legal_form_id whose recognized form
// best matches the trailing words of name, for countryCode. It reports false
// if countryCode has no loaded forms or nothing matches.
func (r *Retriever) RetrieveLegalForm(name, countryCode string) (string, bool) {
	forms := r.countryForms[strings.ToUpper(strings.TrimSpace(countryCode))]
	if len(forms) == 0 {
		return "", false
	}

	words, _ := normalizeWithTracking(name, r.replacements)
	match := r.findBestLegalFormMatch(words, forms)
	if match == nil {
		return "", false
	}
	return match.entry.LegalFormID, true
}

// CompanyNameWithoutLegalForm returns name normalized and with its matched
// legal-form suffix removed. Words outside the match that replacement rules
// rewrote are handed back as the cleaned, lower-cased words from before the
// rules ran; the caller's original casing and punctuation are not restored.
func (r *Retriever) CompanyNameWithoutLegalForm(name, countryCode string) string {
	words, tracker := normalizeWithTracking(name, r.replacements)
	forms := r.countryForms[strings.ToUpper(strings.TrimSpace(countryCode))]

	if len(forms) == 0 || len(words) == 0 {
		return strings.Join(words, " ")
	}

	match := r.findBestLegalFormMatch(words, forms)
	if match == nil {
		return strings.Join(words, " ")
	}

	var remaining []string
	if match.fallbackMatch {
		remaining = applyFallbackRemoval(words, match)
	} else {
		remaining = applyPrimaryRemoval(words, match)
	}

	restored := restoreOriginalTokens(name, remaining, match, tracker)
	return strings.Join(restored, " ")
}

// normalizeWithTracking cleans name into words and repeatedly folds the
// rightmost matching replacement rule into a single token, tracking how
// tokens map back to the original cleaned words. A visited-state set and a
// recursion-depth cap guard against replacement cycles.
func normalizeWithTracking(name string, replacements []ReplacementEntry) ([]string, *splitTracker) {
	cleaned := normalizeWords(name)
	tracker := newSplitTracker()
	if len(cleaned) == 0 {
		return nil, tracker
	}

	tracker.initializeMapping(len(cleaned))
	visited := make(map[string]struct{})
	result := processReplacements(cleaned, tracker, visited, 0, replacements)
	return result, tracker
}

// replacementCandidate is one entry's successful tryReplacement result,
// held until processReplacements decides whether it's beaten by a
// higher-priority candidate.
type replacementCandidate struct {
	resultWords []string
	tracker     *splitTracker
}

// processReplacements picks, among every replacement entry that matches
// somewhere in words, the one to apply: a match that consumes the entire
// remaining word list (a "full match") always beats one that only matches
// a sub-window while other words remain (a "partial match"), regardless of
// either's word count. A single-word entry that only matched via a suffix
// split of the target word doesn't count as full even though it consumed
// the whole word list, since part of that word (the unmatched head) is
// still left over. Within the same tier, entries are tried in their
// presorted order (word count, then cleaned length, both descending), so
// the first match found there is already the best by that tie-break.
func processReplacements(words []string, tracker *splitTracker, visited map[string]struct{}, depth int, replacements []ReplacementEntry) []string {
	key := strings.Join(words, "\x00")
	if _, seen := visited[key]; seen {
		return append([]string(nil), words...)
	}
	if depth > maxRecursionDepth {
		return append([]string(nil), words...)
	}
	visited[key] = struct{}{}

	var fullMatch, partialMatch *replacementCandidate
	for _, entry := range replacements {
		resultWords, newTracker, ok, splitDetected := tryReplacement(words, entry, tracker)
		if !ok {
			continue
		}

		isFull := entry.WordCount == len(words)
		if isFull && entry.WordCount == 1 && splitDetected {
			isFull = false
		}

		if isFull {
			fullMatch = &replacementCandidate{resultWords: resultWords, tracker: newTracker}
			break
		}
		if partialMatch == nil {
			partialMatch = &replacementCandidate{resultWords: resultWords, tracker: newTracker}
		}
	}

	best := fullMatch
	if best == nil {
		best = partialMatch
	}
	if best == nil {
		return append([]string(nil), words...)
	}

	*tracker = *best.tracker
	if len(best.resultWords) == 0 {
		return best.resultWords
	}
	return processReplacements(best.resultWords, tracker, visited, depth+1, replacements)
}

// tryReplacement looks for entry's search words at the rightmost possible
// position in words. If the leftmost search word only matches a word's
// suffix, the word is split: the unmatched head stays as its own token and
// the tracker records the split so restoration can later tell head and tail
// apart. The returned splitDetected flag tells the caller whether this
// occurred, since a single-word entry that only split a word's suffix is not
// a full word match even when it consumed the entire remaining word list.
func tryReplacement(words []string, entry ReplacementEntry, tracker *splitTracker) ([]string, *splitTracker, bool, bool) {
	if len(words) < entry.WordCount {
		return nil, nil, false, false
	}

	for endIdx := len(words) - 1; endIdx >= entry.WordCount-1; endIdx-- {
		if !matchesAtPosition(words, endIdx, entry) {
			continue
		}
		startIdx := endIdx - (entry.WordCount - 1)

		newTracker := tracker.copy()
		result := make([]string, 0, len(words))
		result = append(result, words[:startIdx]...)

		firstMatchWord := []rune(words[startIdx])
		searchFirstWord := entry.SearchWords[0]

		splitDetected := false
		splitPoint := findBestSuffixMatch(words[startIdx], searchFirstWord)
		if splitPoint > 0 {
			result = append(result, string(firstMatchWord[:splitPoint]))
			splitDetected = true
		}

		result = append(result, entry.Replacement)
		result = append(result, words[endIdx+1:]...)

		if splitDetected {
			newTracker.recordSplit(startIdx)
		}

		return result, newTracker, true, splitDetected
	}

	return nil, nil, false, false
}

func matchesAtPosition(words []string, endIdx int, entry ReplacementEntry) bool {
	if endIdx < entry.WordCount-1 {
		return false
	}
	startIdx := endIdx - (entry.WordCount - 1)

	firstWord := words[startIdx]
	searchFirstWord := entry.SearchWords[0]
	if len([]rune(searchFirstWord)) > 2 {
		if !endsWithFuzzy(firstWord, searchFirstWord) {
			return false
		}
	} else if !strings.HasSuffix(firstWord, searchFirstWord) {
		return false
	}

	for i := 1; i < entry.WordCount; i++ {
		search := entry.SearchWords[i]
		word := words[startIdx+i]
		if len([]rune(search)) > 2 {
			if retrieverScorer.Levenshtein(word, search) < matchSimilarityThreshold {
				return false
			}
		} else if word != search {
			return false
		}
	}
	return true
}

// endsWithFuzzy reports whether word matches suffix closely enough to be
// treated as ending with it: either the whole word is a close match for
// suffix, or just word's trailing run of suffix's length is.
func endsWithFuzzy(word, suffix string) bool {
	if retrieverScorer.Levenshtein(word, suffix) >= matchSimilarityThreshold {
		return true
	}
	return findBestSuffixMatch(word, suffix) >= 0
}

// findBestSuffixMatch returns the rune split point where suffix begins
// inside word (exact or fuzzy trailing match), or -1 if none is found.
func findBestSuffixMatch(word, suffix string) int {
	wordRunes := []rune(word)
	suffixRunes := []rune(suffix)
	if len(suffixRunes) > len(wordRunes) {
		return -1
	}

	if strings.HasSuffix(word, suffix) {
		return len(wordRunes) - len(suffixRunes)
	}

	wordEnd := string(wordRunes[len(wordRunes)-len(suffixRunes):])
	if retrieverScorer.Levenshtein(wordEnd, suffix) >= matchSimilarityThreshold {
		return len(wordRunes) - len(suffixRunes)
	}
	return -1
}

type matchWindow struct {
	startIndex              int
	endIndex                int
	trailingCharsInEndToken int
}

type legalFormMatch struct {
	entry                   legalFormEntry
	words                   []string
	matchStartIndex         int
	matchEndIndex           int
	fallbackMatch           bool
	fallbackCharsToTrim     int
	trailingCharsInEndToken int
}

// findMatchWindow scans words right to left for a run of tokens whose
// concatenation starts with cleanedShortName's concatenation, returning the
// run that starts furthest to the right, extended only as far as needed to
// cover the target.
func findMatchWindow(words []string, cleanedShortName []string) *matchWindow {
	if len(words) == 0 || len(cleanedShortName) == 0 {
		return nil
	}
	target := strings.Join(cleanedShortName, "")

	for i := len(words) - 1; i >= 0; i-- {
		var combined strings.Builder
		consumedLength := 0

		for j := i; j < len(words); j++ {
			token := words[j]
			combined.WriteString(token)
			consumedLength += len(token)

			if consumedLength >= len(target) {
				combinedStr := combined.String()
				if strings.HasPrefix(combinedStr, target) {
					lengthBeforeCurrentToken := consumedLength - len(token)
					charsConsumedFromCurrent := len(target) - lengthBeforeCurrentToken
					trailingChars := len(token) - charsConsumedFromCurrent
					if trailingChars < 0 {
						trailingChars = 0
					}
					return &matchWindow{startIndex: i, endIndex: j, trailingCharsInEndToken: trailingChars}
				}
				break
			}
		}
	}
	return nil
}

func buildFallbackMatch(words []string, entry legalFormEntry, normalizedShortName string) *legalFormMatch {
	remaining := len(normalizedShortName)
	index := len(words)
	charsToTrim := 0

	for remaining > 0 && index > 0 {
		token := words[index-1]
		tokenLength := len(token)

		if tokenLength <= remaining {
			expected := normalizedShortName[remaining-tokenLength : remaining]
			if token != expected {
				return nil
			}
			remaining -= tokenLength
			index--
		} else {
			expected := normalizedShortName[:remaining]
			tokenSuffix := token[tokenLength-remaining:]
			if tokenSuffix != expected {
				return nil
			}
			charsToTrim = remaining
			index--
			remaining = 0
		}
	}

	if remaining > 0 {
		return nil
	}

	return &legalFormMatch{
		entry:               entry,
		words:                words,
		matchStartIndex:      index,
		matchEndIndex:        len(words) - 1,
		fallbackMatch:        true,
		fallbackCharsToTrim:  charsToTrim,
	}
}

func matchesOverlap(a, b *legalFormMatch) bool {
	return a.matchEndIndex >= b.matchStartIndex && b.matchEndIndex >= a.matchStartIndex
}

func legalFormContainsAnother(longer, shorter *legalFormMatch) bool {
	return strings.Contains(strings.Join(longer.entry.cleanedShortName, ""), strings.Join(shorter.entry.cleanedShortName, ""))
}

// selectBestMatchFromCandidates picks among overlapping legal-form
// candidates: a shorter match is eliminated if it overlaps a longer one, or
// if the longer one's cleaned form contains it outright; among what's left,
// the rightmost match wins, with cleaned length as the tiebreaker.
func selectBestMatchFromCandidates(candidates []*legalFormMatch) *legalFormMatch {
	if len(candidates) == 0 {
		return nil
	}
	if len(candidates) == 1 {
		return candidates[0]
	}

	filtered := make([]*legalFormMatch, 0, len(candidates))
	for _, candidate := range candidates {
		eliminated := false
		candidateLen := cleanedLength(candidate.entry.cleanedShortName)

		for _, other := range candidates {
			if candidate == other {
				continue
			}
			otherLen := cleanedLength(other.entry.cleanedShortName)
			shorterByCleaned := candidateLen < otherLen

			if matchesOverlap(candidate, other) && shorterByCleaned {
				eliminated = true
				break
			}
			if shorterByCleaned && legalFormContainsAnother(other, candidate) {
				eliminated = true
				break
			}
		}
		if !eliminated {
			filtered = append(filtered, candidate)
		}
	}

	best := filtered[0]
	for _, m := range filtered {
		if m.matchEndIndex > best.matchEndIndex {
			best = m
		} else if m.matchEndIndex == best.matchEndIndex && cleanedLength(m.entry.cleanedShortName) > cleanedLength(best.entry.cleanedShortName) {
			best = m
		}
	}
	return best
}

func (r *Retriever) findBestLegalFormMatch(words []string, forms []legalFormEntry) *legalFormMatch {
	var candidates []*legalFormMatch
	for _, entry := range forms {
		window := findMatchWindow(words, entry.cleanedShortName)
		if window == nil {
			continue
		}
		candidates = append(candidates, &legalFormMatch{
			entry:                   entry,
			words:                   words,
			matchStartIndex:         window.startIndex,
			matchEndIndex:           window.endIndex,
			trailingCharsInEndToken: window.trailingCharsInEndToken,
		})
	}

	if best := selectBestMatchFromCandidates(candidates); best != nil {
		return best
	}

	combinedInput := strings.Join(words, "")
	for _, entry := range forms {
		if entry.isActuallyShortened {
			continue
		}
		normalizedShortName := strings.Join(entry.cleanedShortName, "")
		if normalizedShortName == "" || !strings.HasSuffix(combinedInput, normalizedShortName) {
			continue
		}
		if fallback := buildFallbackMatch(words, entry, normalizedShortName); fallback != nil {
			return fallback
		}
	}

	return nil
}

// applyPrimaryRemoval drops the words spanned by match's window, extending
// the removal rightward while doing so still covers exactly the catalog
// entry's cleaned form (accounting for tokens the replacement pipeline may
// have split unevenly), and reinserting any genuinely extra trailing
// characters as their own token.
func applyPrimaryRemoval(words []string, match *legalFormMatch) []string {
	if match.matchStartIndex < 0 || match.matchStartIndex >= len(words) {
		return words
	}

	sourceTokens := match.words
	if match.matchStartIndex >= len(sourceTokens) {
		return words
	}

	target := strings.Join(match.entry.cleanedShortName, "")
	baseEnd := match.matchEndIndex
	if baseEnd > len(sourceTokens)-1 {
		baseEnd = len(sourceTokens) - 1
	}

	var baseBuilder strings.Builder
	for i := match.matchStartIndex; i <= baseEnd; i++ {
		baseBuilder.WriteString(sourceTokens[i])
	}
	baseString := baseBuilder.String()

	if target != "" && !strings.HasPrefix(baseString, target) && len(target) > len(baseString) {
		for i := baseEnd + 1; i < len(sourceTokens) && len(baseString) < len(target); i++ {
			baseBuilder.WriteString(sourceTokens[i])
			baseEnd = i
			baseString = baseBuilder.String()
		}
	}

	trailingFromBase := ""
	if len(baseString) > len(target) {
		trailingFromBase = baseString[len(target):]
	}

	extendedEnd := baseEnd
	extended := baseString

	lastCleanedToken := ""
	if n := len(match.entry.cleanedShortName); n > 0 {
		lastCleanedToken = match.entry.cleanedShortName[n-1]
	}

	for i := baseEnd + 1; i < len(sourceTokens); i++ {
		token := sourceTokens[i]
		candidate := extended + token
		if !strings.HasPrefix(candidate, target) {
			break
		}

		extraBeyondTarget := candidate[len(target):]
		if extraBeyondTarget != "" {
			if lastCleanedToken == "" {
				break
			}
			if !strings.HasPrefix(lastCleanedToken, extraBeyondTarget) && !strings.HasSuffix(lastCleanedToken, extraBeyondTarget) {
				break
			}
		}

		extended = candidate
		extendedEnd = i
	}

	removalCount := extendedEnd - match.matchStartIndex + 1
	if removalCount < 0 {
		removalCount = 0
	}

	start := match.matchStartIndex
	end := start + removalCount
	if end > len(words) {
		end = len(words)
	}

	result := make([]string, 0, len(words))
	result = append(result, words[:start]...)
	if trailingFromBase != "" {
		result = append(result, trailingFromBase)
	}
	result = append(result, words[end:]...)
	return result
}

// applyFallbackRemoval drops the suffix-matched window found by
// buildFallbackMatch, trimming (rather than fully removing) the leading
// token of the match if only part of it was consumed.
func applyFallbackRemoval(words []string, match *legalFormMatch) []string {
	result := append([]string(nil), words...)

	for i := match.matchEndIndex; i > match.matchStartIndex; i-- {
		if i < 0 || i >= len(result) {
			continue
		}
		result = append(result[:i], result[i+1:]...)
	}

	if match.matchStartIndex >= len(result) {
		return result
	}

	if match.fallbackCharsToTrim <= 0 {
		return append(append([]string(nil), result[:match.matchStartIndex]...), result[match.matchStartIndex+1:]...)
	}

	token := result[match.matchStartIndex]
	if len(token) <= match.fallbackCharsToTrim {
		return append(append([]string(nil), result[:match.matchStartIndex]...), result[match.matchStartIndex+1:]...)
	}

	result[match.matchStartIndex] = token[:len(token)-match.fallbackCharsToTrim]
	return result
}

// restoreOriginalTokens walks the name's cleaned words (normalizeWords,
// before replacement rules) alongside the post-removal normalized words,
// handing back a cleaned word
// wherever the split tracker shows it didn't contribute to the matched
// legal-form window.
func restoreOriginalTokens(originalName string, normalizedWords []string, match *legalFormMatch, tracker *splitTracker) []string {
	if len(normalizedWords) == 0 {
		return normalizedWords
	}

	originalWords := normalizeWords(originalName)
	if len(originalWords) == 0 {
		return normalizedWords
	}

	if match == nil || tracker == nil {
		return restoreWordsWithoutMatch(originalWords, normalizedWords)
	}

	return restoreWithSplitTracking(originalWords, normalizedWords, match, tracker)
}

func restoreWithSplitTracking(originalWords, normalizedWords []string, match *legalFormMatch, tracker *splitTracker) []string {
	restored := make([]string, 0, len(normalizedWords))
	normalizedIndex := 0

	for originalIndex := 0; originalIndex < len(originalWords); originalIndex++ {
		if normalizedIndex >= len(normalizedWords) {
			break
		}
		originalWord := originalWords[originalIndex]

		if tracker.didOriginalWordContributeToMatch(originalIndex, match.matchStartIndex, match.matchEndIndex) {
			normalizedIndices := tracker.normalizedIndices(originalIndex)
			remainingTokens := 0
			for _, idx := range normalizedIndices {
				if idx < match.matchStartIndex || idx > match.matchEndIndex {
					remainingTokens++
				}
			}
			for i := 0; i < remainingTokens && normalizedIndex < len(normalizedWords); i++ {
				restored = append(restored, normalizedWords[normalizedIndex])
				normalizedIndex++
			}
			continue
		}

		normalizedIndices := tracker.normalizedIndices(originalIndex)
		var combined strings.Builder
		for i := 0; i < len(normalizedIndices) && normalizedIndex+i < len(normalizedWords); i++ {
			combined.WriteString(normalizedWords[normalizedIndex+i])
		}

		if wordsEquivalentForRestoration(originalWord, combined.String()) {
			restored = append(restored, originalWord)
		} else {
			for i := 0; i < len(normalizedIndices) && normalizedIndex+i < len(normalizedWords); i++ {
				restored = append(restored, normalizedWords[normalizedIndex+i])
			}
		}
		normalizedIndex += len(normalizedIndices)
	}

	for normalizedIndex < len(normalizedWords) {
		restored = append(restored, normalizedWords[normalizedIndex])
		normalizedIndex++
	}

	return restored
}

func restoreWordsWithoutMatch(originalWords, normalizedWords []string) []string {
	restored := make([]string, 0, len(originalWords))
	normalizedIndex := 0

	for _, original := range originalWords {
		if normalizedIndex >= len(normalizedWords) {
			break
		}

		var combined strings.Builder
		localIndex := normalizedIndex
		bestMatchIndex := -1

		for localIndex < len(normalizedWords) {
			combined.WriteString(normalizedWords[localIndex])
			combinedValue := combined.String()

			if wordsEquivalentForRestoration(original, combinedValue) {
				bestMatchIndex = localIndex
				if len(combinedValue) >= len(original) {
					break
				}
			}

			if len(combinedValue) > len(original)+2 && bestMatchIndex >= 0 {
				break
			}
			if len(combinedValue) > len(original)+10 {
				break
			}
			localIndex++
		}

		if bestMatchIndex >= 0 {
			restored = append(restored, original)
			normalizedIndex = bestMatchIndex + 1
		}
	}

	if normalizedIndex == len(normalizedWords) && len(restored) > 0 {
		return restored
	}
	return normalizedWords
}

func wordsEquivalentForRestoration(original, normalizedCandidate string) bool {
	if original == normalizedCandidate {
		return true
	}
	if original != "" && strings.HasPrefix(original, normalizedCandidate) {
		return true
	}
	if normalizedCandidate != "" && strings.HasPrefix(normalizedCandidate, original) {
		return true
	}
	return retrieverScorer.Levenshtein(original, normalizedCandidate) >= 0.85
}
