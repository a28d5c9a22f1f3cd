// Package wordmatch implements the multi-pass fuzzy word-to-word comparator
// corporate name matching is built on.
package wordmatch

import (
	"regexp"
	"sort"
	"strings"

	"github.com/Ramsey-B/corpmatch/pkg/scoring"
	"github.com/Ramsey-B/corpmatch/pkg/textutil"
)

const (
	scoreThreshold            = 0.6
	lengthDifferenceThreshold = 0.2
)

var trailingSpecialChars = regexp.MustCompile(`[.;:/$%&"!]+$`)

var scorer = scoring.NewScorer()

// CompareResult is the outcome of CompareWord: the similarity score (0 if
// below the 0.6 cutoff) and whether the score was reached via the prefix
// path.
type CompareResult struct {
	Score      float64
	UsedPrefix bool
}

// CompareWord scores two words. allowPrefix enables the abbreviation-prefix
// fallback for words with a >=20% length difference; canUseAbbrev additionally
// allows the is_likely_abbreviation 0.95 shortcut.
func CompareWord(word1, word2 string, allowPrefix, canUseAbbrev bool) CompareResult {
	if word1 == "" || word2 == "" {
		if word1 == "" && word2 == "" {
			return CompareResult{Score: 1.0}
		}
		return CompareResult{}
	}

	var fullScore float64
	if len(word1) <= 2 && len(word2) <= 2 {
		if word1 == word2 {
			fullScore = 1.0
		}
	} else {
		fullScore = min(scorer.Levenshtein(word1, word2), scorer.JaroWinkler(word1, word2))
	}

	var abbrScore float64
	if allowPrefix && canUseAbbrev && len(word1) > 1 && len(word2) > 1 && IsLikelyAbbreviation(word1, word2) {
		abbrScore = 0.95
	}

	if !allowPrefix || len(word1) == len(word2) {
		return applyThreshold(fullScore, false)
	}

	longer, shorter := word1, word2
	if len(word2) > len(word1) {
		longer, shorter = word2, word1
	}

	lengthDiff := float64(len(longer)-len(shorter)) / float64(len(shorter))
	if lengthDiff < lengthDifferenceThreshold {
		return applyThreshold(fullScore, false)
	}

	longerClean := trailingSpecialChars.ReplaceAllString(longer, "")
	shorterClean := trailingSpecialChars.ReplaceAllString(shorter, "")
	if longerClean == "" || shorterClean == "" {
		return applyThreshold(fullScore, false)
	}

	prefix := longerClean
	if len(longerClean) >= len(shorterClean) {
		prefix = longerClean[:len(shorterClean)]
	}

	var prefixScore float64
	if len(shorterClean) <= 3 {
		if prefix == shorterClean {
			prefixScore = 1.0
		}
	} else {
		prefixScore = min(scorer.Levenshtein(prefix, shorterClean), scorer.JaroWinkler(prefix, shorterClean))
		lastPrefix := prefix[len(prefix)-1]
		lastShorter := shorterClean[len(shorterClean)-1]
		if lastPrefix != lastShorter && len(prefix) != len(longerClean) {
			rest := longerClean[len(prefix):]
			if !strings.ContainsRune(rest, rune(lastShorter)) {
				prefixScore *= 0.8
			}
		}
	}

	if prefixScore > fullScore && prefixScore > abbrScore {
		return applyThreshold(prefixScore, true)
	}
	if fullScore >= abbrScore {
		return applyThreshold(fullScore, false)
	}
	return applyThreshold(abbrScore, true)
}

func applyThreshold(score float64, usedPrefix bool) CompareResult {
	if score < scoreThreshold {
		return CompareResult{}
	}
	return CompareResult{Score: score, UsedPrefix: usedPrefix}
}

// IsLikelyAbbreviation reports whether the shorter of str1/str2 is plausibly
// an abbreviation of the longer: same first letter, and every subsequent
// character of the shorter string found in order (not necessarily
// consecutively) in the longer string.
func IsLikelyAbbreviation(str1, str2 string) bool {
	if str1 == "" || str2 == "" {
		return false
	}

	var longer, shorter string
	switch {
	case len(str1) > len(str2):
		longer, shorter = str1, str2
	case len(str2) > len(str1):
		longer, shorter = str2, str1
	default:
		return false
	}

	longer = strings.ToUpper(longer)
	shorter = strings.ToUpper(shorter)
	longerRunes := []rune(longer)
	shorterRunes := []rune(shorter)

	if longerRunes[0] != shorterRunes[0] {
		return false
	}

	pos := 0
	for _, c := range shorterRunes {
		found := -1
		for i := pos; i < len(longerRunes); i++ {
			if longerRunes[i] == c {
				found = i
				break
			}
		}
		if found == -1 {
			return false
		}
		pos = found + 1
	}
	return true
}

// MatchEntry records how a word from list A matched into list B. A nil
// *MatchEntry in MatchResult.Matches means that position in A was left
// unmatched.
type MatchEntry struct {
	IndexB     int
	Score      float64
	UsedPrefix bool
}

// MatchResult is the outcome of MatchWordLists.
type MatchResult struct {
	Matches    []*MatchEntry
	UnmatchedB []int
}

type matchingPass struct {
	minScore    float64
	allowPrefix bool
}

var passes = []matchingPass{
	{0.98, false},
	{0.98, true},
	{0.95, true},
	{0.90, true},
	{0.80, true},
	{0.60, true},
}

// MatchWordLists runs a six-pass assignment, matching each word of listA to
// at most one word of listB, trying looser thresholds only once the
// stricter passes have matched everything they can.
func MatchWordLists(listA, listB []string) MatchResult {
	matches := make([]*MatchEntry, len(listA))

	unmatchedB := make(map[int]struct{}, len(listB))
	for i := range listB {
		unmatchedB[i] = struct{}{}
	}

	isInOrder := true

	for _, pass := range passes {
		allMatched := true

		for indexA := range listA {
			if matches[indexA] != nil {
				continue
			}
			allMatched = false

			wordA := listA[indexA]
			prevIndex := previousIndex(matches, indexA)

			match := findBestMatch(wordA, prevIndex, listB, unmatchedB, pass.allowPrefix, pass.minScore, isInOrder)
			if match != nil {
				matches[indexA] = match
				delete(unmatchedB, match.IndexB)
				if previousIndex(matches, indexA) > match.IndexB {
					isInOrder = false
				}
			}
		}

		if allMatched {
			break
		}
	}

	unmatchedList := make([]int, 0, len(unmatchedB))
	for i := range unmatchedB {
		unmatchedList = append(unmatchedList, i)
	}
	sort.Ints(unmatchedList)

	return MatchResult{Matches: matches, UnmatchedB: unmatchedList}
}

func findBestMatch(wordA string, previousIndexB int, listB []string, unmatchedB map[int]struct{}, allowPrefix bool, minScore float64, isInOrder bool) *MatchEntry {
	if len(unmatchedB) == 0 {
		return nil
	}

	var best *MatchEntry
	bestScore := minScore - 0.0001

	indices := make([]int, 0, len(unmatchedB))
	for idx := range unmatchedB {
		indices = append(indices, idx)
	}
	sort.Ints(indices)

	for _, indexB := range indices {
		wordB := listB[indexB]
		result := CompareWord(wordA, wordB, allowPrefix, isInOrder && indexB > previousIndexB)

		if result.Score >= minScore && result.Score > bestScore {
			bestScore = result.Score
			best = &MatchEntry{IndexB: indexB, Score: result.Score, UsedPrefix: result.UsedPrefix}
		}
	}

	return best
}

func previousIndex(matches []*MatchEntry, endIndex int) int {
	if len(matches) <= 1 {
		return 0
	}
	prev := 0
	for i := 0; i < endIndex; i++ {
		if matches[i] != nil {
			prev = matches[i].IndexB
		}
	}
	return prev
}

func calculateWordOrderMismatches(matches []*MatchEntry) int {
	if len(matches) <= 1 {
		return 0
	}
	penalty := 0
	var previousIndexB *int
	for _, match := range matches {
		if match == nil {
			continue
		}
		if previousIndexB != nil && match.IndexB < *previousIndexB {
			penalty++
		}
		idx := match.IndexB
		previousIndexB = &idx
	}
	return penalty
}

var splitWordsRegexp = regexp.MustCompile(`[\s\-/]+`)

func splitAndCleanWords(input string) []string {
	input = strings.ReplaceAll(input, "&", "")
	parts := splitWordsRegexp.Split(input, -1)
	words := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			words = append(words, p)
		}
	}
	return words
}

// CompareByWords scores two free-text strings by tokenizing each and
// running MatchWordLists over the resulting word lists.
func CompareByWords(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		if strings.TrimSpace(a) == "" && strings.TrimSpace(b) == "" {
			return 1.0
		}
		return 0.0
	}

	wordsA := splitAndCleanWords(a)
	wordsB := splitAndCleanWords(b)
	if len(wordsA) == 0 || len(wordsB) == 0 {
		if len(wordsA) == 0 && len(wordsB) == 0 {
			return 1.0
		}
		return 0.0
	}

	listA, listB := wordsA, wordsB
	if len(wordsA) > len(wordsB) {
		listA, listB = wordsB, wordsA
	}

	if len(listA)*2 <= len(listB) {
		return 0.0
	}

	normalizedA := make([]string, len(listA))
	for i, w := range listA {
		normalizedA[i] = textutil.NormalizePreserveSpecials(w)
	}
	normalizedB := make([]string, len(listB))
	for i, w := range listB {
		normalizedB[i] = textutil.NormalizePreserveSpecials(w)
	}

	result := MatchWordLists(normalizedA, normalizedB)
	wordOrderMismatches := calculateWordOrderMismatches(result.Matches)

	return calculateFinalScore(result, len(listA), wordOrderMismatches, normalizedA, normalizedB)
}

func calculateFinalScore(result MatchResult, listASize, wordOrderMismatches int, listA, listB []string) float64 {
	matches := result.Matches

	matchedCount := 0
	for _, m := range matches {
		if m != nil {
			matchedCount++
		}
	}

	if matchedCount < (listASize+1)/2 {
		return 0.0
	}

	hasNonPrefixMatch := false
	for _, m := range matches {
		if m != nil && !m.UsedPrefix {
			hasNonPrefixMatch = true
			break
		}
	}
	if !hasNonPrefixMatch {
		return 0.0
	}

	totalCharacters := 0
	matchedCharacters := 0
	for i, m := range matches {
		if m == nil {
			continue
		}
		wordA := []rune(listA[i])
		wordB := []rune(listB[m.IndexB])
		longerLen, shorterLen := len(wordA), len(wordB)
		if shorterLen > longerLen {
			longerLen, shorterLen = shorterLen, longerLen
		}
		totalCharacters += longerLen
		matchedCharacters += shorterLen
	}
	if totalCharacters > 0 && float64(matchedCharacters) < float64(totalCharacters)/2.0 {
		return 0.0
	}

	sumScores := 0.0
	for _, m := range matches {
		if m != nil {
			scoreToAdd := m.Score
			if m.UsedPrefix {
				scoreToAdd -= 0.1
			}
			sumScores += scoreToAdd
		} else {
			sumScores += 0.4
		}
	}
	average := sumScores / float64(listASize)

	unmatchedBCount := len(result.UnmatchedB)
	freeUnmatchedB := matchedCount / 3
	penalizedUnmatchedB := unmatchedBCount - freeUnmatchedB
	if penalizedUnmatchedB < 0 {
		penalizedUnmatchedB = 0
	}
	for i := 0; i < penalizedUnmatchedB; i++ {
		average *= 0.95
	}

	for i := 0; i < wordOrderMismatches; i++ {
		average *= 0.98
	}

	return average
}
