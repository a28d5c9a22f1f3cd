package legalform

import (
	"bufio"
	"os"
	"sort"
	"strings"

	"github.com/Gobusters/ectologger"
)

// ReplacementEntry is one row of legal_form_replacements.csv: a sequence of
// normalized search words that, found at the trailing edge of a name, fold
// into a single replacement token (e.g. "aktien gesellschaft" -> "ag") before
// legal-form matching runs.
type ReplacementEntry struct {
	SearchWords []string
	Replacement string
	WordCount   int
}

// LoadReplacements loads legal_form_replacements.csv. Each line is a plain
// "search string,replacement" pair, not quoted CSV, matching the simplicity
// of the source file. Rules are tried longest-pattern-first, so they're
// sorted by word count then by total cleaned-word character length, both
// descending, once at load time.
func LoadReplacements(logger ectologger.Logger, path string) []ReplacementEntry {
	f, err := os.Open(path)
	if err != nil {
		logger.WithField("path", path).WithError(err).Warn("legal_form_replacements.csv not found")
		return nil
	}
	defer f.Close()

	var entries []ReplacementEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		parts := strings.SplitN(scanner.Text(), ",", 2)
		if len(parts) != 2 {
			continue
		}

		searchWords := normalizeWords(strings.TrimSpace(parts[0]))
		if len(searchWords) == 0 {
			continue
		}

		entries = append(entries, ReplacementEntry{
			SearchWords: searchWords,
			Replacement: strings.ToLower(strings.TrimSpace(parts[1])),
			WordCount:   len(searchWords),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].WordCount != entries[j].WordCount {
			return entries[i].WordCount > entries[j].WordCount
		}
		return cleanedLength(entries[i].SearchWords) > cleanedLength(entries[j].SearchWords)
	})

	logger.WithField("count", len(entries)).Info("loaded legal_form_replacements.csv")
	return entries
}

func cleanedLength(words []string) int {
	total := 0
	for _, w := range words {
		total += len(w)
	}
	return total
}
