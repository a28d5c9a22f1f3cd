// Package dedup finds likely-duplicate corporate names in a list by
// blocking on a cheap token signature and running the full pairwise scorer
// only within each block, in parallel across blocks.
package dedup

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
	"github.com/Ramsey-B/corpmatch/pkg/tracing"
)

const matchThreshold = 0.85

// MatchResult is an emitted duplicate pair with its similarity score.
type MatchResult struct {
	Name1 string
	Name2 string
	Score float64
}

var (
	tokenSplitPattern = regexp.MustCompile(`[\s\-/&]+`)
	nonLetterPattern  = regexp.MustCompile(`[^A-Z]`)
	blockingStopwords = map[string]struct{}{"AND": {}, "THE": {}, "OF": {}, "&": {}}
)

// normalizeTokens cleans, uppercases, strips non-letters and stopwords,
// and tokenizes a name for blocking and the cheap overlap filter.
func normalizeTokens(name string) []string {
	upper := strings.ToUpper(legalform.Clean(name))
	var tokens []string
	for _, tok := range tokenSplitPattern.Split(upper, -1) {
		tok = nonLetterPattern.ReplaceAllString(tok, "")
		if tok == "" {
			continue
		}
		if _, stop := blockingStopwords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// blockKey concatenates each token's first character, truncated to 4.
func blockKey(tokens []string) string {
	var b strings.Builder
	for _, t := range tokens {
		if t == "" {
			continue
		}
		b.WriteByte(t[0])
		if b.Len() >= 4 {
			break
		}
	}
	return b.String()
}

// tokensOverlap reports whether any token of a equals, or is a prefix of
// (or is prefixed by), any token of b.
func tokensOverlap(a, b []string) bool {
	for _, ta := range a {
		for _, tb := range b {
			if strings.HasPrefix(ta, tb) || strings.HasPrefix(tb, ta) {
				return true
			}
		}
	}
	return false
}

// Options tunes FindDuplicates' parallelism and the country used for
// legal-form-aware scoring.
type Options struct {
	Concurrency int
	CountryCode string
}

func defaultOptions(opts Options) Options {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 8
	}
	if opts.CountryCode == "" {
		opts.CountryCode = "DE"
	}
	return opts
}

type block struct {
	indices []int
}

// FindDuplicates normalizes and blocks names, then scores every candidate
// pair within each block (in parallel across blocks), emitting pairs whose
// matcher score exceeds 0.85. Blocks are scheduled over a fixed worker
// pool; ctx is checked between blocks, not mid-pair.
func FindDuplicates(ctx context.Context, matcher *matching.Matcher, names []string, opts Options) []MatchResult {
	ctx, span := tracing.StartSpan(ctx, "dedup.FindDuplicates")
	defer span.End()

	opts = defaultOptions(opts)

	tokensByIndex := make([][]string, len(names))
	blocks := make(map[string]*block)
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		tokens := normalizeTokens(name)
		tokensByIndex[i] = tokens
		key := blockKey(tokens)
		b, ok := blocks[key]
		if !ok {
			b = &block{}
			blocks[key] = b
		}
		b.indices = append(b.indices, i)
	}

	jobs := make(chan *block)
	results := make(chan []MatchResult, opts.Concurrency)

	var wg sync.WaitGroup
	for w := 0; w < opts.Concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				results <- scoreBlock(matcher, names, tokensByIndex, b, opts.CountryCode)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, b := range blocks {
			select {
			case <-ctx.Done():
				return
			case jobs <- b:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var found []MatchResult
	for partial := range results {
		found = append(found, partial...)
	}
	return found
}

func scoreBlock(matcher *matching.Matcher, names []string, tokensByIndex [][]string, b *block, countryCode string) []MatchResult {
	var found []MatchResult
	for a := 0; a < len(b.indices); a++ {
		for c := a + 1; c < len(b.indices); c++ {
			i, j := b.indices[a], b.indices[c]
			if !tokensOverlap(tokensByIndex[i], tokensByIndex[j]) {
				continue
			}
			score, ok := matcher.Match(names[i], names[j], countryCode, countryCode)
			if !ok || score <= matchThreshold {
				continue
			}
			found = append(found, MatchResult{Name1: names[i], Name2: names[j], Score: score})
		}
	}
	return found
}
