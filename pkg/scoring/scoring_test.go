package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJaroWinkler(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.JaroWinkler("SIEMENS", "SIEMENS"))
	assert.Greater(t, s.JaroWinkler("MARTHA", "MARHTA"), 0.9)
	assert.Less(t, s.JaroWinkler("SIEMENS", "BAYER"), 0.6)
}

func TestStretchedJaroWinklerCanGoNegative(t *testing.T) {
	s := NewScorer()
	stretched := s.StretchedJaroWinkler("AAAAAAAAAA", "ZZZZZZZZZZ")
	assert.Less(t, stretched, 0.0)
}

func TestLevenshtein(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.Levenshtein("ABC", "ABC"))
	assert.Equal(t, 0, s.LevenshteinDistance("ABC", "ABC"))
	assert.Equal(t, 1, s.LevenshteinDistance("ABC", "ABD"))
	assert.InDelta(t, 0.66, s.Levenshtein("ABC", "ABD"), 0.01)
}

func TestLevenshteinEmptyStrings(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, 1.0, s.Levenshtein("", ""))
	assert.Equal(t, 0.0, s.Levenshtein("ABC", ""))
}

func TestSoundexMatch(t *testing.T) {
	s := NewScorer()
	assert.True(t, s.SoundexMatch("Robert", "Rupert"))
	assert.False(t, s.SoundexMatch("Robert", "Anna"))
}

func TestMetaphoneMatch(t *testing.T) {
	s := NewScorer()
	assert.Equal(t, s.Metaphone("Smith"), s.Metaphone("Smith"))
}
