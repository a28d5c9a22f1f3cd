package wordmatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsLikelyAbbreviation(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"classic abbreviation", "Deutschland", "Dtl", true},
		{"consecutive-ish", "Eintragung", "Etr", true},
		{"out of order fails", "Eintragung", "Egr", false},
		{"prefix abbreviation", "Technology", "Tech", true},
		{"same length is not an abbreviation", "ABCD", "WXYZ", false},
		{"different first letter", "Bayer", "Ayer", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsLikelyAbbreviation(tc.a, tc.b))
		})
	}
}

func TestCompareWordExactAndEmpty(t *testing.T) {
	r := CompareWord("SIEMENS", "SIEMENS", true, true)
	assert.Equal(t, 1.0, r.Score)

	r = CompareWord("", "", true, true)
	assert.Equal(t, 1.0, r.Score)

	r = CompareWord("SIEMENS", "", true, true)
	assert.Equal(t, 0.0, r.Score)
}

func TestCompareWordShortWordsExactOnly(t *testing.T) {
	assert.Equal(t, 1.0, CompareWord("AG", "AG", false, false).Score)
	assert.Equal(t, 0.0, CompareWord("AG", "GM", false, false).Score)
}

func TestMatchWordListsInOrder(t *testing.T) {
	result := MatchWordLists([]string{"WARNER", "BROTHERS", "DISCOVERY"}, []string{"WARNER", "BROS", "DISCOVERY"})
	for i, m := range result.Matches {
		assert.NotNilf(t, m, "expected word %d to match", i)
	}
	assert.Empty(t, result.UnmatchedB)
}

func TestCompareByWords(t *testing.T) {
	score := CompareByWords("WARNER BROTHERS DISCOVERY", "WARNER BROS DISCOVERY")
	assert.Greater(t, score, 0.85)
}

func TestCompareByWordsRejectsSizeMismatch(t *testing.T) {
	score := CompareByWords("A", "A B C D E")
	assert.Equal(t, 0.0, score)
}

func TestCompareByWordsBothEmpty(t *testing.T) {
	assert.Equal(t, 1.0, CompareByWords("", ""))
	assert.Equal(t, 0.0, CompareByWords("", "X"))
}
