// Package scoring provides the string-distance primitives shared across the
// matching packages: Jaro-Winkler, Levenshtein, and the Soundex/Metaphone
// phonetic codes the city matcher uses as a secondary signal.
package scoring

import (
	"strings"
	"unicode"
)

// Scorer bundles the string-distance algorithms. It carries no state; it
// exists as a value so callers can inject it and so tests can construct one
// without a package-level singleton.
type Scorer struct{}

// NewScorer returns a ready-to-use Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// JaroWinkler returns the Jaro-Winkler similarity of a and b in [0, 1].
func (s *Scorer) JaroWinkler(a, b string) float64 {
	if a == b {
		return 1.0
	}

	ar, br := []rune(a), []rune(b)
	jaro := s.jaroRunes(ar, br)

	prefixLen := 0
	maxPrefix := 4
	for i := 0; i < len(ar) && i < len(br) && i < maxPrefix; i++ {
		if ar[i] != br[i] {
			break
		}
		prefixLen++
	}

	const scalingFactor = 0.1
	return jaro + float64(prefixLen)*scalingFactor*(1.0-jaro)
}

// StretchedJaroWinkler applies a steeper penalty curve than plain
// Jaro-Winkler: s' = 1 - 2.5*(1-s), so scores below ~0.9 fall off fast. The
// result can go negative; callers that expose it as a final score must
// clamp to 0, but internal comparisons should use the raw value so a very
// poor match still ranks below a merely poor one.
func (s *Scorer) StretchedJaroWinkler(a, b string) float64 {
	jw := s.JaroWinkler(a, b)
	return 1 - 2.5*(1-jw)
}

// Jaro returns the Jaro similarity of a and b in [0, 1].
func (s *Scorer) Jaro(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return s.jaroRunes([]rune(a), []rune(b))
}

func (s *Scorer) jaroRunes(a, b []rune) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	matchDist := max(len(a), len(b))/2 - 1
	if matchDist < 0 {
		matchDist = 0
	}

	aMatches := make([]bool, len(a))
	bMatches := make([]bool, len(b))

	matches := 0
	transpositions := 0

	for i := range a {
		start := max(0, i-matchDist)
		end := min(len(b), i+matchDist+1)

		for j := start; j < end; j++ {
			if bMatches[j] || a[i] != b[j] {
				continue
			}
			aMatches[i] = true
			bMatches[j] = true
			matches++
			break
		}
	}

	if matches == 0 {
		return 0.0
	}

	k := 0
	for i := range a {
		if !aMatches[i] {
			continue
		}
		for !bMatches[k] {
			k++
		}
		if a[i] != b[k] {
			transpositions++
		}
		k++
	}

	m := float64(matches)
	t := float64(transpositions) / 2

	return (m/float64(len(a)) + m/float64(len(b)) + (m-t)/m) / 3
}

// Levenshtein returns the edit-distance similarity of a and b:
// 1 - distance/maxLen, in [0, 1].
func (s *Scorer) Levenshtein(a, b string) float64 {
	ar, br := []rune(a), []rune(b)
	distance := s.levenshteinDistanceRunes(ar, br)
	maxLen := max(len(ar), len(br))
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(distance)/float64(maxLen)
}

// LevenshteinDistance returns the edit distance between a and b.
func (s *Scorer) LevenshteinDistance(a, b string) int {
	return s.levenshteinDistanceRunes([]rune(a), []rune(b))
}

func (s *Scorer) levenshteinDistanceRunes(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	prevRow := make([]int, len(b)+1)

	for j := range prevRow {
		prevRow[j] = j
	}

	for i := 1; i <= len(a); i++ {
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = 1
			}
			row[j] = min(min(row[j-1]+1, prevRow[j]+1), prevRow[j-1]+cost)
		}
		row, prevRow = prevRow, row
	}

	return prevRow[len(b)]
}

// Soundex returns the Soundex code of str, used by the city matcher as a
// phonetic tiebreaker.
func (s *Scorer) Soundex(str string) string {
	if len(str) == 0 {
		return ""
	}

	str = strings.ToUpper(str)
	runes := []rune(str)

	result := string(runes[0])
	prevCode := soundexCode(runes[0])

	for i := 1; i < len(runes) && len(result) < 4; i++ {
		char := runes[i]
		if !unicode.IsLetter(char) {
			continue
		}

		code := soundexCode(char)
		if code != "0" && code != prevCode {
			result += code
		}
		prevCode = code
	}

	for len(result) < 4 {
		result += "0"
	}

	return result
}

// SoundexMatch returns true if a and b share a Soundex code.
func (s *Scorer) SoundexMatch(a, b string) bool {
	return s.Soundex(a) == s.Soundex(b)
}

func soundexCode(char rune) string {
	switch char {
	case 'B', 'F', 'P', 'V':
		return "1"
	case 'C', 'G', 'J', 'K', 'Q', 'S', 'X', 'Z':
		return "2"
	case 'D', 'T':
		return "3"
	case 'L':
		return "4"
	case 'M', 'N':
		return "5"
	case 'R':
		return "6"
	default:
		return "0"
	}
}

// Metaphone returns a simplified Metaphone code for str.
func (s *Scorer) Metaphone(str string) string {
	if len(str) == 0 {
		return ""
	}

	str = strings.ToUpper(str)
	var letters strings.Builder
	for _, char := range str {
		if unicode.IsLetter(char) {
			letters.WriteRune(char)
		}
	}
	word := letters.String()
	if len(word) == 0 {
		return ""
	}

	var metaphone strings.Builder
	prevCode := byte(0)

	for i := 0; i < len(word) && metaphone.Len() < 6; i++ {
		code := metaphoneCode(word[i], i, word)
		if code != 0 && code != prevCode {
			metaphone.WriteByte(code)
			prevCode = code
		}
	}

	return metaphone.String()
}

func metaphoneCode(char byte, pos int, word string) byte {
	switch char {
	case 'A', 'E', 'I', 'O', 'U':
		if pos == 0 {
			return char
		}
		return 0
	case 'B':
		return 'B'
	case 'C':
		if pos+1 < len(word) && (word[pos+1] == 'I' || word[pos+1] == 'E' || word[pos+1] == 'Y') {
			return 'S'
		}
		return 'K'
	case 'D':
		return 'T'
	case 'F':
		return 'F'
	case 'G':
		return 'J'
	case 'H':
		return 0
	case 'J':
		return 'J'
	case 'K':
		return 'K'
	case 'L':
		return 'L'
	case 'M':
		return 'M'
	case 'N':
		return 'N'
	case 'P':
		if pos+1 < len(word) && word[pos+1] == 'H' {
			return 'F'
		}
		return 'P'
	case 'Q':
		return 'K'
	case 'R':
		return 'R'
	case 'S':
		return 'S'
	case 'T':
		return 'T'
	case 'V':
		return 'F'
	case 'W':
		return 0
	case 'X':
		return 'S'
	case 'Y':
		return 0
	case 'Z':
		return 'S'
	default:
		return 0
	}
}

// MetaphoneMatch returns true if a and b share a Metaphone code.
func (s *Scorer) MetaphoneMatch(a, b string) bool {
	return s.Metaphone(a) == s.Metaphone(b)
}
