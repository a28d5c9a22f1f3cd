package legalform

import "sort"

// splitTracker maps each current (normalized) word index back to the
// original word index it came from. Replacement rules can fold several
// original words into one token, or peel a suffix off one word to start a
// replacement token, so by the time a legal-form match is found the
// normalized word list no longer lines up 1:1 with the caller's original
// words. Restoring the pre-replacement cleaned words afterward needs
// this mapping to know which original words were consumed by the match and
// which can be handed back untouched.
type splitTracker struct {
	normalizedToOriginal map[int]int
}

func newSplitTracker() *splitTracker {
	return &splitTracker{normalizedToOriginal: make(map[int]int)}
}

func (t *splitTracker) initializeMapping(originalWordCount int) {
	t.normalizedToOriginal = make(map[int]int, originalWordCount)
	for i := 0; i < originalWordCount; i++ {
		t.normalizedToOriginal[i] = i
	}
}

// recordSplit records that the word at normalizedIndex was split in two,
// producing a new word at normalizedIndex+1 from the same original word.
func (t *splitTracker) recordSplit(normalizedIndex int) {
	originalIndex, ok := t.normalizedToOriginal[normalizedIndex]
	if !ok {
		return
	}

	shifted := make(map[int]int, len(t.normalizedToOriginal)+1)
	for normIdx, origIdx := range t.normalizedToOriginal {
		if normIdx > normalizedIndex {
			shifted[normIdx+1] = origIdx
		} else {
			shifted[normIdx] = origIdx
		}
	}
	shifted[normalizedIndex+1] = originalIndex
	t.normalizedToOriginal = shifted
}

func (t *splitTracker) normalizedIndices(originalIndex int) []int {
	var result []int
	for normIdx, origIdx := range t.normalizedToOriginal {
		if origIdx == originalIndex {
			result = append(result, normIdx)
		}
	}
	sort.Ints(result)
	return result
}

func (t *splitTracker) didOriginalWordContributeToMatch(originalIndex, matchStart, matchEnd int) bool {
	for _, normIdx := range t.normalizedIndices(originalIndex) {
		if normIdx >= matchStart && normIdx <= matchEnd {
			return true
		}
	}
	return false
}

func (t *splitTracker) copy() *splitTracker {
	c := newSplitTracker()
	for k, v := range t.normalizedToOriginal {
		c.normalizedToOriginal[k] = v
	}
	return c
}
