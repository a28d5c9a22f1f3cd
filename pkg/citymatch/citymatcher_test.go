package citymatch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/corpmatch/pkg/textutil"
)

func newTestCityMatcher(t *testing.T) *CityMatcher {
	t.Helper()
	dir := t.TempDir()
	mappingsPath := filepath.Join(dir, "cityMappings.txt")
	require.NoError(t, os.WriteFile(mappingsPath, []byte("Muenchen,Munich\n"), 0o644))
	mapper := LoadCityMapper(testLogger(), mappingsPath)

	particlesPath := filepath.Join(dir, "particles.txt")
	require.NoError(t, os.WriteFile(particlesPath, []byte("am\nvon\n"), 0o644))
	particles := textutil.LoadNobilityParticles(testLogger(), particlesPath)

	return NewCityMatcher(mapper, particles)
}

func TestMatchCityNameIdentical(t *testing.T) {
	m := newTestCityMatcher(t)
	score, ok := m.MatchCityName("Berlin", "Berlin")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestMatchCityNameCanonicalMapping(t *testing.T) {
	m := newTestCityMatcher(t)
	score, ok := m.MatchCityName("Muenchen", "Munich")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestMatchCityNameStripsFillerWords(t *testing.T) {
	m := newTestCityMatcher(t)
	score, ok := m.MatchCityName("Frankfurt am Main", "Frankfurt")
	require.True(t, ok)
	assert.GreaterOrEqual(t, score, 0.85)
}

func TestMatchCityNameEmptyReturnsNoOpinion(t *testing.T) {
	m := newTestCityMatcher(t)
	_, ok := m.MatchCityName("", "Berlin")
	assert.False(t, ok)
}

func TestMatchCityNameUnrelatedReturnsNoOpinion(t *testing.T) {
	m := newTestCityMatcher(t)
	_, ok := m.MatchCityName("Berlin", "Tokyo")
	assert.False(t, ok)
}
