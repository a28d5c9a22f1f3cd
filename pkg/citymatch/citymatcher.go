package citymatch

import (
	"strings"

	"github.com/Ramsey-B/corpmatch/pkg/scoring"
	"github.com/Ramsey-B/corpmatch/pkg/textutil"
	"github.com/Ramsey-B/corpmatch/pkg/wordmatch"
)

const (
	wordMatchThreshold = 0.85
	phoneticAssistScore = 0.8
)

// CityMatcher scores two place names for likely referring to the same
// city. It reuses the corporate-name primitives (diacritic equality, word
// matching, phonetic codes) rather than a bespoke algorithm, since place
// names and company names share the same "same entity, different spelling"
// shape; the one city-specific step is mapping through a canonical-name
// table first and stripping locational filler words ("am", "an der", "von")
// using the same particle set built for person names.
type CityMatcher struct {
	mapper    *CityMapper
	particles *textutil.NobilityParticles
	scorer    *scoring.Scorer
}

func NewCityMatcher(mapper *CityMapper, particles *textutil.NobilityParticles) *CityMatcher {
	return &CityMatcher{
		mapper:    mapper,
		particles: particles,
		scorer:    scoring.NewScorer(),
	}
}

// MatchCityName returns the probability that place1 and place2 name the
// same city, or false if either is empty or no rule finds a match.
func (m *CityMatcher) MatchCityName(place1, place2 string) (float64, bool) {
	if strings.TrimSpace(place1) == "" || strings.TrimSpace(place2) == "" {
		return 0, false
	}

	a := m.mapper.MapCity(place1)
	b := m.mapper.MapCity(place2)

	if textutil.EqualDiacriticInsensitive(a, b) {
		return 1.0, true
	}

	strippedA := m.stripParticles(a)
	strippedB := m.stripParticles(b)

	if textutil.EqualDiacriticInsensitive(strippedA, strippedB) {
		return 1.0, true
	}

	if jw := m.scorer.JaroWinkler(strippedA, strippedB); jw >= wordMatchThreshold {
		return jw, true
	}

	if wordScore := wordmatch.CompareByWords(strippedA, strippedB); wordScore >= wordMatchThreshold {
		return wordScore, true
	}

	if m.scorer.SoundexMatch(strippedA, strippedB) || m.scorer.MetaphoneMatch(strippedA, strippedB) {
		return phoneticAssistScore, true
	}

	return 0, false
}

// stripParticles drops locational filler words from a place name, reusing
// the nobility-particle set ("von", "am", "zu", ...) built for surnames.
func (m *CityMatcher) stripParticles(place string) string {
	tokens := strings.Fields(place)
	kept := tokens[:0]
	for _, tok := range tokens {
		if m.particles != nil && m.particles.IsNobiliaryParticle(tok) {
			continue
		}
		kept = append(kept, tok)
	}
	if len(kept) == 0 {
		return place
	}
	return strings.Join(kept, " ")
}
