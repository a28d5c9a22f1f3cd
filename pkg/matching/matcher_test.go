package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
)

func testLogger() ectologger.Logger {
	z, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(z, nil)
}

func newTestMatcher(t *testing.T) *Matcher {
	t.Helper()
	dir := t.TempDir()

	legalFormsJSON := `[
		{"legal_form_id": "DE-AG", "short_name": "AG", "long_name": "Aktiengesellschaft", "country": "DE"},
		{"legal_form_id": "DE-GMBH", "short_name": "GmbH", "long_name": "Gesellschaft mit beschraenkter Haftung", "country": "DE"}
	]`
	jsonPath := filepath.Join(dir, "legal_forms.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(legalFormsJSON), 0o644))
	additionsPath := filepath.Join(dir, "additions.txt")
	require.NoError(t, os.WriteFile(additionsPath, []byte(""), 0o644))

	replacementsPath := filepath.Join(dir, "legal_form_replacements.csv")
	require.NoError(t, os.WriteFile(replacementsPath, []byte("aktiengesellschaft,ag\n"), 0o644))

	catalog := legalform.LoadCatalog(testLogger(), jsonPath, additionsPath)
	replacements := legalform.LoadReplacements(testLogger(), replacementsPath)
	retriever := legalform.NewRetriever(catalog, replacements)

	return NewMatcher(catalog, retriever)
}

func TestMatchIdenticalNamesScoreOne(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("Siemens AG", "Siemens AG", "DE", "DE")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)
}

func TestMatchIsSymmetric(t *testing.T) {
	m := newTestMatcher(t)
	forward, okF := m.Match("Warner Brothers Discovery", "Warner Bros. Discovery", "DE", "DE")
	backward, okB := m.Match("Warner Bros. Discovery", "Warner Brothers Discovery", "DE", "DE")
	require.True(t, okF)
	require.True(t, okB)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestMatchEmptyNameReturnsNoOpinion(t *testing.T) {
	m := newTestMatcher(t)
	_, ok := m.Match("", "Siemens AG", "DE", "DE")
	assert.False(t, ok)
}

func TestMatchWarnerBrothersDiscovery(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("Warner Brothers Discovery", "Warner Bros. Discovery", "DE", "DE")
	require.True(t, ok)
	assert.Greater(t, score, 0.85)
}

func TestMatchJohnsonAndJohnson(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("Johnson & Johnson", "Johnson and Jonson", "DE", "DE")
	require.True(t, ok)
	assert.Greater(t, score, 0.85)
}

func TestMatchPNCFinancialServicesGroup(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("PNC Financial Services Group", "PNC Financial Service G.", "DE", "DE")
	require.True(t, ok)
	assert.Greater(t, score, 0.85)
}

func TestMatchPayPalHoldings(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("PayPal Holdings", "PayPal Holding", "DE", "DE")
	require.True(t, ok)
	assert.Greater(t, score, 0.85)
}

func TestMatchIBMAbbreviation(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("International Business Machines", "IBM", "DE", "DE")
	require.True(t, ok)
	assert.InDelta(t, 0.5, score, 1e-9)
}

func TestMatchSiemensLegalFormMismatch(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("Siemens AG", "Siemens GmbH", "DE", "DE")
	require.True(t, ok)
	assert.Greater(t, score, 0.85)
	assert.Less(t, score, 1.0)
}

func TestMatchUnrelatedNamesReturnNoOpinion(t *testing.T) {
	m := newTestMatcher(t)
	_, ok := m.Match("Siemens AG", "Totally Unrelated Widgets Corp", "DE", "DE")
	assert.False(t, ok)
}

func TestMatchShortNamesCompareByEqualityOnly(t *testing.T) {
	m := newTestMatcher(t)
	score, ok := m.Match("AB", "AB", "DE", "DE")
	require.True(t, ok)
	assert.Equal(t, 1.0, score)

	_, ok = m.Match("AB", "CD", "DE", "DE")
	assert.False(t, ok)
}
