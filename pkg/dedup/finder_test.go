package dedup

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
)

func testLogger() ectologger.Logger {
	z, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(z, nil)
}

func newTestMatcher(t *testing.T) *matching.Matcher {
	t.Helper()
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "legal_forms.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"legal_form_id": "DE-AG", "short_name": "AG", "long_name": "Aktiengesellschaft", "country": "DE"},
		{"legal_form_id": "DE-GMBH", "short_name": "GmbH", "long_name": "Gesellschaft mit beschraenkter Haftung", "country": "DE"}
	]`), 0o644))
	additionsPath := filepath.Join(dir, "additions.txt")
	require.NoError(t, os.WriteFile(additionsPath, []byte(""), 0o644))
	replacementsPath := filepath.Join(dir, "legal_form_replacements.csv")
	require.NoError(t, os.WriteFile(replacementsPath, []byte("aktiengesellschaft,ag\n"), 0o644))

	catalog := legalform.LoadCatalog(testLogger(), jsonPath, additionsPath)
	replacements := legalform.LoadReplacements(testLogger(), replacementsPath)
	retriever := legalform.NewRetriever(catalog, replacements)
	return matching.NewMatcher(catalog, retriever)
}

func TestFindDuplicatesDetectsObviousDuplicate(t *testing.T) {
	m := newTestMatcher(t)
	names := []string{
		"PayPal Holdings",
		"PayPal Holding",
		"Totally Unrelated Widgets Corp",
		"Another Random Company",
	}

	results := FindDuplicates(context.Background(), m, names, Options{})

	require.NotEmpty(t, results)
	found := false
	for _, r := range results {
		if (r.Name1 == "PayPal Holdings" && r.Name2 == "PayPal Holding") ||
			(r.Name1 == "PayPal Holding" && r.Name2 == "PayPal Holdings") {
			found = true
			assert.Greater(t, r.Score, 0.85)
		}
	}
	assert.True(t, found, "expected PayPal Holdings/Holding to be reported as duplicates")
}

func TestFindDuplicatesNeverEmitsSelfOrOrderedPairs(t *testing.T) {
	m := newTestMatcher(t)
	names := []string{
		"Siemens AG",
		"Siemens GmbH",
		"Siemens Aktiengesellschaft",
	}

	results := FindDuplicates(context.Background(), m, names, Options{})

	seen := map[[2]string]bool{}
	for _, r := range results {
		assert.NotEqual(t, r.Name1, r.Name2)
		pair := [2]string{r.Name1, r.Name2}
		reverse := [2]string{r.Name2, r.Name1}
		assert.False(t, seen[reverse], "reverse pair already emitted")
		seen[pair] = true
	}
}

func TestFindDuplicatesSkipsBlankNames(t *testing.T) {
	m := newTestMatcher(t)
	names := []string{"", "   ", "Siemens AG"}

	results := FindDuplicates(context.Background(), m, names, Options{})

	assert.Empty(t, results)
}

func TestFindDuplicatesUnrelatedNamesProduceNoMatches(t *testing.T) {
	m := newTestMatcher(t)
	names := []string{
		"Totally Unrelated Widgets Corp",
		"Completely Different Gadgets Ltd",
	}

	results := FindDuplicates(context.Background(), m, names, Options{})
	assert.Empty(t, results)
}
