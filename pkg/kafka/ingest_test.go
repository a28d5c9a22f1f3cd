package kafka

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/corpmatch/pkg/legalform"
	"github.com/Ramsey-B/corpmatch/pkg/matching"
)

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

func TestRunningCatalogKeepsRepeatedName(t *testing.T) {
	catalog := NewRunningCatalog(newTestMatcher(t), nil, testLogger(), "DE", 0.85)

	require.NoError(t, catalog.Handle(context.Background(), &CompanyNameEvent{CompanyName: "Siemens AG"}))
	require.NoError(t, catalog.Handle(context.Background(), &CompanyNameEvent{CompanyName: "Siemens AG"}))

	assert.Equal(t, 2, catalog.Size())
}

func TestRunningCatalogNeverCrashesOnUnrelatedNames(t *testing.T) {
	catalog := NewRunningCatalog(newTestMatcher(t), nil, testLogger(), "DE", 0.85)

	require.NoError(t, catalog.Handle(context.Background(), &CompanyNameEvent{CompanyName: "Siemens AG"}))
	require.NoError(t, catalog.Handle(context.Background(), &CompanyNameEvent{CompanyName: "PayPal Holdings"}))

	assert.Equal(t, 2, catalog.Size())
}

func TestRunningCatalogSeed(t *testing.T) {
	catalog := NewRunningCatalog(newTestMatcher(t), nil, testLogger(), "DE", 0.85)
	catalog.Seed([]string{"Siemens AG", "PayPal Holdings"})
	assert.Equal(t, 2, catalog.Size())

	require.NoError(t, catalog.Handle(context.Background(), &CompanyNameEvent{CompanyName: "Siemens GmbH"}))
	assert.Equal(t, 3, catalog.Size())
}
