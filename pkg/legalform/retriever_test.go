package legalform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() ectologger.Logger {
	z, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(z, nil)
}

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestRetriever(t *testing.T) *Retriever {
	t.Helper()
	dir := t.TempDir()

	legalFormsJSON := `[
		{"legal_form_id": "DE-AG", "short_name": "AG", "long_name": "Aktiengesellschaft", "country": "DE"},
		{"legal_form_id": "DE-GMBH", "short_name": "GmbH", "long_name": "Gesellschaft mit beschraenkter Haftung", "country": "DE"},
		{"legal_form_id": "DE-GMBHCOKG", "short_name": "GmbH & Co. KG", "long_name": null, "country": "DE"},
		{"legal_form_id": "DE-KG", "short_name": "KG", "long_name": "Kommanditgesellschaft", "country": "DE"}
	]`
	jsonPath := writeTestFile(t, dir, "legal_forms.json", legalFormsJSON)
	additionsPath := writeTestFile(t, dir, "additions.txt", "")

	replacementsCSV := "aktiengesellschaft,ag\n" +
		"gesellschaft mit beschraenkter haftung,gmbh\n" +
		"gesellschaft mit beschrankter haftung,gmbh\n"
	replacementsPath := writeTestFile(t, dir, "legal_form_replacements.csv", replacementsCSV)

	catalog := LoadCatalog(testLogger(), jsonPath, additionsPath)
	replacements := LoadReplacements(testLogger(), replacementsPath)
	return NewRetriever(catalog, replacements)
}

func TestRetrieveLegalFormExactSuffix(t *testing.T) {
	r := newTestRetriever(t)
	id, ok := r.RetrieveLegalForm("Siemens AG", "DE")
	assert.True(t, ok)
	assert.Equal(t, "DE-AG", id)
}

func TestRetrieveLegalFormExpandedForm(t *testing.T) {
	r := newTestRetriever(t)
	id, ok := r.RetrieveLegalForm("Muster Gesellschaft mit beschraenkter Haftung", "DE")
	assert.True(t, ok)
	assert.Equal(t, "DE-GMBH", id)
}

func TestRetrieveLegalFormUnknownCountry(t *testing.T) {
	r := newTestRetriever(t)
	_, ok := r.RetrieveLegalForm("Siemens AG", "ZZ")
	assert.False(t, ok)
}

func TestRetrieveLegalFormNoMatch(t *testing.T) {
	r := newTestRetriever(t)
	_, ok := r.RetrieveLegalForm("Siemens", "DE")
	assert.False(t, ok)
}

func TestCompanyNameWithoutLegalFormStripsSuffix(t *testing.T) {
	r := newTestRetriever(t)
	name := r.CompanyNameWithoutLegalForm("Siemens AG", "DE")
	assert.Equal(t, "siemens", name)
}

func TestCompanyNameWithoutLegalFormKeepsNameWhenNoMatch(t *testing.T) {
	r := newTestRetriever(t)
	name := r.CompanyNameWithoutLegalForm("Siemens Corp", "DE")
	assert.Contains(t, name, "siemens")
}

func TestCompanyNameWithoutLegalFormMultiWordForm(t *testing.T) {
	r := newTestRetriever(t)
	name := r.CompanyNameWithoutLegalForm("Muster GmbH & Co. KG", "DE")
	assert.Equal(t, "muster", name)
}

// TestProcessReplacementsPrefersFullMatchOverLargerPartial mirrors the
// full-before-partial, then-word-count tie-break order: a replacement entry
// spanning the entire remaining word list must win even when a
// smaller-word-count entry that only matches a trailing sub-window is tried
// first. The two entries are deliberately given out of presorted
// (word-count-then-length descending) order, so a plain first-match-wins
// scan over them would pick the partial entry instead.
func TestProcessReplacementsPrefersFullMatchOverEarlierPartial(t *testing.T) {
	partial := ReplacementEntry{
		SearchWords: []string{"gesellschaft", "gmbh"},
		Replacement: "partial",
		WordCount:   2,
	}
	full := ReplacementEntry{
		SearchWords: []string{"neu", "gesellschaft", "gmbh"},
		Replacement: "full",
		WordCount:   3,
	}
	replacements := []ReplacementEntry{partial, full}

	words, _ := normalizeWithTracking("Neu Gesellschaft GmbH", replacements)
	assert.Equal(t, []string{"full"}, words)
}
