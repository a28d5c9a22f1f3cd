package legalform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCatalogFromJSONAndAdditions(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "legal_forms.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"legal_form_id": "US-INC", "short_name": "Inc.", "long_name": "Incorporated", "country": "US"},
		{"legal_form_id": "US-LLC", "short_name": "LLC", "long_name": null, "country": "US"}
	]`), 0o644))
	additionsPath := filepath.Join(dir, "additions.txt")
	require.NoError(t, os.WriteFile(additionsPath, []byte("LTD\nPLC\n"), 0o644))

	c := LoadCatalog(testLogger(), jsonPath, additionsPath)

	assert.True(t, c.IsLegalForm("inc."))
	assert.True(t, c.IsLegalForm("INCORPORATED"))
	assert.True(t, c.IsLegalForm("llc"))
	assert.True(t, c.IsLegalForm("ltd"))
	assert.True(t, c.IsLegalForm("plc"))
	assert.False(t, c.IsLegalForm("gmbh"))

	entries := c.EntriesForCountry("us")
	assert.Len(t, entries, 2)
}

func TestLoadCatalogMissingFilesWarnButDontPanic(t *testing.T) {
	dir := t.TempDir()
	c := LoadCatalog(testLogger(), filepath.Join(dir, "missing.json"), filepath.Join(dir, "missing.txt"))
	assert.Equal(t, 0, c.Count())
	assert.False(t, c.IsLegalForm("gmbh"))
}

func TestCatalogNilSafety(t *testing.T) {
	var c *Catalog
	assert.False(t, c.IsLegalForm("gmbh"))
	assert.Equal(t, 0, c.Count())
	assert.Nil(t, c.AllForms())
	assert.Nil(t, c.EntriesForCountry("DE"))
}
