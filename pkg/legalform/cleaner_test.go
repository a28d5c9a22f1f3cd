package legalform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripParenthesizedTail(t *testing.T) {
	assert.Equal(t, "Siemens", StripParenthesizedTail("Siemens (formerly Siemens AG)"))
	assert.Equal(t, "Siemens", StripParenthesizedTail("Siemens"))
}

func TestStripPunctuation(t *testing.T) {
	assert.Equal(t, "Siemens AG", StripPunctuation("Siemens, AG;"))
}

func TestClean(t *testing.T) {
	assert.Equal(t, "Siemens AG", Clean("  Siemens AG (Munich)  "))
	assert.Equal(t, "", Clean("   "))
}

func newTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "legal_forms.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[
		{"legal_form_id": "DE-AG", "short_name": "AG", "long_name": "Aktiengesellschaft", "country": "DE"},
		{"legal_form_id": "DE-GMBH", "short_name": "GmbH", "long_name": "Gesellschaft mit beschraenkter Haftung", "country": "DE"}
	]`), 0o644))
	additionsPath := filepath.Join(dir, "additions.txt")
	require.NoError(t, os.WriteFile(additionsPath, []byte(""), 0o644))
	return LoadCatalog(testLogger(), jsonPath, additionsPath)
}

func TestCleanAndRemoveLegalForm(t *testing.T) {
	c := newTestCatalog(t)
	assert.Equal(t, "Siemens", c.CleanAndRemoveLegalForm("Siemens AG"))
	assert.Equal(t, "Siemens", c.CleanAndRemoveLegalForm("Siemens GmbH"))
	assert.Equal(t, "", c.CleanAndRemoveLegalForm("AG"))
	assert.Equal(t, "Muster Bau", c.CleanAndRemoveLegalForm("Muster Bau"))
}
