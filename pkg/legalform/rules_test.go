package legalform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReplacementsSortedByWordCountThenLength(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legal_form_replacements.csv")
	require.NoError(t, os.WriteFile(path, []byte(
		"ag,ag\n"+
			"aktiengesellschaft,ag\n"+
			"gesellschaft mit beschraenkter haftung,gmbh\n",
	), 0o644))

	entries := LoadReplacements(testLogger(), path)
	require.Len(t, entries, 3)

	assert.Equal(t, 4, entries[0].WordCount)
	assert.Equal(t, "gmbh", entries[0].Replacement)
	assert.Equal(t, 1, entries[1].WordCount)
	assert.Equal(t, "aktiengesellschaft", entries[1].SearchWords[0])
	assert.Equal(t, 1, entries[2].WordCount)
	assert.Equal(t, "ag", entries[2].SearchWords[0])
}

func TestLoadReplacementsMissingFile(t *testing.T) {
	dir := t.TempDir()
	entries := LoadReplacements(testLogger(), filepath.Join(dir, "missing.csv"))
	assert.Nil(t, entries)
}
