package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCompanyNamesSkipsHeaderAndBlankLines(t *testing.T) {
	input := "companyName\nSiemens AG\n\n   \nPayPal Holdings\n"
	names, err := ReadCompanyNames(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []string{"Siemens AG", "PayPal Holdings"}, names)
}

func TestReadCompanyNamesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "names.csv")
	require.NoError(t, os.WriteFile(path, []byte("companyName\nWarner Bros. Discovery\n"), 0o644))

	names, err := ReadCompanyNamesFile(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Warner Bros. Discovery"}, names)
}

func TestReadCompanyNamesFileMissingReturnsError(t *testing.T) {
	dir := t.TempDir()
	_, err := ReadCompanyNamesFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}
