package citymatch

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

func TestLoadCityMapperParsesMappings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cityMappings.txt")
	require.NoError(t, os.WriteFile(path, []byte(
		"input_name,canonical\n"+
			"# comment\n"+
			"Muenchen,Munich\n"+
			"Koeln,Cologne\n",
	), 0o644))

	m := LoadCityMapper(testLogger(), path)

	assert.Equal(t, 2, m.Count())
	assert.Equal(t, "MUNICH", m.MapCity("muenchen"))
	assert.Equal(t, "COLOGNE", m.MapCity("Koeln"))
	assert.Equal(t, "BERLIN", m.MapCity("berlin"))
}

func TestLoadCityMapperMissingFile(t *testing.T) {
	dir := t.TempDir()
	m := LoadCityMapper(testLogger(), filepath.Join(dir, "missing.txt"))
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, "PARIS", m.MapCity("paris"))
}

func TestCityMapperNilSafety(t *testing.T) {
	var m *CityMapper
	assert.Equal(t, 0, m.Count())
	assert.Equal(t, "PARIS", m.MapCity("paris"))
}
