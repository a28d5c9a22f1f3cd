package textutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testLogger() ectologger.Logger {
	zapLogger, _ := zap.NewDevelopment()
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func TestEqualDiacriticInsensitive(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "Siemens", "Siemens", true},
		{"umlaut extended vs simple", "Müller", "MUELLER", true},
		{"umlaut simple form", "Müller", "MULLER", true},
		{"eszett", "Straße", "STRASSE", true},
		{"oslash extended", "Ørsted", "OERSTED", true},
		{"polish l-stroke", "Łódź", "LODZ", true},
		{"different words", "Siemens", "Bayer", false},
		{"empty vs non-empty", "", "Siemens", false},
		{"both empty", "", "", true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, EqualDiacriticInsensitive(tc.a, tc.b))
			assert.Equal(t, tc.want, EqualDiacriticInsensitive(tc.b, tc.a), "must be symmetric")
		})
	}
}

func TestNormalizeStripped(t *testing.T) {
	assert.Equal(t, "MUELLERGMBH", NormalizeStripped("Müller GmbH"))
	assert.Equal(t, "STRASSE12", NormalizeStripped("Straße 12"))
}

func TestNormalizePreserveSpecials(t *testing.T) {
	assert.Equal(t, "MUELLER GMBH", NormalizePreserveSpecials("Müller GmbH"))
}

func TestIsEmptyOrBlank(t *testing.T) {
	assert.True(t, IsEmptyOrBlank(""))
	assert.True(t, IsEmptyOrBlank("   "))
	assert.False(t, IsEmptyOrBlank(" x "))
}

func TestLoadNobilityParticles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "titles.txt")
	err := os.WriteFile(path, []byte("# comment\nvon\n\nzu\n"), 0o644)
	assert.NoError(t, err)

	particles := LoadNobilityParticles(testLogger(), path)
	assert.True(t, particles.IsNobiliaryParticle("von"))
	assert.True(t, particles.IsNobiliaryParticle("VON"))
	assert.True(t, particles.IsNobiliaryParticle("zu"))
	assert.False(t, particles.IsNobiliaryParticle("comment"))
	assert.False(t, particles.IsNobiliaryParticle(""))
}

func TestLoadNobilityParticlesMissingFile(t *testing.T) {
	particles := LoadNobilityParticles(testLogger(), "/nonexistent/titles.txt")
	assert.False(t, particles.IsNobiliaryParticle("von"))
}
