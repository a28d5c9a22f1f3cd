package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromNamePairIsOrderIndependent(t *testing.T) {
	a := FromNamePair("Siemens AG", "Siemens GmbH", "DE")
	b := FromNamePair("Siemens GmbH", "Siemens AG", "DE")
	assert.Equal(t, a, b)
}

func TestFromNamePairDiffersByCountry(t *testing.T) {
	a := FromNamePair("Siemens AG", "Siemens GmbH", "DE")
	b := FromNamePair("Siemens AG", "Siemens GmbH", "AT")
	assert.NotEqual(t, a, b)
}

func TestHasChanged(t *testing.T) {
	assert.False(t, HasChanged("abc", "abc"))
	assert.True(t, HasChanged("abc", "def"))
}

func TestGenerateWithExclusions(t *testing.T) {
	data := map[string]any{"name": "Siemens AG", "last_synced_at": "2026-01-01"}
	withExclusion := GenerateWithExclusions(data, map[string]bool{"last_synced_at": true})
	data["last_synced_at"] = "2026-08-02"
	withExclusionAfter := GenerateWithExclusions(data, map[string]bool{"last_synced_at": true})
	assert.Equal(t, withExclusion, withExclusionAfter)
}
