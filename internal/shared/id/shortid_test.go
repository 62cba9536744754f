package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWithPrefix(t *testing.T) {
	sid, err := NewSyncLogSID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sid, "sync_"))
	assert.Len(t, sid, len("sync_")+DefaultLength)
	assert.NoError(t, ValidatePrefix(sid, PrefixSyncLog))
	assert.Error(t, ValidatePrefix(sid, PrefixIntegration))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 200)
	for i := 0; i < 200; i++ {
		s, err := Generate(0)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}

func TestValidatePrefix_Malformed(t *testing.T) {
	assert.Error(t, ValidatePrefix("nounderscore", PrefixSyncLog))
	assert.Error(t, ValidatePrefix("sync_", PrefixSyncLog))
}
