package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRoomCode(t *testing.T) {
	// When: generating a batch of room codes
	for i := 0; i < 100; i++ {
		code := GenerateRoomCode()

		// Then: each is 6 uppercase alphanumerics
		require.Len(t, code, 6)
		for _, r := range code {
			assert.Contains(t, roomCodeAlphabet, string(r))
		}
	}
}

func TestNewClientID(t *testing.T) {
	// When: generating two client ids
	first := NewClientID()
	second := NewClientID()

	// Then: they are non-empty and distinct
	require.NotEmpty(t, first)
	assert.NotEqual(t, first, second)
}
