package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextIncreases(t *testing.T) {
	g, err := New(-1)
	require.NoError(t, err)

	prev := g.Next()
	for i := 0; i < 1000; i++ {
		id := g.Next()
		assert.Greater(t, id, prev)
		prev = id
	}
}

func TestNodeIDIsMasked(t *testing.T) {
	_, err := New(5000)
	assert.NoError(t, err)
}
