package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounter_AccumulatesCallsAndBytes(t *testing.T) {
	var c Counter

	require.NoError(t, c.Count(map[string]any{"id": 1}))
	require.NoError(t, c.Count([]int{1, 2, 3}))

	stats := c.Stats()
	assert.Equal(t, 2, stats.Calls)
	assert.Equal(t, len(`{"id":1}`)+len(`[1,2,3]`), stats.Bytes)
}

func TestCounter_ZeroValueIsReady(t *testing.T) {
	var c Counter
	assert.Equal(t, Stats{}, c.Stats())
}

func TestMarshal_UnencodablePayload(t *testing.T) {
	_, err := Marshal(func() {})
	require.Error(t, err)
}

func TestCounter_NilPayloadCounts(t *testing.T) {
	var c Counter
	require.NoError(t, c.Count(nil))

	stats := c.Stats()
	assert.Equal(t, 1, stats.Calls)
	assert.Equal(t, len("null"), stats.Bytes)
}
