package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardLookups(t *testing.T) {
	b := New(100,
		[]Feature{{From: 43, To: 12}, {From: 87, To: 30}},
		[]Feature{{From: 5, To: 55}},
	)

	target, ok := b.DescenderTargetAt(43)
	require.True(t, ok)
	assert.Equal(t, 12, target)

	target, ok = b.AscenderTargetAt(5)
	require.True(t, ok)
	assert.Equal(t, 55, target)

	_, ok = b.DescenderTargetAt(5)
	assert.False(t, ok, "ascender bottom must not resolve as a descender head")

	_, ok = b.AscenderTargetAt(44)
	assert.False(t, ok)
}

func TestBoardValidatePosition(t *testing.T) {
	b := New(100, nil, nil)

	tests := []struct {
		position int
		want     bool
	}{
		{0, true},
		{1, true},
		{50, true},
		{100, true},
		{101, false},
		{-1, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, b.ValidatePosition(tt.position), "position %d", tt.position)
	}
}

func TestBoardJSONRoundTrip(t *testing.T) {
	original := New(100,
		[]Feature{{From: 60, To: 20}},
		[]Feature{{From: 8, To: 40}},
	)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded Board
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, 100, decoded.Size)

	target, ok := decoded.DescenderTargetAt(60)
	require.True(t, ok, "decoded board must rebuild its lookup index")
	assert.Equal(t, 20, target)

	target, ok = decoded.AscenderTargetAt(8)
	require.True(t, ok)
	assert.Equal(t, 40, target)
}

func TestBoardClone(t *testing.T) {
	original := New(100, []Feature{{From: 60, To: 20}}, []Feature{{From: 8, To: 40}})
	clone := original.Clone()

	clone.Descenders[0].From = 99
	assert.Equal(t, 60, original.Descenders[0].From, "clone must not share feature slices")

	target, ok := clone.AscenderTargetAt(8)
	require.True(t, ok)
	assert.Equal(t, 40, target)
}
