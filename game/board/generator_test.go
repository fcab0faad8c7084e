package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateInvariants(t *testing.T) {
	params := DefaultParams()
	gen := NewGenerator(params, 1)

	// Generation is random; check the structural invariants over many boards.
	for i := 0; i < 200; i++ {
		b, err := gen.Generate()
		require.NoError(t, err)

		assert.Equal(t, params.Size, b.Size)
		assert.LessOrEqual(t, len(b.Descenders), params.FeatureCountMax)
		assert.GreaterOrEqual(t, len(b.Descenders), 0)
		assert.LessOrEqual(t, len(b.Ascenders), params.FeatureCountMax)

		endpoints := make(map[int]bool)
		checkEndpoint := func(pos int) {
			assert.False(t, endpoints[pos], "endpoint %d shared by two features", pos)
			endpoints[pos] = true
			assert.NotEqual(t, 1, pos, "no feature may touch the start square")
			assert.NotEqual(t, b.Size, pos, "no feature may touch the end square")
			assert.Greater(t, pos, 1)
			assert.Less(t, pos, b.Size)
		}

		for _, d := range b.Descenders {
			assert.Greater(t, d.From, d.To, "descender head must be above its tail")
			assert.GreaterOrEqual(t, d.From-d.To, params.MinGap)
			assert.GreaterOrEqual(t, d.From, params.Size/2, "descender head belongs to the upper half")
			checkEndpoint(d.From)
			checkEndpoint(d.To)
		}
		for _, a := range b.Ascenders {
			assert.Greater(t, a.To, a.From, "ascender top must be above its bottom")
			assert.GreaterOrEqual(t, a.To-a.From, params.MinGap)
			assert.Less(t, a.From, params.Size/2, "ascender bottom belongs to the lower half")
			checkEndpoint(a.From)
			checkEndpoint(a.To)
		}
	}
}

func TestGenerateWithStats(t *testing.T) {
	gen := NewGenerator(DefaultParams(), 42)

	b, stats, err := gen.GenerateWithStats()
	require.NoError(t, err)

	assert.GreaterOrEqual(t, stats.DescendersRequested, 8)
	assert.LessOrEqual(t, stats.DescendersRequested, 12)
	assert.GreaterOrEqual(t, stats.AscendersRequested, 8)
	assert.LessOrEqual(t, stats.AscendersRequested, 12)
	assert.Equal(t, len(b.Descenders), stats.DescendersPlaced)
	assert.Equal(t, len(b.Ascenders), stats.AscendersPlaced)
	assert.Greater(t, stats.AttemptsUsed, 0)
}

func TestGenerateDegradesOnCrowdedTrack(t *testing.T) {
	// A short track with a large feature demand cannot host every feature.
	// Placement must stop at the attempt cap and yield fewer features
	// instead of spinning.
	params := Params{
		Size:              30,
		FeatureCountMin:   12,
		FeatureCountMax:   12,
		MinGap:            10,
		PlacementAttempts: 50,
	}
	require.NoError(t, params.Validate())

	gen := NewGenerator(params, 7)
	b, stats, err := gen.GenerateWithStats()
	if err != nil {
		require.ErrorIs(t, err, ErrPlacementExhausted)
	}
	require.NotNil(t, b)
	assert.Less(t, len(b.Descenders)+len(b.Ascenders), 24)
	assert.LessOrEqual(t, stats.DescendersPlaced, stats.DescendersRequested)
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Params)
		wantErr bool
	}{
		{"defaults", func(p *Params) {}, false},
		{"track too short", func(p *Params) { p.Size = 20 }, true},
		{"inverted count bounds", func(p *Params) { p.FeatureCountMax = 2; p.FeatureCountMin = 5 }, true},
		{"zero gap", func(p *Params) { p.MinGap = 0 }, true},
		{"zero attempts", func(p *Params) { p.PlacementAttempts = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.mutate(&params)
			err := params.Validate()
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidParams)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
