package dice

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRollRange(t *testing.T) {
	s := NewSource(6, 1)

	seen := make(map[int]bool)
	for i := 0; i < 10000; i++ {
		v := s.Roll()
		require.GreaterOrEqual(t, v, 1)
		require.LessOrEqual(t, v, 6)
		seen[v] = true
	}

	// 10k rolls of a fair die hit every face.
	assert.Len(t, seen, 6)
}

func TestNewSourceFaceFallback(t *testing.T) {
	s := NewSource(0, 1)
	assert.Equal(t, DefaultFaces, s.Faces())

	s = NewSource(20, 1)
	assert.Equal(t, 20, s.Faces())
}

func TestRollConcurrent(t *testing.T) {
	s := NewSource(6, 1)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				v := s.Roll()
				if v < 1 || v > 6 {
					t.Errorf("roll out of range: %d", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}
