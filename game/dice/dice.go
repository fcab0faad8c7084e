// Package dice provides the random die used for move resolution.
//
// A single Source can be shared by every concurrently active game: the
// underlying math/rand generator is not safe for concurrent use, so Roll
// serializes access with a mutex.
package dice

import (
	"math/rand"
	"sync"
	"time"
)

// DefaultFaces is the conventional die size.
const DefaultFaces = 6

// Roller produces one uniformly distributed outcome per call.
type Roller interface {
	Roll() int
}

// Source is a mutex-guarded die backed by math/rand.
type Source struct {
	mu    sync.Mutex
	rng   *rand.Rand
	faces int
}

// NewSource creates a die with the given face count. Face counts below 2 fall
// back to DefaultFaces. A zero seed picks a time-based one.
func NewSource(faces int, seed int64) *Source {
	if faces < 2 {
		faces = DefaultFaces
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Source{
		rng:   rand.New(rand.NewSource(seed)),
		faces: faces,
	}
}

// Roll returns a uniform value in [1, faces]. Safe for concurrent use.
func (s *Source) Roll() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(s.faces) + 1
}

// Faces returns the die size.
func (s *Source) Faces() int {
	return s.faces
}
