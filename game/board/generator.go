package board

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

var (
	ErrInvalidParams = errors.New("invalid board parameters")

	// ErrPlacementExhausted is returned when every placement attempt for a
	// feature kind collided and the board ended up with none of that kind.
	// Boards with fewer features than requested are returned without error.
	ErrPlacementExhausted = errors.New("board feature placement exhausted")
)

// Params controls board generation.
type Params struct {
	// Size is the track length in squares.
	Size int
	// FeatureCountMin and FeatureCountMax bound the number of features drawn
	// per kind. The actual count is uniform in [min, max].
	FeatureCountMin int
	FeatureCountMax int
	// MinGap is the minimum distance between the two endpoints of a feature.
	MinGap int
	// PlacementAttempts caps the retries for a single feature before it is
	// abandoned. The cap keeps generation from livelocking on crowded tracks.
	PlacementAttempts int
}

// DefaultParams returns the classic 100-square track parameters.
func DefaultParams() Params {
	return Params{
		Size:              100,
		FeatureCountMin:   8,
		FeatureCountMax:   12,
		MinGap:            10,
		PlacementAttempts: 50,
	}
}

// Validate checks that the parameters describe a generatable board. The track
// has to be long enough that a descender head in the upper half can still
// clear MinGap above its tail.
func (p Params) Validate() error {
	if p.Size < 2*(p.MinGap+3) {
		return fmt.Errorf("%w: size %d too small for min gap %d", ErrInvalidParams, p.Size, p.MinGap)
	}
	if p.FeatureCountMin < 0 || p.FeatureCountMax < p.FeatureCountMin {
		return fmt.Errorf("%w: feature count bounds [%d, %d]", ErrInvalidParams, p.FeatureCountMin, p.FeatureCountMax)
	}
	if p.MinGap < 1 {
		return fmt.Errorf("%w: min gap %d", ErrInvalidParams, p.MinGap)
	}
	if p.PlacementAttempts < 1 {
		return fmt.Errorf("%w: placement attempts %d", ErrInvalidParams, p.PlacementAttempts)
	}
	return nil
}

// Stats reports how a single generation run went. Used by the analyze tool to
// measure placement pressure.
type Stats struct {
	DescendersRequested int
	DescendersPlaced    int
	AscendersRequested  int
	AscendersPlaced     int
	AttemptsUsed        int
}

// Generator produces boards. The random source is guarded by a mutex so one
// generator can be shared by concurrent game creations.
type Generator struct {
	params Params
	mu     sync.Mutex
	rng    *rand.Rand
}

// NewGenerator creates a generator for the given parameters. A zero seed picks
// a time-based one.
func NewGenerator(params Params, seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{
		params: params,
		rng:    rand.New(rand.NewSource(seed)),
	}
}

// Generate builds a new board. It returns ErrPlacementExhausted only when a
// requested feature kind could not be placed at all; a partially filled board
// is a normal degraded result.
func (g *Generator) Generate() (*Board, error) {
	b, _, err := g.GenerateWithStats()
	return b, err
}

// GenerateWithStats is Generate plus placement statistics.
func (g *Generator) GenerateWithStats() (*Board, Stats, error) {
	if err := g.params.Validate(); err != nil {
		return nil, Stats{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	size := g.params.Size
	occupied := map[int]bool{1: true, size: true}

	stats := Stats{
		DescendersRequested: g.drawCount(),
		AscendersRequested:  g.drawCount(),
	}

	var descenders []Feature
	for i := 0; i < stats.DescendersRequested; i++ {
		f, attempts, ok := g.placeDescender(occupied)
		stats.AttemptsUsed += attempts
		if !ok {
			continue
		}
		descenders = append(descenders, f)
		occupied[f.From] = true
		occupied[f.To] = true
		stats.DescendersPlaced++
	}

	var ascenders []Feature
	for i := 0; i < stats.AscendersRequested; i++ {
		f, attempts, ok := g.placeAscender(occupied)
		stats.AttemptsUsed += attempts
		if !ok {
			continue
		}
		ascenders = append(ascenders, f)
		occupied[f.From] = true
		occupied[f.To] = true
		stats.AscendersPlaced++
	}

	b := New(size, descenders, ascenders)

	if (stats.DescendersRequested > 0 && stats.DescendersPlaced == 0) ||
		(stats.AscendersRequested > 0 && stats.AscendersPlaced == 0) {
		return b, stats, ErrPlacementExhausted
	}
	return b, stats, nil
}

// drawCount picks the number of features for one kind, uniform in
// [FeatureCountMin, FeatureCountMax].
func (g *Generator) drawCount() int {
	span := g.params.FeatureCountMax - g.params.FeatureCountMin + 1
	return g.params.FeatureCountMin + g.rng.Intn(span)
}

// placeDescender draws head from the upper half [size/2, size) and tail from
// [2, head-MinGap), accepting only when both squares are free. It gives up
// after PlacementAttempts tries.
func (g *Generator) placeDescender(occupied map[int]bool) (Feature, int, bool) {
	size := g.params.Size
	for attempt := 1; attempt <= g.params.PlacementAttempts; attempt++ {
		head := g.intn(size/2, size)
		tail := g.intn(2, head-g.params.MinGap)
		if !occupied[head] && !occupied[tail] {
			return Feature{From: head, To: tail}, attempt, true
		}
	}
	return Feature{}, g.params.PlacementAttempts, false
}

// placeAscender draws bottom from [2, size/2) and top from [bottom+MinGap,
// size), with the same acceptance rule and retry cap.
func (g *Generator) placeAscender(occupied map[int]bool) (Feature, int, bool) {
	size := g.params.Size
	for attempt := 1; attempt <= g.params.PlacementAttempts; attempt++ {
		bottom := g.intn(2, size/2)
		top := g.intn(bottom+g.params.MinGap, size)
		if !occupied[bottom] && !occupied[top] {
			return Feature{From: bottom, To: top}, attempt, true
		}
	}
	return Feature{}, g.params.PlacementAttempts, false
}

// intn draws uniformly from [low, high).
func (g *Generator) intn(low, high int) int {
	return low + g.rng.Intn(high-low)
}
