// Package board provides procedural board generation for the Slide Race game.
//
// A board is a linear track of squares numbered 1..Size. It carries two
// disjoint sets of jump features: descenders (land on the head, slide down to
// the tail) and ascenders (land on the bottom, climb up to the top). The
// generator places a random number of each kind using an occupancy set so that
// no two features share an endpoint and no feature touches the first or last
// square. Placement is bounded-retry: a candidate that keeps colliding is
// abandoned after a fixed number of attempts, yielding a board with fewer
// features rather than looping forever.
//
// Usage:
//
//	gen := board.NewGenerator(board.DefaultParams(), 0)
//	b, err := gen.Generate()
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	if target, ok := b.DescenderTargetAt(43); ok {
//		// landed on a descender head, slide to target
//	}
//
// Lookups are constant-time map checks; a board built by the generator or
// decoded from JSON is ready to query.
package board
