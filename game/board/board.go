package board

import "encoding/json"

// Feature is a single jump on the track. For a descender, From is the head
// (higher square) and To is the tail. For an ascender, From is the bottom and
// To is the top.
type Feature struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Board is the immutable track layout for one game. It is generated once at
// game creation and never modified afterwards.
type Board struct {
	Size       int       `json:"size"`
	Descenders []Feature `json:"descenders"`
	Ascenders  []Feature `json:"ascenders"`

	descenderTargets map[int]int
	ascenderTargets  map[int]int
}

// New builds a board from explicit feature lists and indexes it for lookups.
func New(size int, descenders, ascenders []Feature) *Board {
	b := &Board{
		Size:       size,
		Descenders: descenders,
		Ascenders:  ascenders,
	}
	b.buildIndex()
	return b
}

// buildIndex rebuilds the constant-time lookup maps from the feature lists.
func (b *Board) buildIndex() {
	b.descenderTargets = make(map[int]int, len(b.Descenders))
	for _, f := range b.Descenders {
		b.descenderTargets[f.From] = f.To
	}
	b.ascenderTargets = make(map[int]int, len(b.Ascenders))
	for _, f := range b.Ascenders {
		b.ascenderTargets[f.From] = f.To
	}
}

// DescenderTargetAt reports whether position is a descender head, and if so
// the tail square the player slides down to.
func (b *Board) DescenderTargetAt(position int) (int, bool) {
	target, ok := b.descenderTargets[position]
	return target, ok
}

// AscenderTargetAt reports whether position is an ascender bottom, and if so
// the top square the player climbs up to.
func (b *Board) AscenderTargetAt(position int) (int, bool) {
	target, ok := b.ascenderTargets[position]
	return target, ok
}

// ValidatePosition reports whether position is a legal square for this board.
// Position 0 is the pre-start square every player begins on.
func (b *Board) ValidatePosition(position int) bool {
	return position >= 0 && position <= b.Size
}

// Clone returns an independent copy of the board.
func (b *Board) Clone() *Board {
	descenders := make([]Feature, len(b.Descenders))
	copy(descenders, b.Descenders)
	ascenders := make([]Feature, len(b.Ascenders))
	copy(ascenders, b.Ascenders)
	return New(b.Size, descenders, ascenders)
}

// UnmarshalJSON decodes a board and rebuilds its lookup index, so boards
// loaded from persistence are immediately usable.
func (b *Board) UnmarshalJSON(data []byte) error {
	type alias Board
	var raw alias
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	b.Size = raw.Size
	b.Descenders = raw.Descenders
	b.Ascenders = raw.Ascenders
	b.buildIndex()
	return nil
}
