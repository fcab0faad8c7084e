package config

import (
	"errors"
	"fmt"

	"github.com/amontoya/sliderace/game/board"
	"github.com/amontoya/sliderace/game/engine"
)

var ErrInvalidRules = errors.New("invalid rules")

// Rules is one named game variant: track length, dice, seat limits, and the
// knobs handed to the board generator. Variants are stored as JSON files in
// the rules directory and selected by filename when a room starts a game.
type Rules struct {
	Name              string `json:"name"`
	Description       string `json:"description"`
	BoardSize         int    `json:"board_size"`
	DiceFaces         int    `json:"dice_faces"`
	MinPlayers        int    `json:"min_players"`
	MaxPlayers        int    `json:"max_players"`
	FeatureCountMin   int    `json:"feature_count_min"`
	FeatureCountMax   int    `json:"feature_count_max"`
	MinFeatureGap     int    `json:"min_feature_gap"`
	PlacementAttempts int    `json:"placement_attempts"`
}

// RulesInfo is the listing entry for one rules file.
type RulesInfo struct {
	Filename    string `json:"filename"`
	RulesID     string `json:"rules_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	BoardSize   int    `json:"board_size"`
	DiceFaces   int    `json:"dice_faces"`
	MaxPlayers  int    `json:"max_players"`
}

// DefaultRules is the classic variant: a 100-square track, a six-sided die,
// and 8 to 12 of each feature kind.
func DefaultRules() *Rules {
	params := board.DefaultParams()
	return &Rules{
		Name:              "classic",
		Description:       "Classic 100-square race with a six-sided die",
		BoardSize:         params.Size,
		DiceFaces:         6,
		MinPlayers:        engine.MinPlayers,
		MaxPlayers:        engine.MaxPlayers,
		FeatureCountMin:   params.FeatureCountMin,
		FeatureCountMax:   params.FeatureCountMax,
		MinFeatureGap:     params.MinGap,
		PlacementAttempts: params.PlacementAttempts,
	}
}

// Validate checks the variant top to bottom: naming, seat limits against the
// engine's hard bounds, dice sanity, and the generator parameters.
func (r *Rules) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRules)
	}
	if r.DiceFaces < 2 {
		return fmt.Errorf("%w: dice must have at least 2 faces, got %d", ErrInvalidRules, r.DiceFaces)
	}
	if r.DiceFaces >= r.BoardSize {
		return fmt.Errorf("%w: dice faces %d must be smaller than board size %d", ErrInvalidRules, r.DiceFaces, r.BoardSize)
	}
	if r.MinPlayers < engine.MinPlayers {
		return fmt.Errorf("%w: min players %d is below the hard minimum %d", ErrInvalidRules, r.MinPlayers, engine.MinPlayers)
	}
	if r.MaxPlayers > engine.MaxPlayers {
		return fmt.Errorf("%w: max players %d is above the hard maximum %d", ErrInvalidRules, r.MaxPlayers, engine.MaxPlayers)
	}
	if r.MinPlayers > r.MaxPlayers {
		return fmt.Errorf("%w: min players %d exceeds max players %d", ErrInvalidRules, r.MinPlayers, r.MaxPlayers)
	}
	if err := r.BoardParams().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRules, err)
	}
	return nil
}

// BoardParams maps the variant onto the board generator's parameter set.
func (r *Rules) BoardParams() board.Params {
	return board.Params{
		Size:              r.BoardSize,
		FeatureCountMin:   r.FeatureCountMin,
		FeatureCountMax:   r.FeatureCountMax,
		MinGap:            r.MinFeatureGap,
		PlacementAttempts: r.PlacementAttempts,
	}
}
