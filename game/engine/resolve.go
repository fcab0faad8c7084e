package engine

import "fmt"

// Resolve turns a roll into the player's new authoritative position and
// advances or finishes the game. The caller validates turn ownership and
// phase first; Resolve only applies the movement rules:
//
//  1. A roll past the final square is an overshoot: the player stays put and
//     the turn still advances.
//  2. Otherwise the player lands on from+roll, then a descender or ascender
//     at the landing square teleports them. The feature sets are disjoint by
//     construction, the descender check simply runs first.
//  3. Reaching the final square wins and finishes the game; the turn is not
//     advanced past a finished game.
func Resolve(g *Game, p *Player, roll int) (*MoveOutcome, error) {
	if g.Status != GameInProgress {
		return nil, ErrGameNotInProgress
	}

	from := p.Position
	candidate := from + roll

	out := &MoveOutcome{
		Roll: roll,
		From: from,
		To:   candidate,
	}

	if candidate > g.Board.Size {
		out.To = from
		out.Final = from
		out.Kind = OutcomeOvershoot
		out.Message = fmt.Sprintf("Roll of %d goes past square %d, staying at %d", roll, g.Board.Size, from)
		g.appendMove(p, out)
		if err := g.AdvanceTurn(); err != nil {
			return nil, err
		}
		return out, nil
	}

	p.Position = candidate

	if target, ok := g.Board.DescenderTargetAt(candidate); ok {
		p.Position = target
		out.Final = target
		out.Kind = OutcomeDescender
		out.Message = fmt.Sprintf("Hit a descender! Slid from %d down to %d", candidate, target)
	} else if target, ok := g.Board.AscenderTargetAt(candidate); ok {
		p.Position = target
		out.Final = target
		out.Kind = OutcomeAscender
		out.Message = fmt.Sprintf("Caught an ascender! Climbed from %d up to %d", candidate, target)
	} else {
		out.Final = candidate
		out.Kind = OutcomeNormal
		out.Message = fmt.Sprintf("Moved from %d to %d", from, candidate)
	}

	if p.Position >= g.Board.Size {
		out.Kind = OutcomeWin
		out.Winner = true
		out.Message = fmt.Sprintf("Reached square %d and won the game!", g.Board.Size)
		g.appendMove(p, out)
		if err := g.finish(p); err != nil {
			return nil, err
		}
		return out, nil
	}

	g.appendMove(p, out)
	if err := g.AdvanceTurn(); err != nil {
		return nil, err
	}
	return out, nil
}

// Surrender marks the seat as surrendered and resolves the aftermath: when
// exactly one Playing seat remains it wins and the game finishes; otherwise,
// if the surrendering seat held the turn, the turn advances with the usual
// skip logic so the next roll is accepted from the right player.
func Surrender(g *Game, p *Player) (*SurrenderOutcome, error) {
	if g.Status != GameInProgress {
		return nil, ErrGameNotInProgress
	}

	heldTurn := g.IsPlayersTurn(p.ID)

	if err := p.transitionTo(PlayerSurrendered); err != nil {
		return nil, err
	}

	playing := g.PlayingPlayers()
	if len(playing) == 1 {
		winner := playing[0]
		if err := g.finish(winner); err != nil {
			return nil, err
		}
		return &SurrenderOutcome{Finished: true, Winner: winner}, nil
	}

	if heldTurn {
		if err := g.AdvanceTurn(); err != nil {
			return nil, err
		}
	}
	return &SurrenderOutcome{}, nil
}
