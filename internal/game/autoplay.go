package game

import (
	"context"
	"errors"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
)

const (
	// healBelow is the health fraction under which Auto uses an item.
	healBelow = 0.3
	// maxRounds bounds a battle where neither side can deal damage.
	maxRounds = 1000
)

// ErrStalemate is returned when an automatic battle does not end within maxRounds.
var ErrStalemate = errors.New("game: battle did not resolve")

// Auto plays a session to the end: heal when health is below 30%, otherwise
// attack the first enemy. Every step is passed to observe, which may be nil.
func Auto(ctx context.Context, s *combat.Session, observe func(combat.ActionResult)) (combat.Outcome, error) {
	if observe == nil {
		observe = func(combat.ActionResult) {}
	}

	for round := 0; round < maxRounds; round++ {
		if out, ok := s.Outcome(); ok {
			return out, nil
		}
		if err := ctx.Err(); err != nil {
			return combat.Outcome{}, err
		}

		var res combat.ActionResult
		var err error
		if p := s.Player(); float64(p.Health) < healBelow*float64(p.MaxHealth) {
			res, err = s.UseItem(ctx)
		} else {
			res, err = s.Attack(ctx, 0)
		}
		if err != nil {
			return combat.Outcome{}, err
		}
		observe(res)

		for s.State() == combat.StateEnemyTurn {
			step, err := s.NextEnemyStep(ctx)
			if err != nil {
				return combat.Outcome{}, err
			}
			observe(step)
		}
	}

	if out, ok := s.Outcome(); ok {
		return out, nil
	}
	return combat.Outcome{}, ErrStalemate
}
