package game

import (
	"context"
	"fmt"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
)

// FloorReport summarizes one automatically played floor.
type FloorReport struct {
	Floor    int
	Rooms    int
	Steps    int
	Battles  []combat.Outcome
	Boss     bool // A boss battle was fought at the exit
	Defeated bool
}

// Descend enters floor n and walks the shortest route from the start to the
// exit, resolving random encounters with Auto along the way. With boss set,
// the boss battle is fought on reaching the exit.
func (g *Game) Descend(ctx context.Context, n int, boss bool, observe func(combat.ActionResult)) (FloorReport, error) {
	layout, err := g.EnterFloor(ctx, n)
	if err != nil {
		return FloorReport{}, err
	}
	report := FloorReport{Floor: n, Rooms: len(layout.Rooms)}

	fight := func(start func(context.Context) (*combat.Session, error)) error {
		session, err := start(ctx)
		if err != nil {
			return err
		}
		if _, err := Auto(ctx, session, observe); err != nil {
			return err
		}
		out, err := g.Finish(ctx)
		if err != nil {
			return err
		}
		report.Battles = append(report.Battles, out)
		report.Defeated = out.Result == combat.ResultDefeat
		return nil
	}

	path := layout.Path(g.player.Position, layout.Spawns.Exit)
	for _, p := range path {
		hit, err := g.Move(p)
		if err != nil {
			return report, fmt.Errorf("game: walking floor %d: %w", n, err)
		}
		report.Steps++
		if !hit {
			continue
		}
		if err := fight(g.StartRandomEncounter); err != nil {
			return report, err
		}
		if report.Defeated {
			return report, nil
		}
	}

	if boss {
		report.Boss = true
		if err := fight(g.StartBossEncounter); err != nil {
			return report, err
		}
	}
	return report, nil
}
