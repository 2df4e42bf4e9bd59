package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/game"
)

var (
	flagFloors   int
	flagRunClass string
	flagVerbose  bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Play floors end-to-end",
	Long: `Walk each floor from the start to the exit, resolving random encounters
automatically, and fight the boss at the exit of the last floor. The player
keeps their health between floors; a defeat ends the run.

Examples:
  dungeoncrawler run
  dungeoncrawler run --floors 5 --class beast --seed 3`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&flagFloors, "floors", 3, "Number of floors to play")
	runCmd.Flags().StringVar(&flagRunClass, "class", "fighter", "Player class")
	runCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print every battle step")
}

func runRun(cmd *cobra.Command, args []string) error {
	if flagFloors < 1 {
		return fmt.Errorf("--floors must be at least 1, got %d", flagFloors)
	}

	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	g, err := newGame(flagRunClass, store)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var observe func(combat.ActionResult)
	if flagVerbose {
		observe = printStep(out)
	}

	p := g.Player()
	fmt.Fprintf(out, "%s descends (seed %d)\n", p.Name, g.Seed())
	fmt.Fprintln(out)

	for floor := 1; floor <= flagFloors; floor++ {
		report, err := g.Descend(cmd.Context(), floor, floor == flagFloors, observe)
		if err != nil {
			return err
		}
		printReport(out, report, p.Health, p.MaxHealth)
		if report.Defeated {
			fmt.Fprintln(out)
			fmt.Fprintf(out, "%s fell on floor %d.\n", p.Name, floor)
			return nil
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Cleared %d floors: %d victories, %d escapes, %d/%d HP left\n",
		flagFloors, p.Victories, p.Escapes, p.Health, p.MaxHealth)
	return nil
}

func printReport(out io.Writer, r game.FloorReport, health, maxHealth int) {
	victories, escapes := 0, 0
	for _, b := range r.Battles {
		switch b.Result {
		case combat.ResultVictory:
			victories++
		case combat.ResultFled:
			escapes++
		}
	}
	boss := ""
	if r.Boss {
		boss = "  boss fought"
	}
	fmt.Fprintf(out, "Floor %d: %d rooms, %d steps, %d battles (%d won, %d fled)%s  HP %d/%d\n",
		r.Floor, r.Rooms, r.Steps, len(r.Battles), victories, escapes, boss, health, maxHealth)
}
