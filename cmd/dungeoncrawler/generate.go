package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/game"
	"github.com/samdwyer/dungeoncrawler/internal/storage"
)

var flagFloor int

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a dungeon floor and print it",
	Long: `Generate one floor with the configured room settings and print it as ASCII.

Legend: # wall, . floor, @ start, > exit, e enemy, $ treasure

Examples:
  dungeoncrawler generate
  dungeoncrawler generate --floor 3 --seed 42`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().IntVar(&flagFloor, "floor", 1, "Floor number (scales the enemy count)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	g, err := newGame("", store)
	if err != nil {
		return err
	}

	layout, err := g.EnterFloor(cmd.Context(), flagFloor)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprint(out, layout.ASCII())
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Floor %d  seed %d\n", layout.Floor, g.FloorSeed(flagFloor))
	fmt.Fprintf(out, "Rooms:     %d/%d placed", len(layout.Rooms), layout.Requested)
	if layout.Skipped > 0 {
		fmt.Fprintf(out, " (%d skipped)", layout.Skipped)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Tiles:     %d floor, %d wall\n", layout.FloorCount(), layout.WallCount())
	fmt.Fprintf(out, "Enemies:   %d spawn points\n", len(layout.Spawns.Enemies))
	fmt.Fprintf(out, "Treasure:  %d spawn points\n", len(layout.Spawns.Treasures))
	fmt.Fprintf(out, "Start %v  Exit %v\n", layout.Spawns.Player, layout.Spawns.Exit)
	return nil
}

// newGame creates a game from the global flags and loaded settings.
func newGame(class string, store *storage.Store) (*game.Game, error) {
	cfg := game.Config{
		Seed:     flagSeed,
		Class:    class,
		Settings: settings,
		Logger:   logger,
	}
	if store != nil {
		cfg.History = store
	}
	return game.New(cfg)
}
