package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/gamedata"
)

var classesCmd = &cobra.Command{
	Use:   "classes",
	Short: "List playable classes",
	Long:  `Shows every playable class with its starting stats.`,
	RunE:  runClasses,
}

func runClasses(cmd *cobra.Command, args []string) error {
	registry, err := gamedata.LoadClassRegistry()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Playable classes:")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-8s  %-12s  %4s  %4s  %4s  %4s\n", "ID", "Name", "HP", "ATK", "DEF", "SPD")
	fmt.Fprintf(out, "  %-8s  %-12s  %4s  %4s  %4s  %4s\n", "--", "----", "--", "---", "---", "---")
	for _, c := range registry.All() {
		fmt.Fprintf(out, "  %-8s  %-12s  %4d  %4d  %4d  %4d\n", c.ID, c.Name, c.HP, c.Attack, c.Defense, c.Speed)
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Unknown classes fall back to %q.\n", gamedata.DefaultClassID)
	return nil
}
