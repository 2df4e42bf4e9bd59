package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/storage"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recorded encounters",
	Long: `Display the most recent encounters and a tally of outcomes.

Examples:
  dungeoncrawler history
  dungeoncrawler history --limit 50`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "Number of encounters to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	records, err := store.RecentEncounters(ctx, flagLimit)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Recent Encounters")
	fmt.Fprintln(out)

	if len(records) == 0 {
		fmt.Fprintln(out, "No encounters recorded yet.")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Play 'dungeoncrawler battle' or 'dungeoncrawler run' to record some!")
		return nil
	}

	fmt.Fprintf(out, "  %-16s  %-5s  %-8s  %-8s  %-4s  %-5s  %s\n", "Date", "Floor", "Class", "Outcome", "HP", "Turns", "Enemies")
	fmt.Fprintf(out, "  %-16s  %-5s  %-8s  %-8s  %-4s  %-5s  %s\n", "----", "-----", "-----", "-------", "--", "-----", "-------")
	for _, r := range records {
		fmt.Fprintf(out, "  %-16s  %-5d  %-8s  %-8s  %-4d  %-5d  %s\n",
			r.CreatedAt.Format("2006-01-02 15:04"), r.Floor, r.Class, r.Outcome, r.PlayerHealth, r.Turns,
			strings.Join(r.Enemies, ", "))
	}

	counts, err := store.OutcomeCounts(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Victories: %d  Defeats: %d  Escapes: %d\n", counts["victory"], counts["defeat"], counts["fled"])
	return nil
}
