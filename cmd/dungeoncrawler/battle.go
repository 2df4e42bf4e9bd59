package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samdwyer/dungeoncrawler/internal/combat"
	"github.com/samdwyer/dungeoncrawler/internal/game"
)

var (
	flagClass   string
	flagEnemies []string
	flagBoss    bool
)

var battleCmd = &cobra.Command{
	Use:   "battle",
	Short: "Auto-play a single battle",
	Long: `Start one battle and play it automatically: heal below 30% health,
otherwise attack the first enemy. Without --enemies a random group is drawn.

Examples:
  dungeoncrawler battle --class knight
  dungeoncrawler battle --class thief --enemies goblin,orc --seed 7
  dungeoncrawler battle --boss`,
	RunE: runBattle,
}

func init() {
	battleCmd.Flags().StringVar(&flagClass, "class", "fighter", "Player class")
	battleCmd.Flags().StringSliceVar(&flagEnemies, "enemies", nil, "Enemy ids (comma separated)")
	battleCmd.Flags().BoolVar(&flagBoss, "boss", false, "Fight the boss group")
}

func runBattle(cmd *cobra.Command, args []string) error {
	store := openHistory()
	if store != nil {
		defer store.Close()
	}

	g, err := newGame(flagClass, store)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	var session *combat.Session
	switch {
	case flagBoss:
		session, err = g.StartBossEncounter(ctx)
	case len(flagEnemies) > 0:
		session, err = g.StartEncounter(ctx, flagEnemies...)
	default:
		session, err = g.StartRandomEncounter(ctx)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	printRoster(out, session)

	if _, err := game.Auto(ctx, session, printStep(out)); err != nil {
		return err
	}
	result, err := g.Finish(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Result: %s after %d turns, %s at %d/%d HP\n",
		result.Result, session.Turn(), g.Player().Name, g.Player().Health, g.Player().MaxHealth)
	return nil
}

func printRoster(out io.Writer, s *combat.Session) {
	p := s.Player()
	names := make([]string, 0, len(s.Enemies()))
	for _, e := range s.Enemies() {
		names = append(names, fmt.Sprintf("%s (%d HP)", e.Name, e.Health))
	}
	fmt.Fprintf(out, "%s (%d/%d HP) vs %s\n", p.Name, p.Health, p.MaxHealth, strings.Join(names, ", "))
	fmt.Fprintln(out)
}

func printStep(out io.Writer) func(combat.ActionResult) {
	return func(res combat.ActionResult) {
		fmt.Fprintf(out, "  %s\n", res.Message)
		if res.Outcome != nil {
			fmt.Fprintf(out, "  => %s\n", res.Outcome.Result)
		}
	}
}
