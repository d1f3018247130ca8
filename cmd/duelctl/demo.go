package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDemoCmd(env envFunc) *cobra.Command {
	var (
		turns int
		seed  uint64
	)
	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Play a scripted duel between the sample decks",
		Long: `Starts a match with the configured players and sample decks, lets the
autopilot play both seats and prints the game log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, catalog, err := env()
			if err != nil {
				return err
			}
			defer logger.Sync()
			if cmd.Flags().Changed("seed") {
				cfg.Engine.Seed = seed
			}

			e, err := catalog.NewMatch(logger, cfg)
			if err != nil {
				return err
			}
			runErr := newAutopilot(e, logger).run(turns)

			out := cmd.OutOrStdout()
			for _, l := range e.Data().Log {
				fmt.Fprintf(out, "T%-3d %-18s %s\n", l.Turn, l.Step, l.Text)
			}
			view := e.View()
			for _, p := range view.Players {
				fmt.Fprintf(out, "%s: %d life, %d cards in hand\n", p.ID, p.Life, p.Hand)
			}
			switch {
			case view.GameOver && view.Winner != "":
				fmt.Fprintf(out, "%s wins\n", view.Winner)
			case view.GameOver:
				fmt.Fprintln(out, "the game is a draw")
			default:
				fmt.Fprintf(out, "no winner after %d turns\n", turns)
			}
			return runErr
		},
	}
	cmd.Flags().IntVar(&turns, "turns", 20, "stop after this many turns")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "override the engine seed")
	return cmd
}
