package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCardsCmd(env envFunc) *cobra.Command {
	var deck string
	cmd := &cobra.Command{
		Use:   "cards",
		Short: "List the cards in the catalog",
		Long:  `Lists every card in the catalog, or the cards of one sample deck with --deck.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, _, catalog, err := env()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if deck != "" {
				list, err := catalog.SampleDeck(deck)
				if err != nil {
					return err
				}
				counts := make(map[string]int)
				var order []string
				for _, c := range list {
					if counts[c.Name] == 0 {
						order = append(order, c.Name)
					}
					counts[c.Name]++
				}
				for _, name := range order {
					fmt.Fprintf(out, "%2d %s\n", counts[name], name)
				}
				return nil
			}
			for _, name := range catalog.Names() {
				c, _ := catalog.Get(name)
				fmt.Fprintf(out, "%-28s %-12s %s\n", c.Name, c.ManaCost(), strings.Join(c.Types, " "))
			}
			fmt.Fprintf(out, "%d cards\n", catalog.Len())
			return nil
		},
	}
	cmd.Flags().StringVar(&deck, "deck", "", "list a sample deck instead of the catalog")
	return cmd
}
