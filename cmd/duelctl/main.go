// Command duelctl inspects the card catalog and plays scripted duels.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/cards"
	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:   "duelctl",
		Short: "Two-player duel rules engine tools",
		Long: `duelctl loads the card catalog and runs duels through the rules engine.
Settings come from an optional YAML file and DUEL_* environment variables.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to configuration file")

	env := func() (*config.Config, *zap.Logger, *cards.Catalog, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, nil, nil, err
		}
		logger, err := logging.New(cfg.Logging, "duelctl")
		if err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		catalog, err := cards.LoadOrEmbedded(cfg.Cards.Path)
		if err != nil {
			return nil, nil, nil, err
		}
		return cfg, logger, catalog, nil
	}

	root.AddCommand(newCardsCmd(env), newDemoCmd(env), newVersionCmd())
	return root
}

type envFunc func() (*config.Config, *zap.Logger, *cards.Catalog, error)
