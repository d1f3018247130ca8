package cards

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game"
)

// sampleDecks are the 40-card decks used by the demo commands.
var sampleDecks = map[string][]string{
	"green": {
		"17 Forest",
		"4 Llanowar Elves",
		"4 Grizzly Bears",
		"4 River Boa",
		"4 Giant Growth",
		"3 Rampant Growth",
		"2 Colossal Dreadmaw",
		"2 Rancor",
	},
	"red": {
		"17 Mountain",
		"4 Goblin Guide",
		"4 Boggart Brute",
		"4 Lightning Bolt",
		"4 Shock",
		"3 Prodigal Pyromancer",
		"2 Lava Axe",
		"2 Blaze",
	},
}

// SampleDeckNames lists the sample decks.
func SampleDeckNames() []string {
	names := make([]string, 0, len(sampleDecks))
	for name := range sampleDecks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SampleDeck builds a named sample deck from the catalog.
func (c *Catalog) SampleDeck(name string) ([]*game.Card, error) {
	lines, ok := sampleDecks[name]
	if !ok {
		return nil, fmt.Errorf("unknown sample deck %q", name)
	}
	return c.Deck(lines)
}

// NewMatch starts a duel between the configured players with their sample decks.
func (c *Catalog) NewMatch(logger *zap.Logger, cfg *config.Config) (*game.Engine, error) {
	setups := make([]game.PlayerSetup, 0, len(cfg.Match.Players))
	for i, id := range cfg.Match.Players {
		if i >= len(cfg.Match.Decks) {
			return nil, fmt.Errorf("no deck for player %s", id)
		}
		deck, err := c.SampleDeck(cfg.Match.Decks[i])
		if err != nil {
			return nil, err
		}
		setups = append(setups, game.PlayerSetup{ID: id, Deck: deck})
	}
	return game.NewEngine(logger, cfg.Engine, setups)
}
