// Package cards loads card definitions from YAML into engine cards.
package cards

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

//go:embed core.yaml
var coreYAML []byte

// Catalog is a set of cards keyed by name. Cards are shared templates and
// must not be modified.
type Catalog struct {
	cards map[string]*game.Card
	names []string
}

// LoadEmbedded loads the built-in core catalog.
func LoadEmbedded() (*Catalog, error) {
	return Parse(coreYAML)
}

// Load reads a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card catalog %s: %w", path, err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("card catalog %s: %w", path, err)
	}
	return cat, nil
}

// LoadOrEmbedded loads path, or the built-in catalog when path is empty.
func LoadOrEmbedded(path string) (*Catalog, error) {
	if path == "" {
		return LoadEmbedded()
	}
	return Load(path)
}

// Parse decodes a catalog document. Unknown fields, unknown effect types
// and CEL expressions that do not compile are errors.
func Parse(data []byte) (*Catalog, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to decode yaml: %w", err)
	}

	predicates, err := targeting.NewRegistry()
	if err != nil {
		return nil, err
	}
	b := &builder{predicates: predicates}
	cat := &Catalog{cards: make(map[string]*game.Card, len(file.Cards))}
	for _, spec := range file.Cards {
		card, err := b.card(spec)
		if err != nil {
			return nil, err
		}
		key := strings.ToLower(card.Name)
		if _, dup := cat.cards[key]; dup {
			return nil, fmt.Errorf("card %s is defined twice", card.Name)
		}
		cat.cards[key] = card
		cat.names = append(cat.names, card.Name)
	}
	slices.Sort(cat.names)
	return cat, nil
}

// Get returns the card with the given name, ignoring case.
func (c *Catalog) Get(name string) (*game.Card, bool) {
	card, ok := c.cards[strings.ToLower(strings.TrimSpace(name))]
	return card, ok
}

// Names returns every card name in sorted order.
func (c *Catalog) Names() []string {
	return slices.Clone(c.names)
}

// Len returns the number of cards.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Deck builds a deck from lines such as "4 Grizzly Bears". A line without a
// count adds one copy.
func (c *Catalog) Deck(lines []string) ([]*game.Card, error) {
	var deck []*game.Card
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		count, name := 1, line
		if head, rest, ok := strings.Cut(line, " "); ok {
			if n, err := strconv.Atoi(head); err == nil {
				count, name = n, rest
			}
		}
		if count <= 0 {
			return nil, fmt.Errorf("bad count in deck line %q", line)
		}
		card, ok := c.Get(name)
		if !ok {
			return nil, fmt.Errorf("unknown card %q", name)
		}
		for range count {
			deck = append(deck, card)
		}
	}
	return deck, nil
}
