package cards

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/magefree/mage-duel-go/internal/config"
	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/effects"
	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)
	assert.Greater(t, cat.Len(), 40)

	names := cat.Names()
	assert.True(t, slices.IsSorted(names))

	bolt, ok := cat.Get("lightning bolt")
	require.True(t, ok)
	assert.Equal(t, "Lightning Bolt", bolt.Name)
	assert.Equal(t, "lightning-bolt", bolt.ID)
	assert.Equal(t, []mana.Color{mana.Red}, bolt.Colors)
	require.NotNil(t, bolt.Target)
	assert.Equal(t, targeting.TargetTypeAny, bolt.Target.Type)
	assert.Equal(t, []game.Effect{game.DealDamage{Target: 0, Amount: 3}}, bolt.Effects[game.SlotSpell])

	angel, ok := cat.Get("Serra Angel")
	require.True(t, ok)
	assert.Equal(t, []effects.Keyword{effects.Flying, effects.Vigilance}, angel.Keywords)

	rancor, ok := cat.Get("Rancor")
	require.True(t, ok)
	assert.True(t, rancor.IsAura())
	assert.Len(t, rancor.Statics, 2)

	garruk, ok := cat.Get("Garruk, Wild Caller")
	require.True(t, ok)
	require.Len(t, garruk.Abilities, 3)
	assert.Equal(t, game.AbilityLoyalty, garruk.Abilities[1].Kind)
	assert.Equal(t, -1, garruk.Abilities[1].Loyalty)
	assert.Equal(t, 3, garruk.Loyalty)

	_, ok = cat.Get("Black Lotus")
	assert.False(t, ok)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown effect type",
			yaml: "cards:\n  - name: Oops\n    types: [Sorcery]\n    effects:\n      spell: [{type: explode}]\n",
			want: `unknown effect type "explode"`,
		},
		{
			name: "invalid CEL",
			yaml: "cards:\n  - name: Oops\n    types: [Instant]\n    target: {type: creature, predicate: \"target.power >=\"}\n",
			want: "CEL compile error",
		},
		{
			name: "non boolean predicate",
			yaml: "cards:\n  - name: Oops\n    types: [Instant]\n    target: {type: creature, predicate: \"1 + 2\"}\n",
			want: "must be boolean",
		},
		{
			name: "invalid search predicate",
			yaml: "cards:\n  - name: Oops\n    types: [Sorcery]\n    effects:\n      spell: [{type: search_library, predicate: \"'Land' in\"}]\n",
			want: "CEL compile error",
		},
		{
			name: "unknown keyword",
			yaml: "cards:\n  - name: Oops\n    types: [Creature]\n    keywords: [banding]\n",
			want: `unknown keyword "banding"`,
		},
		{
			name: "unknown slot",
			yaml: "cards:\n  - name: Oops\n    types: [Creature]\n    effects:\n      cast: [{type: draw_cards, count: 1}]\n",
			want: `unknown effect slot "cast"`,
		},
		{
			name: "unknown field",
			yaml: "cards:\n  - name: Oops\n    types: [Creature]\n    flavor: tasty\n",
			want: "field flavor not found",
		},
		{
			name: "bad cost",
			yaml: "cards:\n  - name: Oops\n    cost: \"{Q}\"\n    types: [Creature]\n",
			want: "unknown mana symbol",
		},
		{
			name: "duplicate card",
			yaml: "cards:\n  - name: Twin\n    types: [Land]\n  - name: twin\n    types: [Land]\n",
			want: "defined twice",
		},
		{
			name: "aura without target",
			yaml: "cards:\n  - name: Floating Aura\n    types: [Enchantment]\n    subtypes: [Aura]\n",
			want: "needs an enchant target",
		},
		{
			name: "return to library",
			yaml: "cards:\n  - name: Oops\n    types: [Sorcery]\n    effects:\n      spell: [{type: return_from_graveyard, destination: library}]\n",
			want: "cards return to hand or battlefield",
		},
		{
			name: "mana ability with target",
			yaml: "cards:\n  - name: Odd Land\n    types: [Land]\n    abilities:\n      - kind: mana\n        target: {type: any}\n",
			want: "mana abilities cannot target",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseNestedEffects(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	growth, ok := cat.Get("Rampant Growth")
	require.True(t, ok)
	spell := growth.Effects[game.SlotSpell]
	require.Len(t, spell, 1)
	may, ok := spell[0].(game.May)
	require.True(t, ok)
	require.Len(t, may.Effects, 1)
	search, ok := may.Effects[0].(game.SearchLibrary)
	require.True(t, ok)
	assert.Equal(t, game.ZoneBattlefield, search.Destination)
	assert.True(t, search.Tapped)
	assert.True(t, search.Shuffle)

	garruk, _ := cat.Get("Garruk, Wild Caller")
	token, ok := garruk.Abilities[0].Effects[0].(game.CreateToken)
	require.True(t, ok)
	assert.Equal(t, "Beast", token.Token.Name)
	assert.True(t, token.Token.Token)
	assert.Equal(t, 3, token.Token.Power)
}

func TestParseZoneAndControlEffects(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	tests := []struct {
		card string
		want []game.Effect
	}{
		{"Scour from Existence", []game.Effect{game.Exile{Target: 0}}},
		{"Raise Dead", []game.Effect{game.ReturnFromGraveyard{Predicate: "'Creature' in target.types", Destination: game.ZoneHand}}},
		{"Zombify", []game.Effect{game.ReturnFromGraveyard{Predicate: "'Creature' in target.types", Destination: game.ZoneBattlefield}}},
		{"Blatant Thievery", []game.Effect{game.GainControl{Target: 0}}},
		{"Twincast", []game.Effect{game.CopySpell{Target: 0}}},
		{"Redirect", []game.Effect{game.ChangeTarget{Target: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.card, func(t *testing.T) {
			card, ok := cat.Get(tt.card)
			require.True(t, ok)
			assert.Equal(t, tt.want, card.Effects[game.SlotSpell])
		})
	}

	threaten, _ := cat.Get("Threaten")
	spell := threaten.Effects[game.SlotSpell]
	require.Len(t, spell, 3)
	assert.Equal(t, game.Untap{Target: 0}, spell[0])
	assert.Equal(t, game.GainControl{Target: 0, UntilEndOfTurn: true}, spell[1])

	crypt, _ := cat.Get("Tormod's Crypt")
	require.Len(t, crypt.Abilities, 1)
	assert.True(t, crypt.Abilities[0].SacrificeSelf)
	assert.Equal(t, []game.Effect{game.ExileGraveyard{Target: 0}}, crypt.Abilities[0].Effects)

	village, _ := cat.Get("Treetop Village")
	require.Len(t, village.Abilities, 2)
	assert.Equal(t, game.AbilityMana, village.Abilities[0].Kind)
	assert.Equal(t, game.AbilityActivated, village.Abilities[1].Kind)
}

func TestDeck(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	deck, err := cat.Deck([]string{"3 Forest", "Grizzly Bears", "", "2 llanowar elves"})
	require.NoError(t, err)
	require.Len(t, deck, 6)
	assert.Equal(t, "Forest", deck[0].Name)
	assert.Equal(t, "Grizzly Bears", deck[3].Name)
	assert.Same(t, deck[4], deck[5])

	_, err = cat.Deck([]string{"4 Black Lotus"})
	assert.ErrorContains(t, err, "unknown card")
	_, err = cat.Deck([]string{"0 Forest"})
	assert.ErrorContains(t, err, "bad count")
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cards.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cards:\n  - name: Wastes\n    types: [Land]\n    supertypes: [Basic]\n"), 0o600))

	cat, err := LoadOrEmbedded(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Wastes"}, cat.Names())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "failed to read card catalog")

	embedded, err := LoadOrEmbedded("")
	require.NoError(t, err)
	assert.Greater(t, embedded.Len(), 1)
}

func TestCatalogCardsPlay(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)
	deck, err := cat.Deck([]string{"20 Lightning Bolt"})
	require.NoError(t, err)

	cfg := config.Default().Engine
	cfg.Mulligan = false
	e, err := game.NewEngine(zaptest.NewLogger(t), cfg, []game.PlayerSetup{
		{ID: "alice", Deck: deck},
		{ID: "bob", Deck: deck},
	})
	require.NoError(t, err)

	alice := e.Data().Players[0]
	require.Len(t, alice.Hand, 7)
	alice.Pool.Add(mana.Red, 1)

	require.NoError(t, e.CastSpell("alice", game.CastRequest{CardID: alice.Hand[0].ID, Targets: []string{"bob"}}))
	require.NoError(t, e.PassPriority("alice"))
	require.NoError(t, e.PassPriority("bob"))

	assert.Equal(t, 17, e.Data().Players[1].Life)
	assert.Len(t, alice.Graveyard, 1)
}

func TestSampleDecks(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	assert.Equal(t, []string{"green", "red"}, SampleDeckNames())
	for _, name := range SampleDeckNames() {
		deck, err := cat.SampleDeck(name)
		require.NoError(t, err, name)
		assert.Len(t, deck, 40, name)
	}
	_, err = cat.SampleDeck("blue")
	assert.Error(t, err)
}

func TestNewMatch(t *testing.T) {
	cat, err := LoadEmbedded()
	require.NoError(t, err)

	cfg := config.Default()
	e, err := cat.NewMatch(zaptest.NewLogger(t), cfg)
	require.NoError(t, err)
	view := e.View()
	require.Len(t, view.Players, 2)
	assert.Equal(t, "alice", view.Players[0].ID)
	assert.Equal(t, 7, view.Players[0].Hand)
	assert.Equal(t, 33, view.Players[1].Library)
	pending := e.Pending()
	require.NotNil(t, pending)
	assert.Equal(t, game.InteractionMulligan, pending.Kind)
	assert.Equal(t, "alice", pending.PlayerID)

	cfg.Match.Decks = []string{"green", "purple"}
	_, err = cat.NewMatch(zaptest.NewLogger(t), cfg)
	assert.ErrorContains(t, err, "unknown sample deck")
}
