package game

import (
	"github.com/magefree/mage-duel-go/internal/game/effects"
)

// View is a read-only summary of the game for clients.
type View struct {
	GameID         string           `json:"game_id"`
	Turn           int              `json:"turn"`
	Step           string           `json:"step"`
	ActivePlayer   string           `json:"active_player"`
	PriorityPlayer string           `json:"priority_player"`
	Players        []PlayerView     `json:"players"`
	Battlefield    []PermanentView  `json:"battlefield"`
	Stack          []StackEntryView `json:"stack"`
	Interaction    *InteractionView `json:"interaction,omitempty"`
	Log            []string         `json:"log"`
	GameOver       bool             `json:"game_over"`
	Winner         string           `json:"winner,omitempty"`
}

// PlayerView summarizes one player.
type PlayerView struct {
	ID        string         `json:"id"`
	Life      int            `json:"life"`
	Library   int            `json:"library"`
	Hand      int            `json:"hand"`
	Graveyard int            `json:"graveyard"`
	Exile     int            `json:"exile"`
	ManaPool  map[string]int `json:"mana_pool,omitempty"`
	Mulligans int            `json:"mulligans,omitempty"`
	Lost      bool           `json:"lost,omitempty"`
}

// PermanentView summarizes one permanent with its current characteristics.
type PermanentView struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Controller string         `json:"controller"`
	Types      []string       `json:"types"`
	Power      int            `json:"power"`
	Toughness  int            `json:"toughness"`
	Damage     int            `json:"damage,omitempty"`
	Loyalty    int            `json:"loyalty,omitempty"`
	Keywords   []string       `json:"keywords,omitempty"`
	Colors     []string       `json:"colors,omitempty"`
	Counters   map[string]int `json:"counters,omitempty"`
	Tapped     bool           `json:"tapped,omitempty"`
	Attacking  bool           `json:"attacking,omitempty"`
	Blocking   []string       `json:"blocking,omitempty"`
	AttachedTo string         `json:"attached_to,omitempty"`
}

// StackEntryView summarizes one stack entry. The first entry is the top.
type StackEntryView struct {
	ID          string `json:"id"`
	Kind        string `json:"kind"`
	Controller  string `json:"controller"`
	Description string `json:"description"`
}

// View builds a snapshot of the current game.
func (e *Engine) View() View {
	d := e.data
	v := View{
		GameID:         d.ID,
		Turn:           d.Turn.TurnNumber(),
		Step:           d.Turn.CurrentStep().String(),
		ActivePlayer:   d.Turn.ActivePlayer(),
		PriorityPlayer: e.PriorityPlayer(),
		Interaction:    d.Interaction.view(),
		GameOver:       d.GameOver,
		Winner:         d.Winner,
	}
	for _, player := range d.Players {
		pv := PlayerView{
			ID:        player.ID,
			Life:      player.Life,
			Library:   len(player.Library),
			Hand:      len(player.Hand),
			Graveyard: len(player.Graveyard),
			Exile:     len(player.Exile),
			Mulligans: player.Mulligans,
			Lost:      player.Lost,
		}
		if amounts := player.Pool.Amounts(); len(amounts) > 0 {
			pv.ManaPool = make(map[string]int, len(amounts))
			for c, n := range amounts {
				pv.ManaPool[string(c)] = n
			}
		}
		v.Players = append(v.Players, pv)
	}
	for _, p := range d.Battlefield {
		v.Battlefield = append(v.Battlefield, e.permanentView(p))
	}
	entries := d.Stack.List()
	for i := len(entries) - 1; i >= 0; i-- {
		entry := entries[i]
		v.Stack = append(v.Stack, StackEntryView{
			ID:          entry.ID,
			Kind:        string(entry.Kind),
			Controller:  entry.Controller,
			Description: entry.Description,
		})
	}
	for _, l := range d.Log {
		v.Log = append(v.Log, l.Text)
	}
	return v
}

func (e *Engine) permanentView(p *Permanent) PermanentView {
	snap := e.Characteristics(p)
	pv := PermanentView{
		ID:         p.ID,
		Name:       snap.Name,
		Controller: p.Controller,
		Types:      snap.Types,
		Power:      snap.Power,
		Toughness:  snap.Toughness,
		Damage:     p.Damage,
		Loyalty:    p.Loyalty(),
		Keywords:   keywordNames(snap.Keywords),
		Colors:     colorNames(snap.Colors),
		Tapped:     p.Tapped,
		Attacking:  p.Attacking,
		Blocking:   p.Blocking,
		AttachedTo: p.AttachedTo,
	}
	for _, t := range p.Counters.Types() {
		if pv.Counters == nil {
			pv.Counters = make(map[string]int)
		}
		pv.Counters[string(t)] = p.Counters.Get(t)
	}
	return pv
}

func keywordNames(kws []effects.Keyword) []string {
	out := make([]string, len(kws))
	for i, kw := range kws {
		out[i] = string(kw)
	}
	return out
}
