package game

import (
	"slices"

	"github.com/magefree/mage-duel-go/internal/game/mana"
	"github.com/magefree/mage-duel-go/internal/game/rules"
	"github.com/magefree/mage-duel-go/internal/game/targeting"
)

// Zone names where a card can be.
type Zone string

const (
	ZoneLibrary     Zone = "library"
	ZoneHand        Zone = "hand"
	ZoneBattlefield Zone = "battlefield"
	ZoneGraveyard   Zone = "graveyard"
	ZoneExile       Zone = "exile"
	ZoneStack       Zone = "stack"
)

// CardInstance is one physical card outside the battlefield.
type CardInstance struct {
	ID    string
	Card  *Card
	Owner string
}

// Player holds one player's zones and resources. The top of the library is index 0.
type Player struct {
	ID        string
	Life      int
	Library   []*CardInstance
	Hand      []*CardInstance
	Graveyard []*CardInstance
	Exile     []*CardInstance
	Pool      *mana.ManaPool
	Mulligans int

	Lost       bool
	LossReason string
	// drewFromEmpty records an attempted draw from an empty library.
	drewFromEmpty bool
}

// Zone returns the cards in a non-battlefield zone.
func (p *Player) Zone(z Zone) []*CardInstance {
	switch z {
	case ZoneLibrary:
		return p.Library
	case ZoneHand:
		return p.Hand
	case ZoneGraveyard:
		return p.Graveyard
	case ZoneExile:
		return p.Exile
	}
	return nil
}

func (p *Player) setZone(z Zone, cards []*CardInstance) {
	switch z {
	case ZoneLibrary:
		p.Library = cards
	case ZoneHand:
		p.Hand = cards
	case ZoneGraveyard:
		p.Graveyard = cards
	case ZoneExile:
		p.Exile = cards
	default:
		invariant(false, "player zone %q is not a card list", z)
	}
}

// take removes a card by id from a zone.
func (p *Player) take(z Zone, id string) (*CardInstance, bool) {
	cards := p.Zone(z)
	idx := slices.IndexFunc(cards, func(c *CardInstance) bool { return c.ID == id })
	if idx < 0 {
		return nil, false
	}
	card := cards[idx]
	p.setZone(z, slices.Delete(slices.Clone(cards), idx, idx+1))
	return card, true
}

// find returns a card by id from a zone without removing it.
func (p *Player) find(z Zone, id string) *CardInstance {
	for _, c := range p.Zone(z) {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// TargetKind says what a Target refers to.
type TargetKind string

const (
	TargetPermanent TargetKind = "permanent"
	TargetPlayer    TargetKind = "player"
	TargetStack     TargetKind = "stack"
)

// Target is one chosen target. StackIndex counts from the bottom of the stack.
type Target struct {
	Kind       TargetKind
	ID         string
	StackIndex int
}

// StackEntry is one spell or ability waiting to resolve.
type StackEntry struct {
	ID         string
	Kind       rules.StackItemKind
	Card       *Card
	Instance   *CardInstance // the spell card itself; nil for abilities
	SourceID   string        // permanent id of an ability's source
	Controller string
	Targets    []Target
	// Requirement is re-checked against Targets at resolution.
	Requirement *targeting.TargetRequirement
	X           int
	Effects     []Effect
	Description string
}

// LogEntry is one line of the game log.
type LogEntry struct {
	Turn int
	Step rules.Step
	Text string
}

// GameData is the complete state of one match.
type GameData struct {
	ID             string
	Players        []*Player
	StartingPlayer string
	// Battlefield holds both players' permanents in the order they entered.
	Battlefield []*Permanent
	Stack       *rules.Stack[*StackEntry]
	Turn        *rules.TurnManager
	Priority    *rules.PriorityTracker
	Log         []LogEntry
	Interaction *Interaction

	GameOver bool
	Winner   string
}
