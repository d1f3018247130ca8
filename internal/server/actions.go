// Package server runs one duel behind a websocket endpoint.
package server

import (
	"errors"
	"fmt"

	"github.com/magefree/mage-duel-go/internal/game"
	"github.com/magefree/mage-duel-go/internal/game/mana"
)

// Action types accepted from clients.
const (
	ActionPass             = "pass"
	ActionPlayLand         = "play_land"
	ActionCast             = "cast"
	ActionActivate         = "activate"
	ActionActivateMana     = "activate_mana"
	ActionDeclareAttackers = "declare_attackers"
	ActionDeclareBlockers  = "declare_blockers"
	ActionAssignDamage     = "assign_damage"
	ActionMay              = "may"
	ActionChooseColor      = "choose_color"
	ActionChooseCards      = "choose_cards"
	ActionChoosePermanent  = "choose_permanent"
	ActionChoosePermanents = "choose_permanents"
	ActionSearchLibrary    = "search_library"
	ActionReorderLibrary   = "reorder_library"
	ActionMulligan         = "mulligan"
	ActionChooseTarget     = "choose_target"
)

// Action is one client request. Which fields matter depends on Type.
type Action struct {
	Type string `json:"type"`

	CardID      string   `json:"card_id,omitempty"`
	PermanentID string   `json:"permanent_id,omitempty"`
	Index       int      `json:"index,omitempty"`
	Targets     []string `json:"targets,omitempty"`
	X           int      `json:"x,omitempty"`
	Convoke     []string `json:"convoke,omitempty"`
	IDs         []string `json:"ids,omitempty"`
	Accept      bool     `json:"accept,omitempty"`
	Color       string   `json:"color,omitempty"`
	TargetID    string   `json:"target_id,omitempty"`

	Attacks     []AttackRequest     `json:"attacks,omitempty"`
	Blocks      []BlockRequest      `json:"blocks,omitempty"`
	AttackerID  string              `json:"attacker_id,omitempty"`
	Assignments []AssignmentRequest `json:"assignments,omitempty"`
}

type AttackRequest struct {
	AttackerID string `json:"attacker_id"`
	Target     string `json:"target"`
}

type BlockRequest struct {
	BlockerID  string `json:"blocker_id"`
	AttackerID string `json:"attacker_id"`
}

type AssignmentRequest struct {
	TargetID string `json:"target_id"`
	Amount   int    `json:"amount"`
}

// ErrUnknownAction is returned for an action type the server does not know.
var ErrUnknownAction = errors.New("unknown action")

// Apply performs a on behalf of playerID.
func Apply(e *game.Engine, playerID string, a Action) error {
	switch a.Type {
	case ActionPass:
		return e.PassPriority(playerID)
	case ActionPlayLand:
		return e.PlayLand(playerID, a.CardID)
	case ActionCast:
		return e.CastSpell(playerID, game.CastRequest{CardID: a.CardID, Targets: a.Targets, X: a.X, Convoke: a.Convoke})
	case ActionActivate:
		return e.ActivateAbility(playerID, a.PermanentID, a.Index, a.Targets, a.X)
	case ActionActivateMana:
		return e.ActivateManaAbility(playerID, a.PermanentID, a.Index)
	case ActionDeclareAttackers:
		attacks := make([]game.Attack, 0, len(a.Attacks))
		for _, atk := range a.Attacks {
			attacks = append(attacks, game.Attack{AttackerID: atk.AttackerID, Target: atk.Target})
		}
		return e.DeclareAttackers(playerID, attacks)
	case ActionDeclareBlockers:
		blocks := make([]game.Block, 0, len(a.Blocks))
		for _, b := range a.Blocks {
			blocks = append(blocks, game.Block{BlockerID: b.BlockerID, AttackerID: b.AttackerID})
		}
		return e.DeclareBlockers(playerID, blocks)
	case ActionAssignDamage:
		assignments := make([]game.DamageAssignment, 0, len(a.Assignments))
		for _, as := range a.Assignments {
			assignments = append(assignments, game.DamageAssignment{TargetID: as.TargetID, Amount: as.Amount})
		}
		return e.AssignCombatDamage(playerID, a.AttackerID, assignments)
	case ActionMay:
		return e.HandleMayAbility(playerID, a.Accept)
	case ActionChooseColor:
		color, err := mana.ParseColor(a.Color)
		if err != nil {
			return err
		}
		return e.HandleColorChoice(playerID, color)
	case ActionChooseCards:
		return e.HandleCardChoice(playerID, a.IDs)
	case ActionChoosePermanent:
		return e.HandlePermanentChoice(playerID, a.PermanentID)
	case ActionChoosePermanents:
		return e.HandleMultiPermanentChoice(playerID, a.IDs)
	case ActionSearchLibrary:
		return e.HandleLibrarySearch(playerID, a.CardID)
	case ActionReorderLibrary:
		return e.HandleLibraryReorder(playerID, a.IDs)
	case ActionMulligan:
		return e.HandleMulligan(playerID, a.Accept)
	case ActionChooseTarget:
		return e.HandleTargetChoice(playerID, a.TargetID)
	}
	return fmt.Errorf("%w %q", ErrUnknownAction, a.Type)
}
