package rules

import (
	"fmt"
	"strings"
)

// Phase represents the broad phases of a turn.
type Phase int

const (
	PhaseBeginning Phase = iota
	PhasePrecombatMain
	PhaseCombat
	PhasePostcombatMain
	PhaseEnding
)

var phaseNames = map[Phase]string{
	PhaseBeginning:      "BEGINNING",
	PhasePrecombatMain:  "PRECOMBAT_MAIN",
	PhaseCombat:         "COMBAT",
	PhasePostcombatMain: "POSTCOMBAT_MAIN",
	PhaseEnding:         "ENDING",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// Step represents the individual steps that comprise a turn.
type Step int

const (
	StepUntap Step = iota
	StepUpkeep
	StepDraw
	StepMain1
	StepBeginCombat
	StepDeclareAttackers
	StepDeclareBlockers
	StepFirstStrikeDamage
	StepCombatDamage
	StepEndCombat
	StepMain2
	StepEnd
	StepCleanup
)

var stepNames = map[Step]string{
	StepUntap:             "UNTAP",
	StepUpkeep:            "UPKEEP",
	StepDraw:              "DRAW",
	StepMain1:             "MAIN1",
	StepBeginCombat:       "BEGIN_COMBAT",
	StepDeclareAttackers:  "DECLARE_ATTACKERS",
	StepDeclareBlockers:   "DECLARE_BLOCKERS",
	StepFirstStrikeDamage: "FIRST_STRIKE_DAMAGE",
	StepCombatDamage:      "COMBAT_DAMAGE",
	StepEndCombat:         "END_COMBAT",
	StepMain2:             "MAIN2",
	StepEnd:               "END",
	StepCleanup:           "CLEANUP",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// IsMain reports whether sorcery-speed actions may happen in this step.
func (s Step) IsMain() bool {
	return s == StepMain1 || s == StepMain2
}

// GivesPriority reports whether players receive priority during the step.
// Nobody gets priority during untap or cleanup.
func (s Step) GivesPriority() bool {
	return s != StepUntap && s != StepCleanup
}

type turnEntry struct {
	phase Phase
	step  Step
}

// baseTurnSequence is the default turn structure without first strike damage step
var baseTurnSequence = []turnEntry{
	{PhaseBeginning, StepUntap},
	{PhaseBeginning, StepUpkeep},
	{PhaseBeginning, StepDraw},
	{PhasePrecombatMain, StepMain1},
	{PhaseCombat, StepBeginCombat},
	{PhaseCombat, StepDeclareAttackers},
	{PhaseCombat, StepDeclareBlockers},
	{PhaseCombat, StepCombatDamage},
	{PhaseCombat, StepEndCombat},
	{PhasePostcombatMain, StepMain2},
	{PhaseEnding, StepEnd},
	{PhaseEnding, StepCleanup},
}

// buildTurnSequence creates the turn sequence, inserting StepFirstStrikeDamage
// before regular combat damage when hasFirstStrike is true.
func buildTurnSequence(hasFirstStrike bool) []turnEntry {
	sequence := make([]turnEntry, 0, len(baseTurnSequence)+1)
	for _, entry := range baseTurnSequence {
		if hasFirstStrike && entry.step == StepCombatDamage {
			sequence = append(sequence, turnEntry{PhaseCombat, StepFirstStrikeDamage})
		}
		sequence = append(sequence, entry)
	}
	return sequence
}

// TurnManager tracks the active player and turn progression.
type TurnManager struct {
	orderIndex     int
	turnNumber     int
	activePlayer   string
	sequence       []turnEntry
	hasFirstStrike bool
}

// NewTurnManager creates a new turn manager initialized at turn 1, untap step.
func NewTurnManager(activePlayer string) *TurnManager {
	return &TurnManager{
		turnNumber:   1,
		activePlayer: strings.TrimSpace(activePlayer),
		sequence:     buildTurnSequence(false),
	}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return tm.sequence[tm.orderIndex].phase
}

// CurrentStep returns the step currently in progress.
func (tm *TurnManager) CurrentStep() Step {
	return tm.sequence[tm.orderIndex].step
}

// TurnNumber returns the current turn number (1-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	return tm.activePlayer
}

// AdvanceStep advances to the next step in the turn structure.
// When the end of the structure is reached, the turn number is incremented
// and the active player is rotated to nextActivePlayer if provided.
// It reports whether a new turn began.
func (tm *TurnManager) AdvanceStep(nextActivePlayer string) (Step, bool) {
	tm.orderIndex++
	if tm.orderIndex < len(tm.sequence) {
		return tm.CurrentStep(), false
	}
	tm.orderIndex = 0
	tm.turnNumber++
	if next := strings.TrimSpace(nextActivePlayer); next != "" {
		tm.activePlayer = next
	}
	tm.sequence = buildTurnSequence(false)
	tm.hasFirstStrike = false
	return tm.CurrentStep(), true
}

// SkipTo moves forward within the current turn to step. It returns false and
// leaves the position unchanged when step is not ahead in this turn.
func (tm *TurnManager) SkipTo(step Step) bool {
	for idx := tm.orderIndex + 1; idx < len(tm.sequence); idx++ {
		if tm.sequence[idx].step == step {
			tm.orderIndex = idx
			return true
		}
	}
	return false
}

// SetHasFirstStrike inserts or removes the first strike damage step. It must
// be called before combat damage begins; the current position is kept.
func (tm *TurnManager) SetHasFirstStrike(hasFirstStrike bool) {
	if tm.hasFirstStrike == hasFirstStrike {
		return
	}
	current := tm.CurrentStep()
	tm.sequence = buildTurnSequence(hasFirstStrike)
	tm.hasFirstStrike = hasFirstStrike
	for idx, entry := range tm.sequence {
		if entry.step == current {
			tm.orderIndex = idx
			return
		}
	}
}

// HasFirstStrike reports whether this turn includes a first strike damage step.
func (tm *TurnManager) HasFirstStrike() bool {
	return tm.hasFirstStrike
}

// Sequence returns the steps of the current turn in order.
func (tm *TurnManager) Sequence() []Step {
	steps := make([]Step, len(tm.sequence))
	for i, entry := range tm.sequence {
		steps[i] = entry.step
	}
	return steps
}
