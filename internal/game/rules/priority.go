package rules

import (
	"fmt"
	"slices"
)

// PriorityTracker records who holds priority and how many players have
// passed in a row. Any action other than a pass resets the run of passes.
type PriorityTracker struct {
	players []string
	holder  int
	passes  int
}

// NewPriorityTracker creates a tracker for players in seat order.
func NewPriorityTracker(players []string, holder string) (*PriorityTracker, error) {
	if len(players) == 0 {
		return nil, fmt.Errorf("priority tracker needs at least one player")
	}
	pt := &PriorityTracker{players: slices.Clone(players)}
	if err := pt.Reset(holder); err != nil {
		return nil, err
	}
	return pt, nil
}

// Holder returns the player who currently has priority.
func (pt *PriorityTracker) Holder() string {
	return pt.players[pt.holder]
}

// Reset gives priority to player and clears the passes.
func (pt *PriorityTracker) Reset(player string) error {
	idx := slices.Index(pt.players, player)
	if idx < 0 {
		return fmt.Errorf("unknown player %q", player)
	}
	pt.holder = idx
	pt.passes = 0
	return nil
}

// Acted records that the holder took an action. The holder keeps priority.
func (pt *PriorityTracker) Acted() {
	pt.passes = 0
}

// Pass hands priority to the next player. It reports true once every player
// has passed in succession.
func (pt *PriorityTracker) Pass() bool {
	pt.passes++
	pt.holder = (pt.holder + 1) % len(pt.players)
	return pt.passes >= len(pt.players)
}

// Passes returns the length of the current run of passes.
func (pt *PriorityTracker) Passes() int {
	return pt.passes
}
