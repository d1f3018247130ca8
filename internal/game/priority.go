package game

import (
	"go.uber.org/zap"
)

// PassPriority passes priority. When every player has passed in
// succession the top of the stack resolves, or the game moves to the next
// step if the stack is empty.
func (e *Engine) PassPriority(playerID string) error {
	if err := e.checkAction(playerID); err != nil {
		return e.rejected("pass", playerID, err)
	}

	e.logger.Debug("priority passed",
		zap.String("player_id", playerID),
		zap.Int("stack_size", e.data.Stack.Len()),
	)
	if e.data.Priority.Pass() {
		if e.data.Stack.IsEmpty() {
			e.advance()
		} else {
			e.resolveTop()
		}
	}
	e.settle()
	return nil
}

// PriorityPlayer returns the player who may act next. While a decision is
// pending this is the player who has to make it.
func (e *Engine) PriorityPlayer() string {
	if e.data.Interaction != nil {
		return e.data.Interaction.PlayerID
	}
	return e.data.Priority.Holder()
}

// sorcerySpeed reports whether playerID may take a sorcery-speed action now.
func (e *Engine) sorcerySpeed(playerID string) bool {
	return e.data.Turn.ActivePlayer() == playerID &&
		e.data.Turn.CurrentStep().IsMain() &&
		e.data.Stack.IsEmpty()
}
