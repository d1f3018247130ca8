package game

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a rejected player action.
type ErrorCode string

const (
	CodeNotYourPriority    ErrorCode = "not_your_priority"
	CodeWrongTiming        ErrorCode = "wrong_timing"
	CodeCannotPay          ErrorCode = "cannot_pay"
	CodeIllegalTarget      ErrorCode = "illegal_target"
	CodeNotFound           ErrorCode = "not_found"
	CodeInteractionPending ErrorCode = "interaction_pending"
	CodeGameOver           ErrorCode = "game_over"
	CodeInvalidChoice      ErrorCode = "invalid_choice"
	CodeIllegalAttack      ErrorCode = "illegal_attack"
	CodeIllegalBlock       ErrorCode = "illegal_block"
)

// ActionError is returned when a player action is rejected. A rejected
// action never changes game state.
type ActionError struct {
	Code    ErrorCode
	Message string
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func reject(code ErrorCode, format string, args ...any) *ActionError {
	return &ActionError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsCode reports whether err is an ActionError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *ActionError
	return errors.As(err, &ae) && ae.Code == code
}

// invariant panics when an internal contract is broken. These states are not
// reachable through validated actions.
func invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(fmt.Sprintf("game invariant violated: "+format, args...))
	}
}
