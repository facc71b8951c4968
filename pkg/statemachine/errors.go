package statemachine

import (
	"errors"
	"fmt"
)

// ErrNoTransitionAvailable indicates the table does not allow moving between two known states.
type ErrNoTransitionAvailable struct {
	From string
	To   string
}

func (e *ErrNoTransitionAvailable) Error() string {
	return fmt.Sprintf("no transition available from state '%s' to state '%s'", e.From, e.To)
}

func NewErrNoTransitionAvailable(from, to string) *ErrNoTransitionAvailable {
	return &ErrNoTransitionAvailable{From: from, To: to}
}

// ErrUnknownState indicates a state that was never declared in the table.
type ErrUnknownState struct {
	State string
}

func (e *ErrUnknownState) Error() string {
	return fmt.Sprintf("unknown state '%s'", e.State)
}

func NewErrUnknownState(state string) *ErrUnknownState {
	return &ErrUnknownState{State: state}
}

func IsNoTransitionAvailableError(err error) bool {
	var e *ErrNoTransitionAvailable
	return errors.As(err, &e)
}

func IsUnknownStateError(err error) bool {
	var e *ErrUnknownState
	return errors.As(err, &e)
}
