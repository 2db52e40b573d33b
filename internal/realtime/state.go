package realtime

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInvalidOffer      = errors.New("invalid offer")
)

type State int

const (
	StateNew State = iota
	StateHasOffer
	StateHasAnswer
	StateConnected
	StateClosed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateHasOffer:
		return "has_offer"
	case StateHasAnswer:
		return "has_answer"
	case StateConnected:
		return "connected"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed
}

// CanTransition reports whether a session in s may move to next.
func (s State) CanTransition(next State) bool {
	if s.Terminal() {
		return false
	}
	switch next {
	case StateClosed, StateFailed:
		return true
	case StateHasOffer:
		return s == StateNew
	case StateHasAnswer:
		return s == StateHasOffer
	case StateConnected:
		return s == StateHasAnswer
	default:
		return false
	}
}
