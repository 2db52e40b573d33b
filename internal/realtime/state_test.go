package realtime

import "testing"

func TestState_CanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateNew, StateHasOffer, true},
		{StateHasOffer, StateHasAnswer, true},
		{StateHasAnswer, StateConnected, true},
		{StateConnected, StateFailed, true},
		{StateConnected, StateClosed, true},
		{StateNew, StateClosed, true},
		{StateHasOffer, StateFailed, true},
		{StateNew, StateHasAnswer, false},
		{StateNew, StateConnected, false},
		{StateHasOffer, StateHasOffer, false},
		{StateConnected, StateHasOffer, false},
		{StateClosed, StateClosed, false},
		{StateFailed, StateClosed, false},
		{StateClosed, StateHasOffer, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestState_String(t *testing.T) {
	if StateHasAnswer.String() != "has_answer" {
		t.Errorf("unexpected %q", StateHasAnswer.String())
	}
	if State(42).String() != "state(42)" {
		t.Errorf("unexpected %q", State(42).String())
	}
	text, _ := StateConnected.MarshalText()
	if string(text) != "connected" {
		t.Errorf("unexpected text %q", text)
	}
}

func TestState_Terminal(t *testing.T) {
	for _, s := range []State{StateNew, StateHasOffer, StateHasAnswer, StateConnected} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
	if !StateClosed.Terminal() || !StateFailed.Terminal() {
		t.Error("closed and failed should be terminal")
	}
}
