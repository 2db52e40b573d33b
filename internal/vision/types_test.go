package vision

import (
	"errors"
	"testing"
)

func TestFrame_Validate(t *testing.T) {
	tests := []struct {
		name    string
		frame   Frame
		wantErr bool
	}{
		{"valid", Frame{Data: make([]byte, 4*2*3), Width: 4, Height: 2, Format: PixelFormatBGR24}, false},
		{"zero width", Frame{Width: 0, Height: 2, Format: PixelFormatBGR24}, true},
		{"short buffer", Frame{Data: make([]byte, 5), Width: 4, Height: 2, Format: PixelFormatBGR24}, true},
		{"unknown format", Frame{Data: make([]byte, 8), Width: 4, Height: 2, Format: "yuv420p"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.frame.Validate()
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidFrame) {
					t.Errorf("expected ErrInvalidFrame, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFrame_Clone(t *testing.T) {
	f := &Frame{Data: []byte{1, 2, 3}, Width: 1, Height: 1, Format: PixelFormatBGR24, PTS: 42}
	c := f.Clone()
	c.Data[0] = 9

	if f.Data[0] != 1 {
		t.Error("clone should not share pixel data")
	}
	if c.PTS != 42 {
		t.Errorf("expected PTS 42, got %d", c.PTS)
	}
}

func TestScore_Protected(t *testing.T) {
	if !Score(0.49).Protected() {
		t.Error("0.49 should be protected")
	}
	if Score(0.5).Protected() {
		t.Error("0.5 should not be protected")
	}
	if Score(1).Protected() {
		t.Error("1 should not be protected")
	}
}

func TestScore_Percentages(t *testing.T) {
	s := Score(0.25)
	if got := s.ProtectedPercent(); got != 75 {
		t.Errorf("expected 75, got %v", got)
	}
	if got := s.UnprotectedPercent(); got != 25 {
		t.Errorf("expected 25, got %v", got)
	}
}
