package vision

import (
	"errors"
	"math"
	"testing"
)

func TestNormalizeScore(t *testing.T) {
	tests := []struct {
		in   float64
		want Score
	}{
		{0, 0},
		{0.3, 0.3},
		{1, 1},
		{-0.2, 0},
		{1.7, 1},
		{math.Inf(1), 1},
	}

	for _, tt := range tests {
		got, err := NormalizeScore(tt.in)
		if err != nil {
			t.Fatalf("NormalizeScore(%v) should not error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("NormalizeScore(%v) = %v, want %v", tt.in, got, tt.want)
		}
		if got < 0 || got > 1 {
			t.Errorf("score %v out of range", got)
		}
	}
}

func TestNormalizeScore_NaN(t *testing.T) {
	if _, err := NormalizeScore(math.NaN()); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("expected ErrInvalidScore, got %v", err)
	}
}

func TestNewCascadeDetector_MissingCascade(t *testing.T) {
	_, err := NewCascadeDetector(DetectorConfig{CascadePath: "/nonexistent/cascade.xml"})
	if !errors.Is(err, ErrCascadeNotFound) {
		t.Errorf("expected ErrCascadeNotFound, got %v", err)
	}
}
