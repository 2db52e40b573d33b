package media

import (
	"errors"
	"strings"
	"testing"

	"github.com/eleven-am/maskwatch/internal/vision"
)

func TestDecoderLaunch(t *testing.T) {
	tests := []struct {
		mime    string
		wantSub []string
	}{
		{"video/VP8", []string{"caps=video/x-vp8", "vp8dec", "format=BGR", "appsink name=sink"}},
		{"video/H264", []string{"video/x-h264", "avdec_h264", "format=BGR", "appsrc name=src"}},
	}

	for _, tt := range tests {
		t.Run(tt.mime, func(t *testing.T) {
			launch, err := DecoderLaunch(tt.mime)
			if err != nil {
				t.Fatalf("DecoderLaunch should not error: %v", err)
			}
			for _, sub := range tt.wantSub {
				if !strings.Contains(launch, sub) {
					t.Errorf("launch %q missing %q", launch, sub)
				}
			}
		})
	}
}

func TestDecoderLaunch_Unsupported(t *testing.T) {
	if _, err := DecoderLaunch("video/AV1"); !errors.Is(err, ErrUnsupportedCodec) {
		t.Errorf("expected ErrUnsupportedCodec, got %v", err)
	}
}

func TestEncoderLaunch(t *testing.T) {
	launch, err := EncoderLaunch(EncoderConfig{Width: 640, Height: 480})
	if err != nil {
		t.Fatalf("EncoderLaunch should not error: %v", err)
	}
	for _, sub := range []string{"width=640", "height=480", "framerate=30/1", "vp8enc deadline=1", "target-bitrate=1000000"} {
		if !strings.Contains(launch, sub) {
			t.Errorf("launch %q missing %q", launch, sub)
		}
	}
}

func TestEncoderLaunch_InvalidSize(t *testing.T) {
	if _, err := EncoderLaunch(EncoderConfig{}); !errors.Is(err, vision.ErrInvalidFrame) {
		t.Errorf("expected ErrInvalidFrame, got %v", err)
	}
}
