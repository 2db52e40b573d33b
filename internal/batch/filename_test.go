package batch

import (
	"errors"
	"testing"
)

func TestSplitFilename(t *testing.T) {
	tests := []struct {
		in, base, ext string
	}{
		{"photo.jpg", "photo", "jpg"},
		{"PHOTO.PNG", "PHOTO", "png"},
		{"clip.tar.mp4", "clip.tar", "mp4"},
		{"dir/sub/clip.MP4", "clip", "mp4"},
		{`C:\Users\me\face.jpg`, "face", "jpg"},
		{"noext", "noext", ""},
		{".hidden", ".hidden", ""},
		{"trailing.", "trailing", ""},
	}

	for _, tt := range tests {
		base, ext := SplitFilename(tt.in)
		if base != tt.base || ext != tt.ext {
			t.Errorf("SplitFilename(%q) = (%q, %q), want (%q, %q)", tt.in, base, ext, tt.base, tt.ext)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		ok   bool
	}{
		{"a.jpg", KindImage, true},
		{"a.JPG", KindImage, true},
		{"a.png", KindImage, true},
		{"a.mp4", KindVideo, true},
		{"a.jpeg", "", false},
		{"a.txt", "", false},
		{"mp4", "", false},
		{"a.mp4.txt", "", false},
	}

	for _, tt := range tests {
		kind, _, err := Classify(tt.name)
		if tt.ok {
			if err != nil || kind != tt.kind {
				t.Errorf("Classify(%q) = %q, %v", tt.name, kind, err)
			}
			continue
		}

		var verr *ValidationError
		if !errors.As(err, &verr) || !errors.Is(err, ErrUnsupportedExtension) {
			t.Errorf("Classify(%q) expected ValidationError, got %v", tt.name, err)
		}
	}
}

func TestOutputName(t *testing.T) {
	if got := outputName("holiday.png"); got != "holiday_output" {
		t.Errorf("outputName = %q", got)
	}
}
