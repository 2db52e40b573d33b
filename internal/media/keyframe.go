package media

import (
	"bytes"
	"fmt"

	"golang.org/x/image/vp8"
)

// VP8Header is the part of a VP8 frame header needed to gate decoding.
type VP8Header struct {
	KeyFrame bool
	Width    int
	Height   int
}

// ProbeVP8 parses the frame header of a complete VP8 frame.
func ProbeVP8(data []byte) (VP8Header, error) {
	if len(data) < 3 {
		return VP8Header{}, fmt.Errorf("%w: vp8 frame too short (%d bytes)", ErrInvalidBitstream, len(data))
	}

	// interframes carry only the 3-byte tag
	if data[0]&0x01 != 0 {
		return VP8Header{}, nil
	}

	d := vp8.NewDecoder()
	d.Init(bytes.NewReader(data), len(data))

	fh, err := d.DecodeFrameHeader()
	if err != nil {
		return VP8Header{}, fmt.Errorf("%w: %v", ErrInvalidBitstream, err)
	}
	if fh.KeyFrame && (fh.Width == 0 || fh.Height == 0) {
		return VP8Header{}, fmt.Errorf("%w: keyframe with zero dimensions", ErrInvalidBitstream)
	}

	return VP8Header{KeyFrame: fh.KeyFrame, Width: fh.Width, Height: fh.Height}, nil
}

// IsKeyframe reports whether a depacketized frame can start a decode.
// H264 access units must be in Annex-B form.
func IsKeyframe(mimeType string, data []byte) bool {
	switch codecOf(mimeType) {
	case CodecVP8:
		h, err := ProbeVP8(data)
		return err == nil && h.KeyFrame
	case CodecH264:
		return h264HasIDR(data)
	default:
		return false
	}
}

func h264HasIDR(data []byte) bool {
	for i := 0; i+3 < len(data); i++ {
		if data[i] != 0 || data[i+1] != 0 {
			continue
		}
		var nal byte
		switch {
		case data[i+2] == 1:
			nal = data[i+3]
		case data[i+2] == 0 && i+4 < len(data) && data[i+3] == 1:
			nal = data[i+4]
		default:
			continue
		}
		switch nal & 0x1f {
		case 5, 7:
			return true
		}
	}
	return false
}
