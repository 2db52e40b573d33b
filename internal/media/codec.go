package media

import (
	"errors"
	"strings"

	"github.com/pion/webrtc/v4"
)

var (
	ErrUnsupportedCodec = errors.New("unsupported video codec")
	ErrInvalidBitstream = errors.New("invalid bitstream")
	ErrPipelineClosed   = errors.New("media pipeline closed")
	ErrPipeline         = errors.New("media pipeline error")
)

type Codec string

const (
	CodecVP8  Codec = "vp8"
	CodecH264 Codec = "h264"
)

func codecOf(mimeType string) Codec {
	switch {
	case strings.EqualFold(mimeType, webrtc.MimeTypeVP8):
		return CodecVP8
	case strings.EqualFold(mimeType, webrtc.MimeTypeH264):
		return CodecH264
	default:
		return ""
	}
}

// Supported reports whether tracks of mimeType can be decoded.
func Supported(mimeType string) bool {
	return codecOf(mimeType) != ""
}
