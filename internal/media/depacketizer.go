package media

import (
	"fmt"

	"github.com/pion/rtp"
	"github.com/pion/rtp/codecs"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/pion/webrtc/v4/pkg/media/samplebuilder"
)

const (
	videoClockRate = 90000
	maxLatePackets = 128
)

// Depacketizer reassembles RTP packets of one video track into complete
// encoded frames.
type Depacketizer struct {
	mimeType string
	builder  *samplebuilder.SampleBuilder

	packets uint64
	frames  uint64
}

func NewDepacketizer(mimeType string) (*Depacketizer, error) {
	var depacketizer rtp.Depacketizer
	switch codecOf(mimeType) {
	case CodecVP8:
		depacketizer = &codecs.VP8Packet{}
	case CodecH264:
		depacketizer = &codecs.H264Packet{}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCodec, mimeType)
	}

	return &Depacketizer{
		mimeType: mimeType,
		builder:  samplebuilder.New(maxLatePackets, depacketizer, videoClockRate),
	}, nil
}

func (d *Depacketizer) MimeType() string {
	return d.mimeType
}

// Push adds a packet and returns every frame it completed, oldest first.
func (d *Depacketizer) Push(pkt *rtp.Packet) []*pionmedia.Sample {
	if pkt == nil {
		return nil
	}
	d.packets++
	d.builder.Push(pkt)

	var out []*pionmedia.Sample
	for {
		sample := d.builder.Pop()
		if sample == nil {
			break
		}
		d.frames++
		out = append(out, sample)
	}
	return out
}

func (d *Depacketizer) Counts() (packets, frames uint64) {
	return d.packets, d.frames
}
