package media

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/tinyzimmer/go-gst/gst"
)

// DecoderLaunch returns the GStreamer description that turns encoded frames
// of mimeType into packed BGR pictures.
func DecoderLaunch(mimeType string) (string, error) {
	var caps, decode string
	switch codecOf(mimeType) {
	case CodecVP8:
		caps = "video/x-vp8"
		decode = "vp8dec"
	case CodecH264:
		caps = "video/x-h264,stream-format=byte-stream,alignment=au"
		decode = "h264parse ! avdec_h264"
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCodec, mimeType)
	}

	return fmt.Sprintf(
		"appsrc name=src is-live=true format=time caps=%s ! %s ! "+
			"videoconvert ! video/x-raw,format=BGR ! "+
			"appsink name=sink sync=false max-buffers=2 drop=true",
		caps, decode,
	), nil
}

// Decoder feeds encoded frames into GStreamer and hands decoded BGR frames to
// onFrame on a GStreamer streaming thread. Frames keep the presentation time
// of the encoded frame they came from, in VideoTimeBase ticks.
type Decoder struct {
	p       *pipeline
	onFrame func(*vision.Frame)
	decoded atomic.Uint64
	lastPTS atomic.Int64
}

func NewDecoder(mimeType string, onFrame func(*vision.Frame), logger *slog.Logger) (*Decoder, error) {
	if logger == nil {
		logger = slog.Default()
	}

	launch, err := DecoderLaunch(mimeType)
	if err != nil {
		return nil, err
	}

	d := &Decoder{onFrame: onFrame}
	p, err := newPipeline(launch, d.handleSample, logger.With("component", "decoder", "mime_type", mimeType))
	if err != nil {
		return nil, err
	}
	d.p = p
	return d, nil
}

// Decode queues one encoded frame whose presentation time is pts ticks.
func (d *Decoder) Decode(data []byte, pts int64) error {
	if len(data) == 0 {
		return fmt.Errorf("%w: empty frame", ErrInvalidBitstream)
	}
	d.lastPTS.Store(pts)
	return d.p.push(data, ticksToDuration(pts))
}

func (d *Decoder) Decoded() uint64 {
	return d.decoded.Load()
}

func (d *Decoder) Close() error {
	d.p.stop()
	return nil
}

func (d *Decoder) handleSample(sample *gst.Sample) gst.FlowReturn {
	width, height, ok := sampleSize(sample)
	if !ok {
		d.p.logger.Warn("decoded sample without size caps")
		return gst.FlowOK
	}

	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	if len(data) < width*height*3 {
		buffer.Unmap()
		d.p.logger.Warn("decoded buffer shorter than frame", "bytes", len(data), "width", width, "height", height)
		return gst.FlowOK
	}

	frameData := make([]byte, width*height*3)
	copy(frameData, data)
	buffer.Unmap()

	pts := d.lastPTS.Load()
	if ts := buffer.PresentationTimestamp(); ts >= 0 {
		pts = durationToTicks(ts)
	}

	d.decoded.Add(1)
	d.onFrame(&vision.Frame{
		Data:     frameData,
		Width:    width,
		Height:   height,
		Format:   vision.PixelFormatBGR24,
		PTS:      pts,
		TimeBase: VideoTimeBase,
	})
	return gst.FlowOK
}

func sampleSize(sample *gst.Sample) (int, int, bool) {
	caps := sample.GetCaps()
	if caps == nil || caps.GetSize() == 0 {
		return 0, 0, false
	}
	s := caps.GetStructureAt(0)
	w, err := s.GetValue("width")
	if err != nil {
		return 0, 0, false
	}
	h, err := s.GetValue("height")
	if err != nil {
		return 0, 0, false
	}
	width, wok := w.(int)
	height, hok := h.(int)
	if !wok || !hok || width <= 0 || height <= 0 {
		return 0, 0, false
	}
	return width, height, true
}
