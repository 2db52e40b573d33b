package media

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/eleven-am/maskwatch/internal/vision"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
	"github.com/tinyzimmer/go-gst/gst"
)

type EncoderConfig struct {
	Width   int
	Height  int
	FPS     int
	Bitrate int // kbit/s
}

func (c EncoderConfig) withDefaults() EncoderConfig {
	if c.FPS <= 0 {
		c.FPS = 30
	}
	if c.Bitrate <= 0 {
		c.Bitrate = 1000
	}
	return c
}

// EncoderLaunch returns the GStreamer description that encodes packed BGR
// frames of the configured size as VP8.
func EncoderLaunch(cfg EncoderConfig) (string, error) {
	cfg = cfg.withDefaults()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("%w: invalid size %dx%d", vision.ErrInvalidFrame, cfg.Width, cfg.Height)
	}

	return fmt.Sprintf(
		"appsrc name=src is-live=true do-timestamp=true format=time "+
			"caps=video/x-raw,format=BGR,width=%d,height=%d,framerate=%d/1 ! "+
			"videoconvert ! video/x-raw,format=I420 ! "+
			"vp8enc deadline=1 target-bitrate=%d keyframe-max-dist=%d ! "+
			"appsink name=sink sync=false",
		cfg.Width, cfg.Height, cfg.FPS, cfg.Bitrate*1000, cfg.FPS*2,
	), nil
}

// Encoder turns BGR frames into VP8 samples ready for a local WebRTC track.
// Sample durations follow the presentation times of the encoded frames; FPS
// only sets the nominal rate.
type Encoder struct {
	cfg      EncoderConfig
	p        *pipeline
	clock    frameClock
	onSample func(pionmedia.Sample)
}

func NewEncoder(cfg EncoderConfig, onSample func(pionmedia.Sample), logger *slog.Logger) (*Encoder, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg = cfg.withDefaults()

	launch, err := EncoderLaunch(cfg)
	if err != nil {
		return nil, err
	}

	e := &Encoder{
		cfg:      cfg,
		clock:    frameClock{nominal: time.Second / time.Duration(cfg.FPS)},
		onSample: onSample,
	}
	p, err := newPipeline(launch, e.handleSample, logger.With("component", "encoder"))
	if err != nil {
		return nil, err
	}
	e.p = p
	return e, nil
}

// Fits reports whether frame matches the size the encoder was built for.
func (e *Encoder) Fits(frame *vision.Frame) bool {
	return frame.Width == e.cfg.Width && frame.Height == e.cfg.Height
}

func (e *Encoder) Encode(frame *vision.Frame) error {
	if err := frame.Validate(); err != nil {
		return err
	}
	if !e.Fits(frame) {
		return fmt.Errorf("%w: frame %dx%d does not match encoder %dx%d",
			vision.ErrInvalidFrame, frame.Width, frame.Height, e.cfg.Width, e.cfg.Height)
	}
	return e.p.push(frame.Data, frameTimestamp(frame))
}

// frameTimestamp is the frame's presentation time, or -1 when it has none.
func frameTimestamp(frame *vision.Frame) time.Duration {
	if frame.TimeBase != VideoTimeBase {
		return -1
	}
	return ticksToDuration(frame.PTS)
}

func (e *Encoder) Close() error {
	e.p.stop()
	return nil
}

func (e *Encoder) handleSample(sample *gst.Sample) gst.FlowReturn {
	buffer := sample.GetBuffer()
	if buffer == nil {
		return gst.FlowOK
	}

	mapInfo := buffer.Map(gst.MapRead)
	data := mapInfo.Bytes()
	out := make([]byte, len(data))
	copy(out, data)
	buffer.Unmap()

	if len(out) > 0 {
		e.onSample(pionmedia.Sample{Data: out, Duration: e.clock.next(buffer.PresentationTimestamp())})
	}
	return gst.FlowOK
}
