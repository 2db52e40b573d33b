package realtime

import (
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eleven-am/maskwatch/internal/media"
	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/pion/rtp"
	pionmedia "github.com/pion/webrtc/v4/pkg/media"
)

const keyframeRequestInterval = time.Second

// Transformer draws mask overlays onto a decoded frame in place.
type Transformer interface {
	Transform(frame *vision.Frame) ([]vision.Detection, error)
}

type frameDecoder interface {
	// Decode takes one encoded frame and its presentation time in
	// media.VideoTimeBase ticks.
	Decode(data []byte, pts int64) error
	Close() error
}

type frameEncoder interface {
	Encode(frame *vision.Frame) error
	Fits(frame *vision.Frame) bool
	Close() error
}

type sampleWriter interface {
	WriteSample(s pionmedia.Sample) error
}

type (
	decoderFactory func(mimeType string, onFrame func(*vision.Frame)) (frameDecoder, error)
	encoderFactory func(cfg media.EncoderConfig, onSample func(pionmedia.Sample)) (frameEncoder, error)
)

type SinkStats struct {
	Packets     uint64 `json:"packets"`
	FramesIn    uint64 `json:"frames_in"`
	Transformed uint64 `json:"transformed"`
	Dropped     uint64 `json:"dropped"`
	Failed      uint64 `json:"failed"`
	Faces       uint64 `json:"faces"`
}

type SinkConfig struct {
	MimeType    string
	Pool        *vision.Pool
	Transformer Transformer
	Output      sampleWriter
	Encoder     media.EncoderConfig
	// RequestKeyframe is called while waiting for the first decodable frame.
	RequestKeyframe func()
	Logger          *slog.Logger

	newDecoder decoderFactory
	newEncoder encoderFactory
}

// Sink runs one incoming video track through decode, transform and encode and
// writes the result to its paired output track.
type Sink struct {
	cfg    SinkConfig
	logger *slog.Logger

	depack  *media.Depacketizer
	clock   media.RTPClock
	decoder frameDecoder
	mailbox *vision.Mailbox

	encMu   sync.Mutex
	encoder frameEncoder

	gotKeyframe  bool
	lastKeyframe time.Time

	packets     atomic.Uint64
	framesIn    atomic.Uint64
	transformed atomic.Uint64
	dropped     atomic.Uint64
	failed      atomic.Uint64
	faces       atomic.Uint64

	wg       sync.WaitGroup
	done     chan struct{}
	stopOnce sync.Once
}

func NewSink(cfg SinkConfig) (*Sink, error) {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	logger := cfg.Logger.With("component", "sink", "mime_type", cfg.MimeType)

	if cfg.newDecoder == nil {
		cfg.newDecoder = func(mimeType string, onFrame func(*vision.Frame)) (frameDecoder, error) {
			return media.NewDecoder(mimeType, onFrame, logger)
		}
	}
	if cfg.newEncoder == nil {
		cfg.newEncoder = func(ec media.EncoderConfig, onSample func(pionmedia.Sample)) (frameEncoder, error) {
			return media.NewEncoder(ec, onSample, logger)
		}
	}

	depack, err := media.NewDepacketizer(cfg.MimeType)
	if err != nil {
		return nil, err
	}

	s := &Sink{
		cfg:     cfg,
		logger:  logger,
		depack:  depack,
		mailbox: vision.NewMailbox(),
		done:    make(chan struct{}),
	}

	decoder, err := cfg.newDecoder(cfg.MimeType, s.handleFrame)
	if err != nil {
		return nil, err
	}
	s.decoder = decoder

	s.wg.Add(1)
	go s.dispatch()

	return s, nil
}

// Run reads packets until the track ends, then stops the sink.
func (s *Sink) Run(read func() (*rtp.Packet, error)) {
	defer s.Stop()

	for {
		select {
		case <-s.done:
			return
		default:
		}

		pkt, err := read()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("track read ended", "error", err)
			}
			return
		}
		s.HandlePacket(pkt)
	}
}

// HandlePacket feeds one RTP packet. Not safe for concurrent use.
func (s *Sink) HandlePacket(pkt *rtp.Packet) {
	s.packets.Add(1)

	for _, sample := range s.depack.Push(pkt) {
		pts := s.clock.Ticks(sample.PacketTimestamp)
		if !s.gotKeyframe {
			if !media.IsKeyframe(s.cfg.MimeType, sample.Data) {
				s.requestKeyframe()
				continue
			}
			s.gotKeyframe = true
			s.logger.Debug("first keyframe received")
		}

		if err := s.decoder.Decode(sample.Data, pts); err != nil {
			s.logger.Warn("decode failed", "error", err)
		}
	}
}

func (s *Sink) requestKeyframe() {
	if s.cfg.RequestKeyframe == nil {
		return
	}
	now := time.Now()
	if now.Sub(s.lastKeyframe) < keyframeRequestInterval {
		return
	}
	s.lastKeyframe = now
	s.cfg.RequestKeyframe()
}

func (s *Sink) handleFrame(frame *vision.Frame) {
	s.framesIn.Add(1)
	if s.mailbox.Put(frame) {
		s.dropped.Add(1)
	}
}

func (s *Sink) dispatch() {
	defer s.wg.Done()

	for {
		frame := s.mailbox.Take()
		if frame == nil {
			return
		}

		finished := make(chan struct{})
		err := s.cfg.Pool.Submit(func() {
			defer close(finished)
			s.process(frame)
		})
		if err != nil {
			s.dropped.Add(1)
			if errors.Is(err, vision.ErrPoolClosed) {
				return
			}
			continue
		}

		select {
		case <-finished:
		case <-s.done:
			return
		}
	}
}

func (s *Sink) process(frame *vision.Frame) {
	detections, err := s.cfg.Transformer.Transform(frame)
	if err != nil {
		s.failed.Add(1)
		s.logger.Warn("frame transform failed", "error", err)
		return
	}
	s.transformed.Add(1)
	s.faces.Add(uint64(len(detections)))

	encoder, err := s.encoderFor(frame)
	if errors.Is(err, media.ErrPipelineClosed) {
		return
	}
	if err != nil {
		s.failed.Add(1)
		s.logger.Error("encoder unavailable", "error", err)
		return
	}
	if err := encoder.Encode(frame); err != nil {
		s.failed.Add(1)
		s.logger.Warn("encode failed", "error", err)
	}
}

// encoderFor returns an encoder sized for frame, rebuilding it when the
// incoming resolution changes.
func (s *Sink) encoderFor(frame *vision.Frame) (frameEncoder, error) {
	s.encMu.Lock()
	defer s.encMu.Unlock()

	select {
	case <-s.done:
		return nil, media.ErrPipelineClosed
	default:
	}

	if s.encoder != nil && s.encoder.Fits(frame) {
		return s.encoder, nil
	}
	if s.encoder != nil {
		s.encoder.Close()
		s.encoder = nil
	}

	cfg := s.cfg.Encoder
	cfg.Width, cfg.Height = frame.Width, frame.Height

	encoder, err := s.cfg.newEncoder(cfg, s.writeSample)
	if err != nil {
		return nil, err
	}
	s.logger.Info("encoder started", "width", cfg.Width, "height", cfg.Height)
	s.encoder = encoder
	return encoder, nil
}

func (s *Sink) writeSample(sample pionmedia.Sample) {
	if s.cfg.Output == nil {
		return
	}
	if err := s.cfg.Output.WriteSample(sample); err != nil && !errors.Is(err, io.ErrClosedPipe) {
		s.logger.Debug("write sample failed", "error", err)
	}
}

// Stop ends the pipelines and worker goroutines. Idempotent.
func (s *Sink) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
		s.mailbox.Close()
		s.decoder.Close()
		s.wg.Wait()

		s.encMu.Lock()
		if s.encoder != nil {
			s.encoder.Close()
			s.encoder = nil
		}
		s.encMu.Unlock()

		stats := s.Stats()
		s.logger.Info("sink stopped",
			"frames_in", stats.FramesIn,
			"transformed", stats.Transformed,
			"dropped", stats.Dropped,
			"failed", stats.Failed,
		)
	})
}

func (s *Sink) Done() <-chan struct{} {
	return s.done
}

func (s *Sink) Stats() SinkStats {
	return SinkStats{
		Packets:     s.packets.Load(),
		FramesIn:    s.framesIn.Load(),
		Transformed: s.transformed.Load(),
		Dropped:     s.dropped.Load(),
		Failed:      s.failed.Load(),
		Faces:       s.faces.Load(),
	}
}
