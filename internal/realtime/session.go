package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/eleven-am/maskwatch/internal/media"
	"github.com/eleven-am/maskwatch/internal/shared"
	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4"
)

type SessionInfo struct {
	ID        string     `json:"id"`
	State     State      `json:"state"`
	Tracks    int        `json:"tracks"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	Stats     SinkStats  `json:"stats"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

type sessionDeps struct {
	pool        *vision.Pool
	transformer Transformer
	encoder     media.EncoderConfig
	newDecoder  decoderFactory
	newEncoder  encoderFactory
}

// Session is one browser peer negotiated through /offer. It implements
// EventHandler for its Peer.
type Session struct {
	ID        string
	createdAt time.Time
	logger    *slog.Logger
	peer      *Peer
	deps      sessionDeps
	onChange  func(info SessionInfo, from State)

	// serializes ApplyOffer and Answer
	negotiateMu sync.Mutex

	mu        sync.Mutex
	state     State
	updatedAt time.Time
	endedAt   *time.Time
	sinks     []*Sink
	// totals of sinks already stopped
	finished SinkStats

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(peer *Peer, deps sessionDeps, onChange func(SessionInfo, State), logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}

	id := shared.NewID("sess_")
	now := time.Now()
	s := &Session{
		ID:        id,
		createdAt: now,
		updatedAt: now,
		logger:    logger.With("session_id", id),
		peer:      peer,
		deps:      deps,
		onChange:  onChange,
		state:     StateNew,
		done:      make(chan struct{}),
	}
	if peer != nil {
		peer.SetHandler(s)
	}
	return s
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) CreatedAt() time.Time {
	return s.createdAt
}

func (s *Session) Done() <-chan struct{} {
	return s.done
}

func (s *Session) Info() SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.infoLocked()
}

func (s *Session) infoLocked() SessionInfo {
	stats := s.finished
	for _, sink := range s.sinks {
		addStats(&stats, sink.Stats())
	}
	return SessionInfo{
		ID:        s.ID,
		State:     s.state,
		Tracks:    len(s.sinks),
		CreatedAt: s.createdAt,
		UpdatedAt: s.updatedAt,
		Stats:     stats,
		EndedAt:   s.endedAt,
	}
}

func (s *Session) transition(next State) error {
	s.mu.Lock()
	from := s.state
	if !from.CanTransition(next) {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, next)
	}
	s.state = next
	s.updatedAt = time.Now()
	if next.Terminal() {
		ended := s.updatedAt
		s.endedAt = &ended
	}
	info := s.infoLocked()
	s.mu.Unlock()

	s.logger.Info("session state changed", "from", from.String(), "to", next.String())
	if s.onChange != nil {
		s.onChange(info, from)
	}
	return nil
}

// ApplyOffer sets the remote description and prepares one output track per
// offered video stream.
func (s *Session) ApplyOffer(offer webrtc.SessionDescription) error {
	s.negotiateMu.Lock()
	defer s.negotiateMu.Unlock()

	if state := s.State(); !state.CanTransition(StateHasOffer) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, state, StateHasOffer)
	}

	if err := s.peer.SetOffer(offer); err != nil {
		return err
	}

	n, err := s.peer.AddVideoOutputs(s.ID)
	if err != nil {
		return fmt.Errorf("add video outputs: %w", err)
	}
	s.logger.Debug("offer applied", "video_outputs", n)

	return s.transition(StateHasOffer)
}

// Answer produces the local description once ICE gathering has completed.
func (s *Session) Answer(ctx context.Context) (webrtc.SessionDescription, error) {
	s.negotiateMu.Lock()
	defer s.negotiateMu.Unlock()

	if state := s.State(); !state.CanTransition(StateHasAnswer) {
		return webrtc.SessionDescription{}, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, state, StateHasAnswer)
	}

	answer, err := s.peer.Answer(ctx)
	if err != nil {
		return webrtc.SessionDescription{}, err
	}

	if err := s.transition(StateHasAnswer); err != nil {
		return webrtc.SessionDescription{}, err
	}
	return answer, nil
}

func (s *Session) OnTrack(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
	if track.Kind() != webrtc.RTPCodecTypeVideo {
		return
	}

	mimeType := track.Codec().MimeType
	if !media.Supported(mimeType) {
		s.logger.Warn("ignoring track with unsupported codec", "mime_type", mimeType)
		return
	}

	output := s.peer.OutputFor(receiver)
	if output == nil {
		s.logger.Warn("no output track for incoming video")
		return
	}

	ssrc := uint32(track.SSRC())
	sink, err := s.attachSink(mimeType, output, func() {
		if err := s.peer.RequestKeyframe(ssrc); err != nil {
			s.logger.Debug("keyframe request failed", "error", err)
		}
	})
	if err != nil {
		s.logger.Error("failed to start track pipeline", "error", err)
		return
	}

	go func() {
		sink.Run(func() (*rtp.Packet, error) {
			pkt, _, err := track.ReadRTP()
			return pkt, err
		})
		s.detachSink(sink)
	}()
}

func (s *Session) attachSink(mimeType string, output sampleWriter, requestKeyframe func()) (*Sink, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Terminal() {
		return nil, fmt.Errorf("%w: session %s", ErrInvalidTransition, s.state)
	}

	sink, err := NewSink(SinkConfig{
		MimeType:        mimeType,
		Pool:            s.deps.pool,
		Transformer:     s.deps.transformer,
		Output:          output,
		Encoder:         s.deps.encoder,
		RequestKeyframe: requestKeyframe,
		Logger:          s.logger,
		newDecoder:      s.deps.newDecoder,
		newEncoder:      s.deps.newEncoder,
	})
	if err != nil {
		return nil, err
	}
	s.sinks = append(s.sinks, sink)
	return sink, nil
}

func (s *Session) detachSink(sink *Sink) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.sinks {
		if existing == sink {
			addStats(&s.finished, sink.Stats())
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			return
		}
	}
}

func (s *Session) OnDataChannelMessage(ch MessageSender, msg webrtc.DataChannelMessage) {
	if !msg.IsString {
		return
	}
	reply, ok := PingReply(string(msg.Data))
	if !ok {
		return
	}
	if err := ch.SendText(reply); err != nil {
		s.logger.Debug("data channel reply failed", "label", ch.Label(), "error", err)
	}
}

func (s *Session) OnConnectionStateChange(state webrtc.PeerConnectionState) {
	s.logger.Debug("peer connection state changed", "state", state.String())

	switch state {
	case webrtc.PeerConnectionStateConnected:
		if err := s.transition(StateConnected); err != nil {
			s.logger.Warn("unexpected connected event", "error", err)
		}
	case webrtc.PeerConnectionStateFailed:
		s.terminate(StateFailed)
	case webrtc.PeerConnectionStateClosed:
		s.terminate(StateClosed)
	}
}

// Close tears the session down. Closing a finished session is a no-op.
func (s *Session) Close() error {
	s.terminate(StateClosed)
	return nil
}

func (s *Session) terminate(final State) {
	if err := s.transition(final); err != nil {
		s.logger.Debug("session already finished", "requested", final.String())
	}

	s.closeOnce.Do(func() {
		close(s.done)

		s.mu.Lock()
		sinks := append([]*Sink(nil), s.sinks...)
		s.mu.Unlock()

		for _, sink := range sinks {
			sink.Stop()
		}
		if s.peer != nil {
			if err := s.peer.Close(); err != nil {
				s.logger.Debug("peer close failed", "error", err)
			}
		}
	})
}

func addStats(dst *SinkStats, src SinkStats) {
	dst.Packets += src.Packets
	dst.FramesIn += src.FramesIn
	dst.Transformed += src.Transformed
	dst.Dropped += src.Dropped
	dst.Failed += src.Failed
	dst.Faces += src.Faces
}
