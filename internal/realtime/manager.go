package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/eleven-am/maskwatch/internal/media"
	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/pion/interceptor"
	"github.com/pion/webrtc/v4"
	"golang.org/x/sync/errgroup"
)

// Recorder persists session lifecycle snapshots.
type Recorder interface {
	RecordSession(ctx context.Context, info SessionInfo) error
}

// Manager is the registry of live sessions. A session is registered from
// creation until it reaches Closed or Failed.
type Manager struct {
	cfg      Config
	api      *webrtc.API
	deps     sessionDeps
	recorder Recorder
	logger   *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(cfg Config, pool *vision.Pool, transformer Transformer, recorder Recorder, logger *slog.Logger) (*Manager, error) {
	if logger == nil {
		logger = slog.Default()
	}

	me := &webrtc.MediaEngine{}
	if err := me.RegisterDefaultCodecs(); err != nil {
		return nil, err
	}

	registry := &interceptor.Registry{}
	if err := webrtc.RegisterDefaultInterceptors(me, registry); err != nil {
		return nil, err
	}

	se := webrtc.SettingEngine{}
	se.LoggerFactory = newSlogLoggerFactory(logger.With("component", "pion"))

	if cfg.PortRange.Min > 0 && cfg.PortRange.Max > cfg.PortRange.Min {
		if err := se.SetEphemeralUDPPortRange(uint16(cfg.PortRange.Min), uint16(cfg.PortRange.Max)); err != nil {
			return nil, err
		}
	}

	api := webrtc.NewAPI(
		webrtc.WithMediaEngine(me),
		webrtc.WithInterceptorRegistry(registry),
		webrtc.WithSettingEngine(se),
	)

	return &Manager{
		cfg: cfg,
		api: api,
		deps: sessionDeps{
			pool:        pool,
			transformer: transformer,
			encoder: media.EncoderConfig{
				FPS:     cfg.EncoderFPS,
				Bitrate: cfg.EncoderBitrate,
			},
		},
		recorder: recorder,
		logger:   logger.With("component", "session-manager"),
		sessions: make(map[string]*Session),
	}, nil
}

func (m *Manager) iceServers() []webrtc.ICEServer {
	servers := make([]webrtc.ICEServer, 0, len(m.cfg.ICEServers))
	for _, s := range m.cfg.ICEServers {
		server := webrtc.ICEServer{
			URLs: s.URLs,
		}
		if s.Username != "" {
			server.Username = s.Username
			server.Credential = s.Credential
			server.CredentialType = webrtc.ICECredentialTypePassword
		}
		servers = append(servers, server)
	}
	return servers
}

// CreateSession opens a peer connection and registers a new session for it.
func (m *Manager) CreateSession() (*Session, error) {
	session, err := m.openSession()
	if err != nil {
		return nil, err
	}
	m.register(session)
	return session, nil
}

func (m *Manager) openSession() (*Session, error) {
	pc, err := m.api.NewPeerConnection(webrtc.Configuration{
		ICEServers: m.iceServers(),
	})
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}

	peer := NewPeer(pc, m.logger)
	session := newSession(peer, m.deps, m.handleStateChange, m.logger)
	peer.logger = session.logger
	return session, nil
}

// register adds session to the registry and records it. A session that has
// already moved past New is recorded as New first, then as it is now.
func (m *Manager) register(session *Session) {
	m.mu.Lock()
	m.sessions[session.ID] = session
	m.mu.Unlock()

	m.logger.Info("session created", "session_id", session.ID)

	info := session.Info()
	if info.State != StateNew {
		created := info
		created.State = StateNew
		created.UpdatedAt = created.CreatedAt
		m.record(created)
	}
	m.record(info)
}

// Negotiate creates a session for offer and returns it with its answer. A
// session is only registered and recorded once its offer has been applied.
func (m *Manager) Negotiate(ctx context.Context, offer webrtc.SessionDescription) (*Session, webrtc.SessionDescription, error) {
	if err := validateOffer(offer); err != nil {
		return nil, webrtc.SessionDescription{}, err
	}

	session, err := m.openSession()
	if err != nil {
		return nil, webrtc.SessionDescription{}, err
	}

	if err := session.ApplyOffer(offer); err != nil {
		session.Close()
		return nil, webrtc.SessionDescription{}, err
	}
	m.register(session)

	gatherCtx, cancel := context.WithTimeout(ctx, m.cfg.gatherTimeout())
	defer cancel()

	answer, err := session.Answer(gatherCtx)
	if err != nil {
		session.Close()
		return nil, webrtc.SessionDescription{}, fmt.Errorf("create answer: %w", err)
	}
	return session, answer, nil
}

func validateOffer(offer webrtc.SessionDescription) error {
	if offer.Type != webrtc.SDPTypeOffer {
		return fmt.Errorf("%w: type %q", ErrInvalidOffer, offer.Type.String())
	}
	if _, err := offer.Unmarshal(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOffer, err)
	}
	return nil
}

// handleStateChange only tracks registered sessions; one that fails before
// registration leaves no record.
func (m *Manager) handleStateChange(info SessionInfo, from State) {
	m.mu.Lock()
	_, registered := m.sessions[info.ID]
	if registered && info.State.Terminal() {
		delete(m.sessions, info.ID)
	}
	m.mu.Unlock()

	if !registered {
		return
	}
	if info.State.Terminal() {
		m.logger.Info("session removed", "session_id", info.ID, "state", info.State.String(), "from", from.String())
	}
	m.record(info)
}

func (m *Manager) record(info SessionInfo) {
	if m.recorder == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := m.recorder.RecordSession(ctx, info); err != nil {
		m.logger.Warn("failed to record session", "session_id", info.ID, "error", err)
	}
}

func (m *Manager) GetSession(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

// RemoveSession closes the session, which deregisters it.
func (m *Manager) RemoveSession(id string) error {
	s, ok := m.GetSession(id)
	if !ok {
		return ErrSessionNotFound
	}
	return s.Close()
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// List returns a snapshot of live sessions, oldest first.
func (m *Manager) List() []SessionInfo {
	m.mu.RLock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.RUnlock()

	infos := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		infos = append(infos, s.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].CreatedAt.Before(infos[j].CreatedAt)
	})
	return infos
}

// Shutdown closes every live session concurrently and empties the registry.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	m.logger.Info("closing sessions", "count", len(sessions))

	g, _ := errgroup.WithContext(ctx)
	for _, s := range sessions {
		g.Go(s.Close)
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	m.mu.Lock()
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	return err
}

func (m *Manager) Config() Config {
	return m.cfg
}
