package realtime

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/eleven-am/maskwatch/internal/vision"
	"github.com/pion/webrtc/v4"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeTransformer struct {
	mu     sync.Mutex
	calls  int
	faces  int
	err    error
	delay  time.Duration
	frames []*vision.Frame
}

func (f *fakeTransformer) Transform(frame *vision.Frame) ([]vision.Detection, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	f.frames = append(f.frames, frame)
	if f.err != nil {
		return nil, f.err
	}
	return make([]vision.Detection, f.faces), nil
}

func (f *fakeTransformer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type recordedSession struct {
	mu    sync.Mutex
	infos []SessionInfo
}

func (r *recordedSession) RecordSession(_ context.Context, info SessionInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, info)
	return nil
}

func (r *recordedSession) states() []State {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]State, 0, len(r.infos))
	for _, info := range r.infos {
		out = append(out, info.State)
	}
	return out
}

func newTestManager(t *testing.T, cfg Config, recorder Recorder) *Manager {
	t.Helper()
	if cfg.GatherTimeout == 0 {
		cfg.GatherTimeout = 3 * time.Second
	}
	pool := vision.NewPool(1, 1, discardLogger())
	t.Cleanup(pool.Close)

	mgr, err := NewManager(cfg, pool, &fakeTransformer{}, recorder, discardLogger())
	if err != nil {
		t.Fatalf("NewManager should not error: %v", err)
	}
	t.Cleanup(func() { mgr.Shutdown(context.Background()) })
	return mgr
}

// newBrowserOffer builds an offer the way a browser would: one video
// transceiver and a data channel.
func newBrowserOffer(t *testing.T) webrtc.SessionDescription {
	t.Helper()

	pc, err := webrtc.NewPeerConnection(webrtc.Configuration{})
	if err != nil {
		t.Fatalf("NewPeerConnection: %v", err)
	}
	t.Cleanup(func() { pc.Close() })

	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeVideo); err != nil {
		t.Fatalf("AddTransceiverFromKind: %v", err)
	}
	if _, err := pc.CreateDataChannel("chat", nil); err != nil {
		t.Fatalf("CreateDataChannel: %v", err)
	}

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		t.Fatalf("CreateOffer: %v", err)
	}
	gathered := webrtc.GatheringCompletePromise(pc)
	if err := pc.SetLocalDescription(offer); err != nil {
		t.Fatalf("SetLocalDescription: %v", err)
	}
	select {
	case <-gathered:
	case <-time.After(3 * time.Second):
	}
	return *pc.LocalDescription()
}
