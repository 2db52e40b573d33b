package realtime

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pion/rtcp"
	"github.com/pion/webrtc/v4"
)

// Peer owns one PeerConnection and forwards its callbacks to an EventHandler.
type Peer struct {
	pc     *webrtc.PeerConnection
	logger *slog.Logger

	mu      sync.RWMutex
	handler EventHandler
	outputs map[*webrtc.RTPTransceiver]*webrtc.TrackLocalStaticSample
}

func NewPeer(pc *webrtc.PeerConnection, logger *slog.Logger) *Peer {
	if logger == nil {
		logger = slog.Default()
	}

	p := &Peer{
		pc:      pc,
		logger:  logger,
		outputs: make(map[*webrtc.RTPTransceiver]*webrtc.TrackLocalStaticSample),
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver) {
		codec := track.Codec()
		p.logger.Info("track received",
			"kind", track.Kind().String(),
			"mime_type", codec.MimeType,
			"ssrc", uint32(track.SSRC()),
		)
		if h := p.eventHandler(); h != nil {
			h.OnTrack(track, receiver)
		}
	})

	pc.OnDataChannel(func(dc *webrtc.DataChannel) {
		p.logger.Debug("data channel opened", "label", dc.Label())
		dc.OnMessage(func(msg webrtc.DataChannelMessage) {
			if h := p.eventHandler(); h != nil {
				h.OnDataChannelMessage(dc, msg)
			}
		})
	})

	pc.OnICEConnectionStateChange(func(state webrtc.ICEConnectionState) {
		p.logger.Debug("ice connection state changed", "state", state.String())
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		if h := p.eventHandler(); h != nil {
			h.OnConnectionStateChange(state)
		}
	})

	return p
}

func (p *Peer) SetHandler(h EventHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handler = h
}

func (p *Peer) eventHandler() EventHandler {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.handler
}

func (p *Peer) SetOffer(offer webrtc.SessionDescription) error {
	if offer.Type != webrtc.SDPTypeOffer {
		return fmt.Errorf("%w: type %q", ErrInvalidOffer, offer.Type.String())
	}
	if err := p.pc.SetRemoteDescription(offer); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOffer, err)
	}
	return nil
}

// AddVideoOutputs attaches a VP8 output track to every offered video
// transceiver, so the answer advertises the processed stream.
func (p *Peer) AddVideoOutputs(streamID string) (int, error) {
	added := 0
	for _, tr := range p.pc.GetTransceivers() {
		if tr.Kind() != webrtc.RTPCodecTypeVideo {
			continue
		}

		track, err := webrtc.NewTrackLocalStaticSample(
			webrtc.RTPCodecCapability{MimeType: webrtc.MimeTypeVP8, ClockRate: 90000},
			fmt.Sprintf("video-%d", added),
			streamID,
		)
		if err != nil {
			return added, err
		}

		sender, err := p.pc.AddTrack(track)
		if err != nil {
			return added, err
		}
		go drainRTCP(sender)

		// AddTrack reuses the offered transceiver for this kind.
		owner := tr
		for _, t := range p.pc.GetTransceivers() {
			if t.Sender() == sender {
				owner = t
				break
			}
		}

		p.mu.Lock()
		p.outputs[owner] = track
		p.mu.Unlock()
		added++
	}
	return added, nil
}

// OutputFor returns the local track paired with an incoming track's receiver.
func (p *Peer) OutputFor(receiver *webrtc.RTPReceiver) *webrtc.TrackLocalStaticSample {
	p.mu.RLock()
	defer p.mu.RUnlock()

	for tr, track := range p.outputs {
		if tr.Receiver() == receiver {
			return track
		}
	}
	for _, track := range p.outputs {
		return track
	}
	return nil
}

// Answer creates and applies the local answer, waiting for ICE gathering to
// finish. If ctx expires first, the description gathered so far is returned.
func (p *Peer) Answer(ctx context.Context) (webrtc.SessionDescription, error) {
	answer, err := p.pc.CreateAnswer(nil)
	if err != nil {
		return webrtc.SessionDescription{}, err
	}

	gathered := webrtc.GatheringCompletePromise(p.pc)
	if err := p.pc.SetLocalDescription(answer); err != nil {
		return webrtc.SessionDescription{}, err
	}

	select {
	case <-gathered:
	case <-ctx.Done():
		p.logger.Warn("ice gathering incomplete, answering with partial candidates", "error", ctx.Err())
	}

	local := p.pc.LocalDescription()
	if local == nil {
		return webrtc.SessionDescription{}, fmt.Errorf("no local description")
	}
	return *local, nil
}

// RequestKeyframe asks the sender of ssrc for a new keyframe.
func (p *Peer) RequestKeyframe(ssrc uint32) error {
	return p.pc.WriteRTCP([]rtcp.Packet{&rtcp.PictureLossIndication{MediaSSRC: ssrc}})
}

func (p *Peer) ConnectionState() webrtc.PeerConnectionState {
	return p.pc.ConnectionState()
}

func (p *Peer) Close() error {
	return p.pc.Close()
}

func drainRTCP(sender *webrtc.RTPSender) {
	buf := make([]byte, 1500)
	for {
		if _, _, err := sender.Read(buf); err != nil {
			return
		}
	}
}
