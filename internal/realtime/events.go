package realtime

import "github.com/pion/webrtc/v4"

// EventHandler receives peer connection events. Calls arrive on pion's
// goroutines and may be concurrent.
type EventHandler interface {
	OnTrack(track *webrtc.TrackRemote, receiver *webrtc.RTPReceiver)
	OnDataChannelMessage(ch MessageSender, msg webrtc.DataChannelMessage)
	OnConnectionStateChange(state webrtc.PeerConnectionState)
}

// MessageSender is the reply side of a data channel.
type MessageSender interface {
	Label() string
	SendText(s string) error
}
