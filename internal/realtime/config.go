package realtime

import "time"

type Config struct {
	ICEServers []ICEServerConfig
	PortRange  PortRange
	MaxSDPSize int
	// GatherTimeout bounds how long an answer waits for ICE gathering.
	GatherTimeout time.Duration
	// LegacyOfferEncoding wraps the /offer response in a JSON string.
	LegacyOfferEncoding bool
	EncoderFPS          int
	EncoderBitrate      int
}

type ICEServerConfig struct {
	URLs       []string
	Username   string
	Credential string
}

type PortRange struct {
	Min int
	Max int
}

func (c Config) maxSDPSize() int64 {
	if c.MaxSDPSize <= 0 {
		return 64 * 1024
	}
	return int64(c.MaxSDPSize)
}

func (c Config) gatherTimeout() time.Duration {
	if c.GatherTimeout <= 0 {
		return 5 * time.Second
	}
	return c.GatherTimeout
}
