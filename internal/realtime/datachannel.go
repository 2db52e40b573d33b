package realtime

import "strings"

// PingReply answers keep-alive pings: a text message starting with "ping" is
// echoed back with the prefix replaced by "pong".
func PingReply(msg string) (string, bool) {
	if !strings.HasPrefix(msg, "ping") {
		return "", false
	}
	return "pong" + msg[len("ping"):], true
}
