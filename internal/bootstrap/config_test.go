package bootstrap

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDR", "OFFER_LEGACY_ENCODING", "SHUTDOWN_TIMEOUT", "MAX_UPLOAD_SIZE", "RTC_ICE_SERVERS", "WORKER_COUNT", "WORKER_QUEUE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.ServerAddr != ":8000" {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
	if !cfg.OfferLegacyEncoding {
		t.Error("expected legacy offer encoding by default")
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if cfg.MaxUploadSize != 200<<20 {
		t.Errorf("MaxUploadSize = %d", cfg.MaxUploadSize)
	}
	if len(cfg.RTCICEServers) != 0 {
		t.Errorf("expected no ICE servers, got %v", cfg.RTCICEServers)
	}
	if cfg.WorkerQueue != 2*cfg.WorkerCount {
		t.Errorf("WorkerQueue = %d, workers = %d", cfg.WorkerQueue, cfg.WorkerCount)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("OFFER_LEGACY_ENCODING", "false")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("DETECT_SCALE_FACTOR", "1.3")
	t.Setenv("WORKER_COUNT", "3")
	t.Setenv("WORKER_QUEUE", "")
	t.Setenv("REDIS_DB", "2")

	cfg := LoadConfig()
	if cfg.ServerAddr != ":9000" || cfg.OfferLegacyEncoding || cfg.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected config: %+v", cfg)
	}
	if cfg.DetectScaleFactor != 1.3 {
		t.Errorf("DetectScaleFactor = %v", cfg.DetectScaleFactor)
	}
	if cfg.WorkerQueue != 6 {
		t.Errorf("WorkerQueue = %d, want 6", cfg.WorkerQueue)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("RedisDB = %d", cfg.RedisDB)
	}
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("WORKER_COUNT", "many")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")
	t.Setenv("OFFER_LEGACY_ENCODING", "maybe")

	cfg := LoadConfig()
	if cfg.WorkerCount <= 0 {
		t.Errorf("WorkerCount = %d", cfg.WorkerCount)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("ShutdownTimeout = %v", cfg.ShutdownTimeout)
	}
	if !cfg.OfferLegacyEncoding {
		t.Error("expected default legacy encoding")
	}
}

func TestParseICEServers(t *testing.T) {
	servers := parseICEServers("stun:stun.example.com:3478, alice:secret@turn:turn.example.com:3478,,")
	if len(servers) != 2 {
		t.Fatalf("expected 2 servers, got %d", len(servers))
	}
	if servers[0].URLs[0] != "stun:stun.example.com:3478" || servers[0].Username != "" {
		t.Errorf("unexpected stun server: %+v", servers[0])
	}
	if servers[1].URLs[0] != "turn:turn.example.com:3478" || servers[1].Username != "alice" || servers[1].Credential != "secret" {
		t.Errorf("unexpected turn server: %+v", servers[1])
	}

	if got := parseICEServers(""); len(got) != 0 {
		t.Errorf("expected none, got %v", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"debug": "DEBUG",
		"warn":  "WARN",
		"error": "ERROR",
		"":      "INFO",
		"loud":  "INFO",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %s, want %s", in, got, want)
		}
	}
}
