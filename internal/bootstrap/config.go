package bootstrap

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	ServerAddr      string
	LogLevel        string
	ShutdownTimeout time.Duration

	RTCICEServers       []ICEServerConfig
	RTCPortMin          int
	RTCPortMax          int
	RTCGatherTimeout    time.Duration
	OfferLegacyEncoding bool
	EncoderFPS          int
	EncoderBitrate      int

	CascadePath        string
	ModelPath          string
	ModelInputSize     int
	DetectScaleFactor  float64
	DetectMinNeighbors int
	WorkerCount        int
	WorkerQueue        int

	RateLimitRPS   float64
	RateLimitBurst int

	MaxUploadSize int64
	TempDir       string
	VideoCodec    string

	DatabaseDSN string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	StaticDir   string
	TemplateDir string
}

type ICEServerConfig struct {
	URLs       []string
	Username   string
	Credential string
}

func LoadConfig() *Config {
	workers := getEnvInt("WORKER_COUNT", runtime.NumCPU())

	return &Config{
		ServerAddr:      getEnv("SERVER_ADDR", ":8000"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		RTCICEServers:       parseICEServers(getEnv("RTC_ICE_SERVERS", "")),
		RTCPortMin:          getEnvInt("RTC_PORT_MIN", 0),
		RTCPortMax:          getEnvInt("RTC_PORT_MAX", 0),
		RTCGatherTimeout:    getEnvDuration("RTC_GATHER_TIMEOUT", 5*time.Second),
		OfferLegacyEncoding: getEnvBool("OFFER_LEGACY_ENCODING", true),
		EncoderFPS:          getEnvInt("ENCODER_FPS", 30),
		EncoderBitrate:      getEnvInt("ENCODER_BITRATE", 1000),

		CascadePath:        getEnv("CASCADE_PATH", "haarcascade_frontalface_default.xml"),
		ModelPath:          getEnv("MODEL_PATH", "saved_model.onnx"),
		ModelInputSize:     getEnvInt("MODEL_INPUT_SIZE", 140),
		DetectScaleFactor:  getEnvFloat("DETECT_SCALE_FACTOR", 1.1),
		DetectMinNeighbors: getEnvInt("DETECT_MIN_NEIGHBORS", 4),
		WorkerCount:        workers,
		WorkerQueue:        getEnvInt("WORKER_QUEUE", 2*workers),

		RateLimitRPS:   getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst: getEnvInt("RATE_LIMIT_BURST", 5),

		MaxUploadSize: int64(getEnvInt("MAX_UPLOAD_SIZE", 200<<20)),
		TempDir:       getEnv("TEMP_DIR", os.TempDir()),
		VideoCodec:    getEnv("VIDEO_CODEC", "mp4v"),

		DatabaseDSN: getEnv("DATABASE_DSN", "maskwatch.db"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		StaticDir:   getEnv("STATIC_DIR", "./static"),
		TemplateDir: getEnv("TEMPLATE_DIR", "./templates"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// parseICEServers reads a comma separated list of ICE URLs. Credentials may be
// given inline as user:pass@turn:host:port. An empty list means host
// candidates only.
func parseICEServers(envValue string) []ICEServerConfig {
	var servers []ICEServerConfig
	for _, entry := range strings.Split(envValue, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		server := ICEServerConfig{}
		if creds, url, ok := strings.Cut(entry, "@"); ok {
			server.Username, server.Credential, _ = strings.Cut(creds, ":")
			entry = url
		}
		server.URLs = []string{entry}
		servers = append(servers, server)
	}
	return servers
}
