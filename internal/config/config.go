package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Transports accepted by the launcher.
const (
	TransportStdio          = "stdio"
	TransportSSE            = "sse"
	TransportStreamableHTTP = "streamable-http"
)

type Config struct {
	// Transport
	Transport string
	Host      string
	Port      int

	// Grokipedia API
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	UserAgent  string

	// Offline corpus; when set the API is not used
	CorpusDir string

	// HTTP transports
	CORSAllowedOrigins []string
	ShutdownTimeout    time.Duration

	// Logging
	LogLevel  string
	LogFormat string

	// Upstream latency stats
	StatsWindow time.Duration
}

// LoadDotenv reads environment variables from path without overriding ones
// already set. A missing file is not an error.
func LoadDotenv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func Load() Config {
	cfg := Config{
		Transport: strings.ToLower(envOr("MCP_TRANSPORT", TransportStdio)),
		Host:      envOr("MCP_HOST", "0.0.0.0"),
		Port:      envInt("MCP_PORT", 8888),

		BaseURL:    strings.TrimRight(envOr("GROKIPEDIA_BASE_URL", "https://grokipedia.com"), "/"),
		Timeout:    envDuration("GROKIPEDIA_TIMEOUT", 30*time.Second),
		MaxRetries: envInt("GROKIPEDIA_MAX_RETRIES", 3),
		RetryWait:  envDuration("GROKIPEDIA_RETRY_WAIT", 250*time.Millisecond),
		UserAgent:  os.Getenv("GROKIPEDIA_USER_AGENT"),

		CorpusDir: os.Getenv("CORPUS_DIR"),

		CORSAllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		ShutdownTimeout:    envDuration("SHUTDOWN_TIMEOUT", 10*time.Second),

		LogLevel:  envOr("LOG_LEVEL", "info"),
		LogFormat: envOr("LOG_FORMAT", "json"),

		StatsWindow: envDuration("STATS_WINDOW", time.Hour),
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryWait <= 0 {
		cfg.RetryWait = 250 * time.Millisecond
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	if cfg.StatsWindow <= 0 {
		cfg.StatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	switch c.Transport {
	case TransportStdio, TransportSSE, TransportStreamableHTTP:
	default:
		return fmt.Errorf("unknown transport %q (want stdio, sse or streamable-http)", c.Transport)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.CorpusDir == "" && c.BaseURL == "" {
		return fmt.Errorf("GROKIPEDIA_BASE_URL is required when CORPUS_DIR is not set")
	}
	switch strings.ToLower(c.LogFormat) {
	case "json", "text":
	default:
		return fmt.Errorf("unknown log format %q (want json or text)", c.LogFormat)
	}
	return nil
}

// Addr is the listen address for HTTP transports.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// IsHTTP reports whether the transport serves HTTP.
func (c Config) IsHTTP() bool {
	return c.Transport == TransportSSE || c.Transport == TransportStreamableHTTP
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
