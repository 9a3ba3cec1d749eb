// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"time"
)

const (
	defaultListenAddr    = "127.0.0.1:8080"
	defaultDBPath        = "commentbox.db"
	defaultAllowedOrigin = "*"
	defaultClientTimeout = 10 * time.Second
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr    string
	DBPath        string
	ServerURL     string
	AllowedOrigin string
	ClientTimeout time.Duration
	Seed          bool
	OTLPEndpoint  string
}

// Load reads configuration from environment variables and returns a validated Config.
// All variables are optional: COMMENTBOX_LISTEN_ADDR (127.0.0.1:8080),
// COMMENTBOX_DB_PATH (commentbox.db), COMMENTBOX_SERVER_URL (http://<DialAddr of listen addr>),
// COMMENTBOX_ALLOWED_ORIGIN (*), COMMENTBOX_CLIENT_TIMEOUT (10s),
// COMMENTBOX_SEED (false) and COMMENTBOX_OTLP_ENDPOINT (tracing disabled).
func Load() (*Config, error) {
	cfg := &Config{
		ListenAddr:    defaultListenAddr,
		DBPath:        defaultDBPath,
		AllowedOrigin: defaultAllowedOrigin,
		ClientTimeout: defaultClientTimeout,
	}

	if v, ok := os.LookupEnv("COMMENTBOX_LISTEN_ADDR"); ok && v != "" {
		cfg.ListenAddr = v
	}

	if v, ok := os.LookupEnv("COMMENTBOX_DB_PATH"); ok && v != "" {
		cfg.DBPath = v
	}

	cfg.ServerURL = "http://" + DialAddr(cfg.ListenAddr)
	if v, ok := os.LookupEnv("COMMENTBOX_SERVER_URL"); ok && v != "" {
		u, err := url.Parse(v)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return nil, fmt.Errorf("COMMENTBOX_SERVER_URL must be an absolute http(s) URL, got %q", v)
		}
		cfg.ServerURL = v
	}

	if v, ok := os.LookupEnv("COMMENTBOX_ALLOWED_ORIGIN"); ok && v != "" {
		cfg.AllowedOrigin = v
	}

	if v, ok := os.LookupEnv("COMMENTBOX_CLIENT_TIMEOUT"); ok {
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("COMMENTBOX_CLIENT_TIMEOUT has invalid duration %q: %w", v, err)
		}
		if parsed <= 0 {
			return nil, fmt.Errorf("COMMENTBOX_CLIENT_TIMEOUT must be positive, got %s", parsed)
		}
		cfg.ClientTimeout = parsed
	}

	if v, ok := os.LookupEnv("COMMENTBOX_SEED"); ok && v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("COMMENTBOX_SEED has invalid boolean %q: %w", v, err)
		}
		cfg.Seed = parsed
	}

	cfg.OTLPEndpoint = os.Getenv("COMMENTBOX_OTLP_ENDPOINT")

	return cfg, nil
}

// DialAddr turns a listen address into one a local client can connect to.
// Wildcard hosts (empty, 0.0.0.0, ::) become loopback, and an unparsable
// address falls back to the default listen address.
func DialAddr(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return defaultListenAddr
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
