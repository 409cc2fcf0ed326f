package config

import "time"

// Config holds runtime settings for the wanderlog CLI.
//
// Fields:
//   - CacheDSN: SQLite file backing the local durable cache.
//   - RemoteDSN: Postgres DSN of the remote visits store; empty runs local-only.
//   - RemoteTimeout: per-call timeout for remote and photo requests.
//   - DebounceWindow: quiet period before a remote write is sent.
//   - SavedResetDelay: how long the "saved" status is shown.
//   - TokenSecret: HS256 key used to verify session tokens.
//   - S3*: photo storage; photo cleanup is disabled when S3BaseEndpoint is empty.
type Config struct {
	CacheDSN        string
	RemoteDSN       string
	RemoteTimeout   time.Duration
	DebounceWindow  time.Duration
	SavedResetDelay time.Duration
	TokenSecret     string
	LogLevel        string

	S3Region       string
	S3User         string
	S3Password     string
	S3Bucket       string
	S3BaseEndpoint string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.CacheDSN = "wanderlog.db"
	c.RemoteTimeout = 10 * time.Second
	c.DebounceWindow = 1500 * time.Millisecond
	c.SavedResetDelay = 2 * time.Second
	c.LogLevel = "info"
	c.S3Region = "us-east-1"
	c.S3Bucket = "visit-photos"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
