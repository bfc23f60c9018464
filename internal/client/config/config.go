package config

import "time"

// Config holds runtime settings for the library console.
type Config struct {
	// APIBaseURL is prefixed to every resource path, e.g. http://host/api.
	APIBaseURL string `envconfig:"API_BASE_URL"`
	// RequestTimeout bounds a single API round trip.
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT"`
	// StorePath is the SQLite file holding the persisted session and token.
	StorePath string `envconfig:"STORE_PATH"`
	// Retries is how often a failed collection fetch is retried when the
	// server could not be reached. 0, the default, sends every call once.
	// Mutations are never retried.
	Retries uint64 `envconfig:"RETRIES"`
	// MaxRPS throttles outbound calls; 0 disables the limiter.
	MaxRPS float64 `envconfig:"MAX_RPS"`

	LogLevel  string `envconfig:"LOG_LEVEL"`
	LogFormat string `envconfig:"LOG_FORMAT"`

	// ReportDir receives statistics exports when no S3 bucket is set.
	ReportDir string `envconfig:"REPORT_DIR"`

	S3Bucket    string `envconfig:"S3_BUCKET"`
	S3Region    string `envconfig:"S3_REGION"`
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY"`
	S3SecretKey string `envconfig:"S3_SECRET_KEY"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api"
	c.RequestTimeout = 10 * time.Second
	c.StorePath = "libadmin.db"
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.ReportDir = "reports"
	c.S3Region = "us-east-1"
}

// ArchiveToS3 reports whether exports should go to object storage.
func (c *Config) ArchiveToS3() bool {
	return c.S3Bucket != ""
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
