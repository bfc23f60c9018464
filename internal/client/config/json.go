package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/libadmin/internal/flagx"
	"github.com/dmitrijs2005/libadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Pointer
// fields distinguish "absent" from "empty" so a partial file only overrides
// what it names.
type JsonConfig struct {
	APIBaseURL     *string         `json:"api_base_url"`
	RequestTimeout *timex.Duration `json:"request_timeout"`
	StorePath      *string         `json:"store_path"`
	Retries        *uint64         `json:"retries"`
	MaxRPS         *float64        `json:"max_rps"`
	LogLevel       *string         `json:"log_level"`
	LogFormat      *string         `json:"log_format"`
	ReportDir      *string         `json:"report_dir"`
	S3Bucket       *string         `json:"s3_bucket"`
	S3Region       *string         `json:"s3_region"`
	S3Endpoint     *string         `json:"s3_endpoint"`
	S3AccessKey    *string         `json:"s3_access_key"`
	S3SecretKey    *string         `json:"s3_secret_key"`
}

// parseJson overlays cfg with the JSON file named by -c/-config (or
// LIBADMIN_CONFIG). It panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	path := flagx.ConfigPath(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	setString(&cfg.APIBaseURL, jc.APIBaseURL)
	setString(&cfg.StorePath, jc.StorePath)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.LogFormat, jc.LogFormat)
	setString(&cfg.ReportDir, jc.ReportDir)
	setString(&cfg.S3Bucket, jc.S3Bucket)
	setString(&cfg.S3Region, jc.S3Region)
	setString(&cfg.S3Endpoint, jc.S3Endpoint)
	setString(&cfg.S3AccessKey, jc.S3AccessKey)
	setString(&cfg.S3SecretKey, jc.S3SecretKey)
	if jc.Retries != nil {
		cfg.Retries = *jc.Retries
	}
	if jc.MaxRPS != nil {
		cfg.MaxRPS = *jc.MaxRPS
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
