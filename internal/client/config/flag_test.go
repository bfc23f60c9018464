package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"cmd", "-a", "http://lib/api", "-t", "5", "-s", "x.db", "-l", "debug"},
			expected: &Config{
				APIBaseURL: "http://lib/api", RequestTimeout: 5 * time.Second,
				StorePath: "x.db", LogLevel: "debug",
			},
		},
		{
			name:     "timeout untouched when absent",
			args:     []string{"cmd", "-a", "http://lib/api", "-x", "ignored"},
			expected: &Config{APIBaseURL: "http://lib/api", RequestTimeout: 1500 * time.Millisecond},
		},
		{name: "bad timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			cfg := &Config{RequestTimeout: 1500 * time.Millisecond}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(cfg) })
				return
			}
			require.NotPanics(t, func() { parseFlags(cfg) })
			assert.Empty(t, cmp.Diff(tt.expected, cfg))
		})
	}
}

func TestParseEnv(t *testing.T) {
	t.Setenv("LIBADMIN_API_BASE_URL", "http://env/api")
	t.Setenv("LIBADMIN_REQUEST_TIMEOUT", "3s")
	t.Setenv("LIBADMIN_S3_ENDPOINT", "http://minio:9000")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "http://env/api", cfg.APIBaseURL)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "http://minio:9000", cfg.S3Endpoint)
	assert.Equal(t, "libadmin.db", cfg.StorePath)
}

func TestParseEnv_BadDurationPanics(t *testing.T) {
	t.Setenv("LIBADMIN_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	require.Panics(t, func() { parseEnv(cfg) })
}

func TestParseEnv_DotEnvFile(t *testing.T) {
	const key = "LIBADMIN_REPORT_DIR"
	_, wasSet := os.LookupEnv(key)
	require.False(t, wasSet, "%s must not be set for this test", key)
	t.Cleanup(func() { _ = os.Unsetenv(key); _ = os.Unsetenv("LIBADMIN_RETRIES") })

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("LIBADMIN_REPORT_DIR=/srv/reports\nLIBADMIN_RETRIES=5\n"), 0o600))

	orig := DotEnvFile
	DotEnvFile = path
	t.Cleanup(func() { DotEnvFile = orig })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	assert.Equal(t, "/srv/reports", cfg.ReportDir)
	assert.Equal(t, uint64(5), cfg.Retries)
}

func TestLoadDotEnv_MissingFile(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "absent.env")))
}
