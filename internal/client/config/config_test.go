package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.LoadDefaults()
	require.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
	require.NotEmpty(t, cfg.SessionFile)
}

func TestEnvOverridesDefaults(t *testing.T) {
	t.Setenv("CLINICBOOK_API_URL", "http://clinic.internal/api")
	t.Setenv("CLINICBOOK_REQUEST_TIMEOUT", "30s")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, "http://clinic.internal/api", cfg.APIBaseURL)
	require.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestEnvIgnoresBadDuration(t *testing.T) {
	t.Setenv("CLINICBOOK_REQUEST_TIMEOUT", "soon")

	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)

	require.Equal(t, 15*time.Second, cfg.RequestTimeout)
}

func TestJSONOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, os.WriteFile(path, []byte(
		`{"api_base_url":"http://json.example/api","request_timeout":"45s"}`), 0o600))

	oldArgs := os.Args
	os.Args = []string{"client", "-c", path}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseJSON(cfg)

	require.Equal(t, "http://json.example/api", cfg.APIBaseURL)
	require.Equal(t, 45*time.Second, cfg.RequestTimeout)
}

func TestFlagsTakePrecedence(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"client", "-a", "http://flags.example/api", "-t", "5"}
	t.Cleanup(func() { os.Args = oldArgs })

	cfg := &Config{}
	cfg.LoadDefaults()
	parseFlags(cfg)

	require.Equal(t, "http://flags.example/api", cfg.APIBaseURL)
	require.Equal(t, 5*time.Second, cfg.RequestTimeout)
}
