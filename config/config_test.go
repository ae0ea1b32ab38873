package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TELEGRAM_TOKEN", "HTTP_ADDR", "ENGINE", "LOG_LEVEL", "LOG_HUMAN", "MAX_UPLOAD_BYTES", "CONFIG_FILE"} {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { os.Setenv(k, v) })
		}
	}
}

func TestParse_OverridesDefaults(t *testing.T) {
	cfg, err := Parse([]byte(`
http_addr: ":9000"
engine: gocv
log:
  level: debug
  human: true
defaults:
  threshold: 180
  color_lower: "#aaaaaa"
`))
	require.NoError(t, err)
	require.Equal(t, ":9000", cfg.HTTPAddr)
	require.Equal(t, EngineGoCV, cfg.Engine)
	require.Equal(t, "debug", cfg.Log.Level)
	require.True(t, cfg.Log.Human)
	require.Equal(t, 180, cfg.Defaults.Threshold)
	require.Equal(t, "#aaaaaa", cfg.Defaults.ColorLower)

	// незаданные поля остаются по умолчанию
	require.Equal(t, 100, cfg.Defaults.MinArea)
	require.Equal(t, "#ffffff", cfg.Defaults.ColorUpper)
	require.Equal(t, int64(16<<20), cfg.MaxUploadBytes)
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("http_addr: [unterminated"))
	require.Error(t, err)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http_addr: \":7000\"\nengine: native\n"), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HTTP_ADDR", ":7100")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("LOG_HUMAN", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":7100", cfg.HTTPAddr)
	require.Equal(t, int64(1024), cfg.MaxUploadBytes)
	require.True(t, cfg.Log.Human)
}

func TestLoad_MissingDefaultFileIsFine(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_BadEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("MAX_UPLOAD_BYTES", "lots")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.Engine = "cuda"
	require.Error(t, cfg.Validate())

	cfg = Default()
	cfg.HTTPAddr = ""
	require.Error(t, cfg.Validate())
	cfg.TelegramToken = "token"
	require.NoError(t, cfg.Validate())
}
