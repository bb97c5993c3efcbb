package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every FORMPANEL_ env var that Load() reads.
var allConfigKeys = []string{
	"FORMPANEL_LISTEN_ADDR",
	"FORMPANEL_DB_PATH",
	"FORMPANEL_SECRET_KEY",
	"FORMPANEL_VISITOR_KEY",
	"FORMPANEL_LOG_SECRETS",
	"FORMPANEL_LOG_LEVEL",
	"FORMPANEL_CAPTURE_RATE",
	"FORMPANEL_CAPTURE_BURST",
	"FORMPANEL_VISITOR_CAPACITY",
	"FORMPANEL_RETENTION",
}

// isolateConfigEnv saves and unsets all FORMPANEL_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

const testSecretKeyHex = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("FORMPANEL_DB_PATH", "/tmp/test.db")
	t.Setenv("FORMPANEL_SECRET_KEY", testSecretKeyHex)
	t.Setenv("FORMPANEL_VISITOR_KEY", strings.Repeat("k", 40))
	t.Setenv("FORMPANEL_LOG_SECRETS", "true")
	t.Setenv("FORMPANEL_LOG_LEVEL", "DEBUG")
	t.Setenv("FORMPANEL_CAPTURE_RATE", "2.5")
	t.Setenv("FORMPANEL_CAPTURE_BURST", "4")
	t.Setenv("FORMPANEL_VISITOR_CAPACITY", "50")
	t.Setenv("FORMPANEL_RETENTION", "48h")

	cfg, err := LoadFrom("")

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Len(t, cfg.SecretKey, 32)
	assert.True(t, cfg.HasSecretKey())
	assert.Equal(t, []byte(strings.Repeat("k", 40)), cfg.VisitorKey)
	assert.False(t, cfg.VisitorKeyGenerated)
	assert.True(t, cfg.LogSecrets)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 2.5, cfg.CaptureRate)
	assert.Equal(t, 4, cfg.CaptureBurst)
	assert.Equal(t, 50, cfg.VisitorCapacity)
	assert.Equal(t, 48*time.Hour, cfg.Retention)
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := LoadFrom("")

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "formpanel.db", cfg.DBPath)
	assert.False(t, cfg.HasSecretKey())
	assert.False(t, cfg.LogSecrets, "cleartext secret logging is off by default")
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 5.0, cfg.CaptureRate)
	assert.Equal(t, 10, cfg.CaptureBurst)
	assert.Equal(t, 10000, cfg.VisitorCapacity)
	assert.Equal(t, 720*time.Hour, cfg.Retention)
	assert.Len(t, cfg.VisitorKey, 32)
	assert.True(t, cfg.VisitorKeyGenerated)
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_RETENTION", "forever")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_RETENTION")
}

func TestLoad_InvalidBool(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_LOG_SECRETS", "sometimes")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_LOG_SECRETS")
}

func TestLoad_SecretKeyNotHex(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_SECRET_KEY", "not-hex")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_SECRET_KEY")
}

func TestLoad_SecretKeyWrongLength(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_SECRET_KEY", "0011")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_SECRET_KEY must decode to 32 bytes")
}

func TestLoad_VisitorKeyTooShort(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_VISITOR_KEY", "short")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_VISITOR_KEY")
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_LOG_LEVEL", "verbose")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_LOG_LEVEL must be one of")
}

func TestLoad_ListenAddr(t *testing.T) {
	tests := []struct {
		name    string
		addr    string
		wantErr bool
	}{
		{name: "ipv4", addr: "0.0.0.0:9090"},
		{name: "ipv6 loopback", addr: "[::1]:8080"},
		{name: "ipv6 any", addr: "[::]:80"},
		{name: "hostname", addr: "localhost:8080"},
		{name: "all interfaces", addr: ":8080"},
		{name: "missing port", addr: "localhost", wantErr: true},
		{name: "unbracketed ipv6", addr: "::1:8080", wantErr: true},
		{name: "named port", addr: "localhost:http", wantErr: true},
		{name: "port out of range", addr: "127.0.0.1:70000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("FORMPANEL_LISTEN_ADDR", tt.addr)

			cfg, err := LoadFrom("")

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "FORMPANEL_LISTEN_ADDR must be host:port")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.addr, cfg.ListenAddr)
		})
	}
}

func TestLoad_ZeroBurstRejected(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("FORMPANEL_CAPTURE_BURST", "0")

	_, err := LoadFrom("")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "FORMPANEL_CAPTURE_BURST must be at least 1")
}

func TestLoad_EnvFile(t *testing.T) {
	isolateConfigEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("FORMPANEL_DB_PATH=/data/from-env-file.db\nFORMPANEL_LOG_LEVEL=warn\n"), 0o600))
	// godotenv.Load sets process env vars; isolateConfigEnv restores them.
	t.Setenv("FORMPANEL_LOG_LEVEL", "error")

	cfg, err := LoadFrom(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/from-env-file.db", cfg.DBPath)
	assert.Equal(t, "error", cfg.LogLevel, "process env takes precedence over .env")
}

func TestLoad_MissingEnvFileIgnored(t *testing.T) {
	isolateConfigEnv(t)

	_, err := LoadFrom(filepath.Join(t.TempDir(), "absent.env"))

	assert.NoError(t, err)
}
