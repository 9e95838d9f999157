package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the override vars so ambient shell state cannot leak
// into assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "QCMOBILE_BASE_URL", "SAFER_BASE_URL",
		"HTTP_TIMEOUT_SECONDS", "FMCSA_WEBKEY", "SAFER_API_KEY"} {
		t.Setenv(k, "")
	}
}

func TestLoad_CreatesDefaultFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, portDefault, c.Port)
	assert.Equal(t, qcMobileBaseURLDefault, c.QCMobileBaseURL)
	assert.Equal(t, timeoutSecondsDefault*time.Second, c.Timeout())

	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err, "default config file written on first run")
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "9999")
	t.Setenv("SAFER_BASE_URL", "http://localhost:1234")
	t.Setenv("FMCSA_WEBKEY", "wk")
	t.Setenv("SAFER_API_KEY", "ak")

	c, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 9999, c.Port)
	assert.Equal(t, "http://localhost:1234", c.SaferBaseURL)
	assert.Equal(t, "wk", c.WebKey)
	assert.Equal(t, "ak", c.APIKey)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	body := []byte("port: 7070\ntimeoutSeconds: 5\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), body, fileMode))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 7070, c.Port)
	assert.Equal(t, 5*time.Second, c.Timeout())
	// Values absent from the file keep their defaults.
	assert.Equal(t, saferBaseURLDefault, c.SaferBaseURL)
}
