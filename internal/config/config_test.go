package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	valid := &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Database: DatabaseConfig{Path: "/tmp/stackroom/db"},
	}
	assert.NoError(t, valid.Validate())

	badEnv := *valid
	badEnv.App.Environment = "local"
	assert.Error(t, badEnv.Validate())

	badLevel := *valid
	badLevel.Logger.Level = "verbose"
	assert.Error(t, badLevel.Validate())

	noPath := *valid
	noPath.Database.Path = ""
	assert.Error(t, noPath.Validate())
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("STACKROOM_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "STACKROOM_TEST_KEY", "fallback"))
	assert.Equal(t, "from-env", getConfigValue("", "STACKROOM_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", getConfigValue("", "STACKROOM_TEST_MISSING", "fallback"))
}

func TestParseDurationValue(t *testing.T) {
	got, err := parseDurationValue("30s", "SERVER_READ_TIMEOUT", "15s")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, got)

	got, err = parseDurationValue("", "SERVER_READ_TIMEOUT_UNSET", "15s")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Second, got)

	_, err = parseDurationValue("soon", "SERVER_READ_TIMEOUT", "15s")
	assert.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\nSTACKROOM_ENV_FILE_KEY=hello\nSTACKROOM_QUOTED=\"world\"\nmalformed line\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("STACKROOM_ENV_FILE_KEY", "")
	os.Unsetenv("STACKROOM_ENV_FILE_KEY")
	t.Setenv("STACKROOM_QUOTED", "")
	os.Unsetenv("STACKROOM_QUOTED")

	require.NoError(t, loadEnvFile(path))
	assert.Equal(t, "hello", os.Getenv("STACKROOM_ENV_FILE_KEY"))
	assert.Equal(t, "world", os.Getenv("STACKROOM_QUOTED"))
}

func TestExpandPath(t *testing.T) {
	got, err := expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/a/b/../c", "")
	require.NoError(t, err)
	assert.Equal(t, "/a/c", got)
}
