package providers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"olga/internal/structures"
)

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_GET(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("PUT"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("DELETE"))
}

func logConfig(dir, level string) *structures.Config {
	return &structures.Config{
		Logger: structures.LoggerConfig{
			Level:   level,
			Mode:    0644,
			Dir:     dir,
			MaxSize: 1,
		},
	}
}

func TestNewLogProvider_WritesPerTypeFiles(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogProvider(logConfig(dir, "info"))
	require.NoError(t, err)

	logger.Infof(TypeApp, "starting %s", "Olga")
	logger.Warnf(TypePost, "rejected submission")
	logger.Infof(TypeGet, "GET /map/")
	logger.Debugf(TypeApp, "hidden below info")
	logger.Close()

	app, err := os.ReadFile(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Contains(t, string(app), `"message":"starting Olga"`)
	assert.Contains(t, string(app), `"type":"app"`)
	assert.NotContains(t, string(app), "hidden below info")

	post, err := os.ReadFile(filepath.Join(dir, "post.log"))
	require.NoError(t, err)
	assert.Contains(t, string(post), `"level":"warn"`)

	get, err := os.ReadFile(filepath.Join(dir, "get.log"))
	require.NoError(t, err)
	assert.Contains(t, string(get), "GET /map/")
}

func TestNewLogProvider_FileMode(t *testing.T) {
	dir := t.TempDir()
	conf := logConfig(dir, "info")
	conf.Logger.Mode = 0600

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	defer logger.Close()

	info, err := os.Stat(filepath.Join(dir, "app.log"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	_, err := NewLogProvider(logConfig("/nonexistent/directory/path", "info"))
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	_, err := NewLogProvider(logConfig(t.TempDir(), "loud"))
	assert.Error(t, err)
}
