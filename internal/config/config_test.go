package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terrain-arena/internal/arena"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `{
		"logLevel": "debug",
		"server": { "addr": ":9000", "tickRate": 120 },
		"round": { "mode": "capture", "adversaries": 6, "adversariesFire": true }
	}`)
	require.NoError(t, Load(dir))

	assert.Equal(t, "debug", GetString("logLevel"))
	assert.Equal(t, ":9000", GetString("server.addr"))
	assert.Equal(t, 120, GetServerConfig().TickRate)

	rc := GetRoundConfig()
	assert.Equal(t, arena.ModeCapture, rc.Mode)
	assert.Equal(t, 6, rc.Adversaries)
	assert.True(t, rc.AdversariesFire)
	assert.Equal(t, 50.0, rc.CellSize)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, `{}`)))

	assert.Equal(t, "info", GetString("logLevel"))
	assert.Equal(t, "arena.db", GetString("db.path"))
	assert.Equal(t, "", GetString("auth.secret"))

	sc := GetServerConfig()
	assert.Equal(t, ":8080", sc.Addr)
	assert.Equal(t, 60, sc.TickRate)
	assert.Equal(t, 30, sc.BroadcastRate)
	assert.Equal(t, 100, sc.MaxSessions)
	assert.Equal(t, "http://localhost:8080", sc.PublicURL)

	assert.Equal(t, arena.DefaultConfig(), GetRoundConfig())

	ac := GetAudioConfig()
	assert.True(t, ac.Enabled)
	assert.Equal(t, 50, ac.Volume)

	assert.Equal(t, 5*time.Second, GetRecorderConfig().FlushInterval)
	assert.Equal(t, 50, GetRecorderConfig().BatchSize)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "hunt", GetString("round.mode"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, `{ "logLevel": `))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Cleanup(viper.Reset)
	t.Setenv("ARENA_ROUND_ADVERSARIES", "9")

	require.NoError(t, Load(writeConfig(t, `{}`)))
	assert.Equal(t, 9, GetRoundConfig().Adversaries)
}

func TestGetAudioConfig_ClampsVolume(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("audio.volume", 250)
	assert.Equal(t, 100, GetAudioConfig().Volume)
	viper.Set("audio.volume", -3)
	assert.Equal(t, 0, GetAudioConfig().Volume)
}

func TestServerConfig_TrimsPublicURL(t *testing.T) {
	t.Cleanup(viper.Reset)

	Set("server.publicURL", "https://arena.example/")
	assert.Equal(t, "https://arena.example", GetServerConfig().PublicURL)
}
