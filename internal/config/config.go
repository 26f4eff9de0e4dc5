package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"terrain-arena/internal/arena"
)

// FileName is looked up in the directory passed to Load
const FileName = "arena.cfg.json"

// ServerConfig holds the network server settings
type ServerConfig struct {
	Addr          string
	ClientDir     string
	PublicURL     string
	TickRate      int
	BroadcastRate int
	MaxSessions   int
	MaxPerIP      int
	MaxTotal      int
}

// AudioConfig holds the local sound settings
type AudioConfig struct {
	Enabled bool
	Volume  int
}

// RecorderConfig holds the round event writer settings
type RecorderConfig struct {
	FlushInterval time.Duration
	BatchSize     int
}

// Load sets defaults and reads the config file from configDir. A missing
// file is not an error; a malformed one is. ARENA_* environment variables
// override both.
func Load(configDir string) error {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logFile", "arena.log")

	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("server.clientDir", "./client")
	viper.SetDefault("server.publicURL", "http://localhost:8080")
	viper.SetDefault("server.tickRate", 60)
	viper.SetDefault("server.broadcastRate", 30)
	viper.SetDefault("server.maxSessions", 100)
	viper.SetDefault("server.maxPerIP", 5)
	viper.SetDefault("server.maxTotal", 200)

	viper.SetDefault("db.path", "arena.db")
	viper.SetDefault("auth.secret", "")

	viper.SetDefault("recorder.flushInterval", "5s")
	viper.SetDefault("recorder.batchSize", 50)

	def := arena.DefaultConfig()
	viper.SetDefault("round.adversaries", def.Adversaries)
	viper.SetDefault("round.adversariesFire", def.AdversariesFire)
	viper.SetDefault("round.mode", string(def.Mode))
	viper.SetDefault("round.viewportWidth", def.ViewportWidth)
	viper.SetDefault("round.viewportHeight", def.ViewportHeight)
	viper.SetDefault("round.cellSize", def.CellSize)
	viper.SetDefault("round.maxCells", def.MaxCells)

	viper.SetDefault("audio.enabled", true)
	viper.SetDefault("audio.volume", 50)

	viper.SetEnvPrefix("ARENA")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// GetString returns a string config value.
func GetString(key string) string {
	return viper.GetString(key)
}

// Set overrides a value, used for flags and generated secrets
func Set(key string, value any) {
	viper.Set(key, value)
}

// GetRoundConfig returns the default round settings
func GetRoundConfig() arena.Config {
	return arena.Config{
		Adversaries:     viper.GetInt("round.adversaries"),
		AdversariesFire: viper.GetBool("round.adversariesFire"),
		Mode:            arena.Mode(viper.GetString("round.mode")),
		ViewportWidth:   viper.GetFloat64("round.viewportWidth"),
		ViewportHeight:  viper.GetFloat64("round.viewportHeight"),
		CellSize:        viper.GetFloat64("round.cellSize"),
		MaxCells:        viper.GetInt("round.maxCells"),
	}
}

// GetServerConfig returns the server settings
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Addr:          viper.GetString("server.addr"),
		ClientDir:     viper.GetString("server.clientDir"),
		PublicURL:     strings.TrimRight(viper.GetString("server.publicURL"), "/"),
		TickRate:      viper.GetInt("server.tickRate"),
		BroadcastRate: viper.GetInt("server.broadcastRate"),
		MaxSessions:   viper.GetInt("server.maxSessions"),
		MaxPerIP:      viper.GetInt("server.maxPerIP"),
		MaxTotal:      viper.GetInt("server.maxTotal"),
	}
}

// GetAudioConfig returns the sound settings, volume clamped to 0..100
func GetAudioConfig() AudioConfig {
	v := viper.GetInt("audio.volume")
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return AudioConfig{Enabled: viper.GetBool("audio.enabled"), Volume: v}
}

// GetRecorderConfig returns the event writer settings
func GetRecorderConfig() RecorderConfig {
	return RecorderConfig{
		FlushInterval: viper.GetDuration("recorder.flushInterval"),
		BatchSize:     viper.GetInt("recorder.batchSize"),
	}
}
