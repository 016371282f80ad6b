package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the full server configuration
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	Game   GameConfig   `mapstructure:"game"`
	Arena  ArenaConfig  `mapstructure:"arena"`
	Log    LogConfig    `mapstructure:"log"`
	Auth   AuthConfig   `mapstructure:"auth"`
}

// ServerConfig covers the HTTP/WebSocket listener
type ServerConfig struct {
	Addr          string `mapstructure:"addr"`
	ClientDir     string `mapstructure:"client_dir"`
	SnapshotCodec string `mapstructure:"snapshot_codec"` // "json" or "msgpack"
	MaxConns      int    `mapstructure:"max_conns"`
	MaxConnsPerIP int    `mapstructure:"max_conns_per_ip"`
}

// GameConfig covers the simulation loop
type GameConfig struct {
	TickInterval      time.Duration       `mapstructure:"tick_interval"`
	MaxPlayers        int                 `mapstructure:"max_players"`
	RespawnDelay      float64             `mapstructure:"respawn_delay"`
	ItemSpawnInterval float64             `mapstructure:"item_spawn_interval"`
	MaxItems          int                 `mapstructure:"max_items"`
	MaxProjectiles    int                 `mapstructure:"max_projectiles"`
	Seed              int64               `mapstructure:"seed"`
	Bots              []BotConfig         `mapstructure:"bots"`
	Loadouts          map[string][]string `mapstructure:"loadouts"`
}

// BotConfig describes one server-driven player spawned at startup
type BotConfig struct {
	Name      string `mapstructure:"name"`
	ClassType string `mapstructure:"class"`
	Team      int    `mapstructure:"team"`
}

// ArenaConfig describes the playfield
type ArenaConfig struct {
	Width       float64 `mapstructure:"width" json:"width"`
	Height      float64 `mapstructure:"height" json:"height"`
	SolidFloor  bool    `mapstructure:"solid_floor" json:"solidFloor"`
	KillMargin  float64 `mapstructure:"kill_margin" json:"killMargin"`
	PlayerStart Vector  `mapstructure:"player_start" json:"playerStart"`
}

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "console" or "json"
}

// AuthConfig holds the join-token signing settings
type AuthConfig struct {
	Secret   string        `mapstructure:"secret"`
	TokenTTL time.Duration `mapstructure:"token_ttl"`
}

var errBadConfig = errors.New("invalid config")

// DefaultConfig returns the built-in configuration without touching disk
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			Addr:          ":8080",
			ClientDir:     "./client",
			SnapshotCodec: CodecJSON,
			MaxConns:      1000,
			MaxConnsPerIP: 5,
		},
		Game: GameConfig{
			TickInterval:      16 * time.Millisecond,
			MaxPlayers:        16,
			RespawnDelay:      3,
			ItemSpawnInterval: 12,
			MaxItems:          4,
			MaxProjectiles:    500,
			Seed:              1,
		},
		Arena: ArenaConfig{
			Width:       2400,
			Height:      1200,
			SolidFloor:  false,
			KillMargin:  300,
			PlayerStart: Vector{X: 1180, Y: 600},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("server.addr", d.Server.Addr)
	v.SetDefault("server.client_dir", d.Server.ClientDir)
	v.SetDefault("server.snapshot_codec", d.Server.SnapshotCodec)
	v.SetDefault("server.max_conns", d.Server.MaxConns)
	v.SetDefault("server.max_conns_per_ip", d.Server.MaxConnsPerIP)
	v.SetDefault("game.tick_interval", d.Game.TickInterval)
	v.SetDefault("game.max_players", d.Game.MaxPlayers)
	v.SetDefault("game.respawn_delay", d.Game.RespawnDelay)
	v.SetDefault("game.item_spawn_interval", d.Game.ItemSpawnInterval)
	v.SetDefault("game.max_items", d.Game.MaxItems)
	v.SetDefault("game.max_projectiles", d.Game.MaxProjectiles)
	v.SetDefault("game.seed", d.Game.Seed)
	v.SetDefault("arena.width", d.Arena.Width)
	v.SetDefault("arena.height", d.Arena.Height)
	v.SetDefault("arena.solid_floor", d.Arena.SolidFloor)
	v.SetDefault("arena.kill_margin", d.Arena.KillMargin)
	v.SetDefault("arena.player_start.x", d.Arena.PlayerStart.X)
	v.SetDefault("arena.player_start.y", d.Arena.PlayerStart.Y)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("auth.secret", d.Auth.Secret)
	v.SetDefault("auth.token_ttl", d.Auth.TokenTTL)
}

// LoadConfig reads config.yaml from the given directory (if present) and
// ARENA_* environment variables on top of the defaults.
func LoadConfig(dir string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("arena")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configurations the simulation cannot run with
func (c Config) Validate() error {
	if c.Game.TickInterval <= 0 {
		return fmt.Errorf("%w: game.tick_interval must be positive", errBadConfig)
	}
	if c.Arena.Width <= 0 || c.Arena.Height <= 0 {
		return fmt.Errorf("%w: arena size must be positive", errBadConfig)
	}
	if c.Game.MaxPlayers <= 0 {
		return fmt.Errorf("%w: game.max_players must be positive", errBadConfig)
	}
	switch c.Server.SnapshotCodec {
	case CodecJSON, CodecMsgpack:
	default:
		return fmt.Errorf("%w: unknown snapshot codec %q", errBadConfig, c.Server.SnapshotCodec)
	}
	return nil
}
