package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"7070"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"1h"`
}

type Game struct {
	RoundDuration time.Duration `yaml:"round-duration" env:"GAME_ROUND_DURATION" env-default:"360s"`
	TickInterval  time.Duration `yaml:"tick-interval" env:"GAME_TICK_INTERVAL" env-default:"1s"`
	Mode          string        `yaml:"mode" env:"GAME_MODE" env-default:"pvp"`
	Difficulty    string        `yaml:"difficulty" env:"GAME_DIFFICULTY" env-default:"easy"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load reads path, applies env overrides and defaults, then validates the game section.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if config.Game.RoundDuration <= 0 {
		return nil, fmt.Errorf("round duration must be positive, got %s", config.Game.RoundDuration)
	}

	if config.Game.TickInterval <= 0 {
		return nil, fmt.Errorf("tick interval must be positive, got %s", config.Game.TickInterval)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
