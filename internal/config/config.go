package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	TransportMemory = "memory"
	TransportRedis  = "redis"
)

type Config struct {
	LogLevel       string    `yaml:"log-level" env-default:"info"`
	LeaderboardKey string    `yaml:"leaderboard-key" env-default:"tictactoe:leaderboard"`
	Transport      Transport `yaml:"transport"`
	Redis          Redis     `yaml:"redis"`
}

type Transport struct {
	// Backend - "memory" keeps rooms inside one process, "redis" shares them
	// between processes over pub/sub.
	Backend string `yaml:"backend" env-default:"memory"`
}

type Redis struct {
	Host string `yaml:"host" env-default:"localhost"`
	Port string `yaml:"port" env-default:"6379"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
