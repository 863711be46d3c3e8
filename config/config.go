package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"
)

// Config holds all configurable server parameters.
type Config struct {
	WSPort           int    `json:"ws_port"`
	MaxPlayers       int    `json:"max_players"`
	MinPlayers       int    `json:"min_players"`
	MaxRounds        int    `json:"max_rounds"`
	RoomCodeLength   int    `json:"room_code_length"`
	MaxNameLength    int    `json:"max_name_length"`
	SweepIntervalSec int    `json:"sweep_interval_sec"`
	AllowReconnect   bool   `json:"allow_reconnect"`
	RateLimitPerSec  int    `json:"rate_limit_per_sec"`
	RateLimitBurst   int    `json:"rate_limit_burst"`
	DatabaseURL      string `json:"database_url"`
}

// Defaults returns a Config with all default values.
// AllowReconnect defaults to false: when a player drops, their seat is
// removed and their cards redistributed, and they cannot retake the seat.
func Defaults() *Config {
	return &Config{
		WSPort:           8080,
		MaxPlayers:       11,
		MinPlayers:       2,
		MaxRounds:        7,
		RoomCodeLength:   6,
		MaxNameLength:    20,
		SweepIntervalSec: 60,
		AllowReconnect:   false,
		RateLimitPerSec:  10,
		RateLimitBurst:   20,
	}
}

// Load reads configuration from an optional config.json file,
// then applies environment variable overrides. Fields not set
// in either source retain their default values.
func Load() *Config {
	cfg := Defaults()

	if f, err := os.Open("config.json"); err == nil {
		defer f.Close()
		if err := json.NewDecoder(f).Decode(cfg); err != nil {
			log.Printf("Warning: failed to parse config.json: %v", err)
		}
	}

	overrideInt(&cfg.WSPort, "WS_PORT")
	overrideInt(&cfg.MaxPlayers, "MAX_PLAYERS")
	overrideInt(&cfg.MinPlayers, "MIN_PLAYERS")
	overrideInt(&cfg.MaxRounds, "MAX_ROUNDS")
	overrideInt(&cfg.RoomCodeLength, "ROOM_CODE_LENGTH")
	overrideInt(&cfg.MaxNameLength, "MAX_NAME_LENGTH")
	overrideInt(&cfg.SweepIntervalSec, "SWEEP_INTERVAL_SEC")
	overrideBool(&cfg.AllowReconnect, "ALLOW_RECONNECT")
	overrideInt(&cfg.RateLimitPerSec, "RATE_LIMIT_PER_SEC")
	overrideInt(&cfg.RateLimitBurst, "RATE_LIMIT_BURST")
	overrideString(&cfg.DatabaseURL, "DATABASE_URL")

	return cfg
}

func overrideInt(field *int, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*field = n
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideBool(field *bool, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*field = b
		} else {
			log.Printf("Warning: invalid value for %s: %q", envKey, val)
		}
	}
}

func overrideString(field *string, envKey string) {
	if val := os.Getenv(envKey); val != "" {
		*field = val
	}
}
