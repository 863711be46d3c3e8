package config

import "testing"

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.WSPort != 8080 {
		t.Errorf("WSPort = %d, want 8080", cfg.WSPort)
	}
	if cfg.MaxPlayers != 11 || cfg.MinPlayers != 2 {
		t.Errorf("player limits = %d/%d, want 11/2", cfg.MaxPlayers, cfg.MinPlayers)
	}
	if cfg.RoomCodeLength != 6 {
		t.Errorf("RoomCodeLength = %d, want 6", cfg.RoomCodeLength)
	}
	if cfg.AllowReconnect {
		t.Error("AllowReconnect should default to false")
	}
	if cfg.DatabaseURL != "" {
		t.Error("DatabaseURL should default to empty")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("WS_PORT", "9999")
	t.Setenv("MAX_PLAYERS", "4")
	t.Setenv("ALLOW_RECONNECT", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg := Load()
	if cfg.WSPort != 9999 {
		t.Errorf("WSPort = %d, want 9999", cfg.WSPort)
	}
	if cfg.MaxPlayers != 4 {
		t.Errorf("MaxPlayers = %d, want 4", cfg.MaxPlayers)
	}
	if !cfg.AllowReconnect {
		t.Error("ALLOW_RECONNECT=true should be applied")
	}
	if cfg.DatabaseURL != "postgres://localhost/test" {
		t.Errorf("DatabaseURL = %q", cfg.DatabaseURL)
	}
}

func TestInvalidEnvValuesKeepDefaults(t *testing.T) {
	t.Setenv("WS_PORT", "not-a-number")
	t.Setenv("ALLOW_RECONNECT", "not-a-bool")

	cfg := Load()
	if cfg.WSPort != 8080 {
		t.Errorf("WSPort = %d, invalid value should keep the default", cfg.WSPort)
	}
	if cfg.AllowReconnect {
		t.Error("invalid bool should keep the default")
	}
}
