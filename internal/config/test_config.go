package config

import "time"

// TestConfig returns a config suitable for testing
func TestConfig() *Config {
	cfg := defaultConfig()
	cfg.General.Timeout = 5 * time.Second
	cfg.General.UserAgent = "toru-test/1.0"
	cfg.General.SaveConfigOnChange = false
	cfg.History.Enabled = false
	return cfg
}
