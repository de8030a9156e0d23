package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	General GeneralConfig `mapstructure:"general"`
	Sources SourceConfig  `mapstructure:"source"`
	Clients ClientConfig  `mapstructure:"client"`
	History HistoryConfig `mapstructure:"history"`
	Log     LogConfig     `mapstructure:"log"`
}

type GeneralConfig struct {
	Source             string        `mapstructure:"default_source"`
	Client             string        `mapstructure:"download_client"`
	Theme              string        `mapstructure:"theme"`
	DateFormat         string        `mapstructure:"date_format"`
	Timeout            time.Duration `mapstructure:"timeout"`
	RequestProxy       string        `mapstructure:"request_proxy"`
	UserAgent          string        `mapstructure:"user_agent"`
	SaveConfigOnChange bool          `mapstructure:"save_config_on_change"`
	ScrollPadding      int           `mapstructure:"scroll_padding"`
}

type SourceConfig struct {
	Nyaa    IndexConfig `mapstructure:"nyaa"`
	Sukebei IndexConfig `mapstructure:"sukebei"`
}

// IndexConfig holds the per-index settings shared by every nyaa-style
// backend. Default selections are stored by name, not position, so a
// reordering of the picker lists doesn't silently change behavior.
type IndexConfig struct {
	BaseURL         string        `mapstructure:"base_url"`
	DefaultCategory string        `mapstructure:"default_category"`
	DefaultSort     string        `mapstructure:"default_sort"`
	DefaultFilter   string        `mapstructure:"default_filter"`
	DefaultSearch   string        `mapstructure:"default_search"`
	RSS             bool          `mapstructure:"rss"`
	Timeout         time.Duration `mapstructure:"timeout"`
}

type ClientConfig struct {
	Cmd  CmdClientConfig  `mapstructure:"cmd"`
	Save SaveClientConfig `mapstructure:"save"`
	Open OpenClientConfig `mapstructure:"open"`
}

type CmdClientConfig struct {
	Command string `mapstructure:"command"`
	Shell   string `mapstructure:"shell"`
}

type SaveClientConfig struct {
	Dir       string `mapstructure:"dir"`
	CreateDir bool   `mapstructure:"create_dir"`
	Overwrite bool   `mapstructure:"overwrite"`
}

type OpenClientConfig struct {
	Application string `mapstructure:"application"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		General: GeneralConfig{
			Source:             "nyaa",
			Client:             "cmd",
			Theme:              "default",
			Timeout:            30 * time.Second,
			UserAgent:          "toru/1.0 (terminal index client)",
			SaveConfigOnChange: true,
			ScrollPadding:      3,
		},
		Sources: SourceConfig{
			Nyaa: IndexConfig{
				BaseURL:         "https://nyaa.si/",
				DefaultCategory: "AllCategories",
				DefaultSort:     "Date",
				DefaultFilter:   "No Filter",
			},
			Sukebei: IndexConfig{
				BaseURL:         "https://sukebei.nyaa.si/",
				DefaultCategory: "AllCategories",
				DefaultSort:     "Date",
				DefaultFilter:   "No Filter",
			},
		},
		Clients: ClientConfig{
			Cmd: CmdClientConfig{
				Command: defaultClientCommand(),
				Shell:   defaultShell(),
			},
			Save: SaveClientConfig{
				Dir:       filepath.Join(homeDir, "Downloads"),
				CreateDir: true,
			},
			Open: OpenClientConfig{},
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(homeDir, ".toru", "history.db"),
		},
		Log: LogConfig{
			Level: "off",
			Path:  filepath.Join(homeDir, ".toru", "toru.log"),
		},
	}
}

func defaultClientCommand() string {
	switch runtime.GOOS {
	case "windows":
		return `start "" "{torrent}"`
	default:
		return "curl -sOJ {torrent}"
	}
}

func defaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd /C"
	}
	return "sh -c"
}

// DefaultOpener returns the platform launcher used by the open client when
// no application is configured.
func DefaultOpener() string {
	switch runtime.GOOS {
	case "darwin":
		return "open"
	case "windows":
		return "start"
	default:
		return "xdg-open"
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("general", cfg.General)
	v.SetDefault("source", cfg.Sources)
	v.SetDefault("client", cfg.Clients)
	v.SetDefault("history", cfg.History)
	v.SetDefault("log", cfg.Log)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "toru")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("TORU")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Defaults still apply; the caller surfaces the error and
			// keeps starting up.
			return defaultConfig(), fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return defaultConfig(), fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Clients.Save.Dir = expandPath(cfg.Clients.Save.Dir)
	cfg.History.Path = expandPath(cfg.History.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Convert durations to strings for TOML readability
	generalCfg := map[string]interface{}{
		"default_source":        config.General.Source,
		"download_client":       config.General.Client,
		"theme":                 config.General.Theme,
		"date_format":           config.General.DateFormat,
		"timeout":               config.General.Timeout.String(),
		"request_proxy":         config.General.RequestProxy,
		"user_agent":            config.General.UserAgent,
		"save_config_on_change": config.General.SaveConfigOnChange,
		"scroll_padding":        config.General.ScrollPadding,
	}

	v.Set("general", generalCfg)
	v.Set("source", config.Sources)
	v.Set("client", config.Clients)
	v.Set("history", config.History)
	v.Set("log", config.Log)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

// DefaultPath returns the location Save uses when no explicit path was given.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "toru", "config.toml")
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
