package adapter

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"
)

// RemoteMode selects the storage backend behind the library
type RemoteMode string

const (
	RemoteLocal RemoteMode = "local" // bbolt drive on this machine
	RemoteHTTP  RemoteMode = "http"  // drive server over HTTP
)

const envPrefix = "DRIVE"

// Config holds all application configuration
type Config struct {
	Remote  RemoteConfig  `mapstructure:"remote"`
	Library LibraryConfig `mapstructure:"library"`
	Server  ServerConfig  `mapstructure:"server"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// RemoteConfig holds storage backend configuration
type RemoteConfig struct {
	Mode    RemoteMode    `mapstructure:"mode"`     // "local" or "http"
	URL     string        `mapstructure:"url"`      // Server URL, http mode only
	Token   string        `mapstructure:"token"`    // Bearer token, http mode only
	DataDir string        `mapstructure:"data_dir"` // Database directory, local mode only
	Timeout time.Duration `mapstructure:"timeout"`  // Per-request timeout, http mode only
}

// LibraryConfig holds browsing configuration
type LibraryConfig struct {
	PageSize      int `mapstructure:"page_size"`
	TrashPageSize int `mapstructure:"trash_page_size"`
}

// ServerConfig holds configuration for `drive serve`
type ServerConfig struct {
	Addr  string `mapstructure:"addr"`
	Token string `mapstructure:"token"` // Empty disables auth
}

// UIConfig holds UI configuration
type UIConfig struct {
	OpenCommand string   `mapstructure:"open_command"` // Empty uses the system default
	OpenArgs    []string `mapstructure:"open_args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File   string `mapstructure:"file"`   // Log file path, "-" for stderr, empty to disable
	Level  string `mapstructure:"level"`  // DEBUG, INFO, WARN or ERROR
	Format string `mapstructure:"format"` // "json" or "text"
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Remote: RemoteConfig{
			Mode:    RemoteLocal,
			DataDir: defaultDataPath(),
			Timeout: 30 * time.Second,
		},
		Library: LibraryConfig{
			PageSize:      12,
			TrashPageSize: 12,
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8420",
		},
		UI: UIConfig{
			OpenArgs: []string{},
		},
		Logging: LoggingConfig{
			File:   defaultLogPath(),
			Level:  "INFO",
			Format: "json",
		},
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Remote.Validate(); err != nil {
		return fmt.Errorf("remote: %w", err)
	}
	if err := c.Library.Validate(); err != nil {
		return fmt.Errorf("library: %w", err)
	}
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	return nil
}

// Validate validates the remote configuration.
func (c *RemoteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(RemoteLocal, RemoteHTTP)),
		validation.Field(&c.URL, validation.When(c.Mode == RemoteHTTP, validation.Required)),
		validation.Field(&c.DataDir, validation.When(c.Mode == RemoteLocal, validation.Required)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
	)
}

// Validate validates the library configuration.
func (c *LibraryConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.PageSize, validation.Required, validation.Min(1), validation.Max(500)),
		validation.Field(&c.TrashPageSize, validation.Required, validation.Min(1), validation.Max(500)),
	)
}

// Validate validates the server configuration.
func (c *ServerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Addr, validation.Required),
	)
}

// Validate validates the logging configuration.
func (c *LoggingConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.By(func(v interface{}) error {
			level, _ := v.(string)
			if _, ok := logLevels[strings.ToUpper(level)]; level != "" && !ok {
				return fmt.Errorf("unknown level %q", level)
			}
			return nil
		})),
		validation.Field(&c.Format, validation.In("json", "text")),
	)
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "drive", "drive.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "drive", "drive.log")
	}
}

// defaultDataPath returns the default local drive directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "drive", "data")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "drive", "data")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "drive")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "drive")
	}
}

// LoadConfig loads configuration from path (or the default locations when
// empty) and DRIVE_* environment variables, then validates it.
// A missing config file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := newViper(cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	if cfg.Logging.File != StderrLogFile {
		cfg.Logging.File = expandHome(cfg.Logging.File)
	}
	cfg.Remote.DataDir = expandHome(cfg.Remote.DataDir)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes cfg as YAML to path, or to the default location when empty
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = filepath.Join(defaultConfigPath(), "config.yaml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	for key, value := range settings(cfg) {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// newViper returns a viper instance seeded with cfg as defaults. Every key
// must be known for AutomaticEnv to apply during Unmarshal.
func newViper(cfg *Config) *viper.Viper {
	v := viper.New()
	for key, value := range settings(cfg) {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// settings flattens cfg into snake_case viper keys
func settings(cfg *Config) map[string]any {
	return map[string]any{
		"remote.mode":             string(cfg.Remote.Mode),
		"remote.url":              cfg.Remote.URL,
		"remote.token":            cfg.Remote.Token,
		"remote.data_dir":         cfg.Remote.DataDir,
		"remote.timeout":          cfg.Remote.Timeout.String(),
		"library.page_size":       cfg.Library.PageSize,
		"library.trash_page_size": cfg.Library.TrashPageSize,
		"server.addr":             cfg.Server.Addr,
		"server.token":            cfg.Server.Token,
		"ui.open_command":         cfg.UI.OpenCommand,
		"ui.open_args":            cfg.UI.OpenArgs,
		"logging.file":            cfg.Logging.File,
		"logging.level":           cfg.Logging.Level,
		"logging.format":          cfg.Logging.Format,
	}
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
