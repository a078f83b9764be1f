package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// StorageConfig controls where tasks are persisted.
type StorageConfig struct {
	// Path is the flat task file, rewritten in full after every change.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is text, logfmt or json.
	Format string `mapstructure:"format" yaml:"format"`

	// Path is the log file. Logs never go to the terminal the calendar
	// draws on.
	Path string `mapstructure:"path" yaml:"path"`
}

// DisplayConfig holds rendering preferences.
type DisplayConfig struct {
	// View is the initial view, "week" or "month".
	View string `mapstructure:"view" yaml:"view"`

	// WeekStart is the first day of a week, "monday" or "sunday".
	WeekStart string `mapstructure:"week_start" yaml:"week_start"`

	// CellWidth is the width of one day column in characters.
	CellWidth int `mapstructure:"cell_width" yaml:"cell_width"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
}

// FirstWeekday maps Display.WeekStart to a time.Weekday, defaulting to Monday.
func (c *AppConfig) FirstWeekday() time.Weekday {
	if strings.EqualFold(c.Display.WeekStart, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// MonthView reports whether the calendar starts in month view.
func (c *AppConfig) MonthView() bool {
	return strings.EqualFold(c.Display.View, "month")
}

// Validate checks enumerated settings.
func (c *AppConfig) Validate() error {
	switch strings.ToLower(c.Display.View) {
	case "week", "month":
	default:
		return fmt.Errorf("display.view must be week or month, got %q", c.Display.View)
	}
	switch strings.ToLower(c.Display.WeekStart) {
	case "monday", "sunday":
	default:
		return fmt.Errorf("display.week_start must be monday or sunday, got %q", c.Display.WeekStart)
	}
	if c.Display.CellWidth < 11 {
		return fmt.Errorf("display.cell_width must be at least 11, got %d", c.Display.CellWidth)
	}
	if strings.TrimSpace(c.Storage.Path) == "" {
		return errors.New("storage.path must not be empty")
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/calendar/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(userDir(".config"), "calendar", "config.yaml")
}

// DefaultTaskFilePath returns ~/.local/share/calendar/tasks.txt.
func DefaultTaskFilePath() string {
	return filepath.Join(userDir(".local", "share"), "calendar", "tasks.txt")
}

// DefaultLogPath returns ~/.local/state/calendar/calendar.log.
func DefaultLogPath() string {
	return filepath.Join(userDir(".local", "state"), "calendar", "calendar.log")
}

func userDir(elem ...string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(append([]string{home}, elem...)...)
}

// SetDefaults registers default values on v so missing keys resolve to
// sensible values.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.path", DefaultTaskFilePath())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.path", DefaultLogPath())
	v.SetDefault("display.view", "week")
	v.SetDefault("display.week_start", "monday")
	v.SetDefault("display.cell_width", 16)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults are used. Values already bound on v
// (flags, environment) take precedence over the file.
func LoadConfig(v *viper.Viper, path string) (*AppConfig, error) {
	if v == nil {
		v = viper.New()
	}
	SetDefaults(v)
	v.SetEnvPrefix("CALENDAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		var pathErr *os.PathError
		if !errors.As(err, &notFound) && !errors.As(err, &pathErr) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Log.Path = expandHome(cfg.Log.Path)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("storage.path", cfg.Storage.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.format", cfg.Log.Format)
	v.Set("log.path", cfg.Log.Path)
	v.Set("display.view", cfg.Display.View)
	v.Set("display.week_start", cfg.Display.WeekStart)
	v.Set("display.cell_width", cfg.Display.CellWidth)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return p
		}
		return filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p
}
