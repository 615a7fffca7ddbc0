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

// ReminderConfig holds the completion reminder template.
type ReminderConfig struct {
	Title    string `mapstructure:"title" yaml:"title"`
	Subtitle string `mapstructure:"subtitle" yaml:"subtitle"`
	Sound    string `mapstructure:"sound" yaml:"sound"`

	// DelaySec is how long after backgrounding the reminder fires.
	DelaySec int `mapstructure:"delay_sec" yaml:"delay_sec"`
}

// SortConfig controls the debounced re-sort after checking a task.
type SortConfig struct {
	DebounceMs int `mapstructure:"debounce_ms" yaml:"debounce_ms"`
}

// DatabaseConfig locates the SQLite file holding scheduled reminders.
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig controls the file logger.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	Path  string `mapstructure:"path" yaml:"path"`
}

// PollConfig controls how often due reminders are checked.
type PollConfig struct {
	IntervalSec int `mapstructure:"interval_sec" yaml:"interval_sec"`
}

// MailConfig enables delivering reminders into an IMAP mailbox.
// The password is read from the system keyring, never from this file.
type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled" yaml:"enabled"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     string `mapstructure:"port" yaml:"port"`
	Username string `mapstructure:"username" yaml:"username"`
	TLS      bool   `mapstructure:"tls" yaml:"tls"`
	Mailbox  string `mapstructure:"mailbox" yaml:"mailbox"`
	From     string `mapstructure:"from" yaml:"from"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Reminder ReminderConfig `mapstructure:"reminder" yaml:"reminder"`
	Sort     SortConfig     `mapstructure:"sort" yaml:"sort"`
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
	Poll     PollConfig     `mapstructure:"poll" yaml:"poll"`
	Mail     MailConfig     `mapstructure:"mail" yaml:"mail"`
	Display  DisplayConfig  `mapstructure:"display" yaml:"display"`
}

// Notification converts the reminder section into the template the
// application state carries.
func (c *AppConfig) Notification() NotificationConfig {
	n := DefaultNotificationConfig()
	if c.Reminder.Title != "" {
		n.Title = c.Reminder.Title
	}
	if c.Reminder.Subtitle != "" {
		n.Subtitle = c.Reminder.Subtitle
	}
	n.Sound = c.Reminder.Sound
	if c.Reminder.DelaySec > 0 {
		n.Delay = time.Duration(c.Reminder.DelaySec) * time.Second
	}
	return n
}

// SortDebounce returns the delay between checking a task and re-sorting.
func (c *AppConfig) SortDebounce() time.Duration {
	if c.Sort.DebounceMs <= 0 {
		return time.Second
	}
	return time.Duration(c.Sort.DebounceMs) * time.Millisecond
}

// PollInterval returns how often the reminder poller wakes up.
func (c *AppConfig) PollInterval() time.Duration {
	if c.Poll.IntervalSec <= 0 {
		return time.Second
	}
	return time.Duration(c.Poll.IntervalSec) * time.Second
}

// ConfigDir returns ~/.config/todos, falling back to the working
// directory when the home directory is unknown.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "todos")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todos/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	n := DefaultNotificationConfig()
	return &AppConfig{
		Reminder: ReminderConfig{
			Title:    n.Title,
			Subtitle: n.Subtitle,
			Sound:    n.Sound,
			DelaySec: int(n.Delay / time.Second),
		},
		Sort:     SortConfig{DebounceMs: 1000},
		Database: DatabaseConfig{Path: filepath.Join(ConfigDir(), "todos.db")},
		Log: LogConfig{
			Level: "info",
			Path:  filepath.Join(ConfigDir(), "todos.log"),
		},
		Poll: PollConfig{IntervalSec: 1},
		Mail: MailConfig{
			Port:    "993",
			TLS:     true,
			Mailbox: "INBOX",
		},
		Display: DisplayConfig{Theme: "default"},
	}
}

// DefaultAppConfig returns the configuration used when no file exists.
func DefaultAppConfig() *AppConfig {
	return defaultAppConfig()
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	d := defaultAppConfig()
	v.SetDefault("reminder.title", d.Reminder.Title)
	v.SetDefault("reminder.subtitle", d.Reminder.Subtitle)
	v.SetDefault("reminder.sound", d.Reminder.Sound)
	v.SetDefault("reminder.delay_sec", d.Reminder.DelaySec)
	v.SetDefault("sort.debounce_ms", d.Sort.DebounceMs)
	v.SetDefault("database.path", d.Database.Path)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.path", d.Log.Path)
	v.SetDefault("poll.interval_sec", d.Poll.IntervalSec)
	v.SetDefault("mail.port", d.Mail.Port)
	v.SetDefault("mail.tls", d.Mail.TLS)
	v.SetDefault("mail.mailbox", d.Mail.Mailbox)
	v.SetDefault("display.theme", d.Display.Theme)

	v.SetEnvPrefix("TODOS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		if errors.As(err, &pathErr) {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
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

	v.Set("reminder", cfg.Reminder)
	v.Set("sort", cfg.Sort)
	v.Set("database", cfg.Database)
	v.Set("log", cfg.Log)
	v.Set("poll", cfg.Poll)
	v.Set("mail", cfg.Mail)
	v.Set("display", cfg.Display)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
