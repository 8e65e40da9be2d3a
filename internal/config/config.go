// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/courtside/internal/slot"
)

// Config holds the application configuration.
type Config struct {
	Club     ClubConfig     `toml:"club"`
	Schedule ScheduleConfig `toml:"schedule"`
	Storage  StorageConfig  `toml:"storage"`
	Server   ServerConfig   `toml:"server"`
	LLM      LLMConfig      `toml:"llm"`
	UI       UIConfig       `toml:"ui"`
}

// ClubConfig describes the venue being scheduled.
type ClubConfig struct {
	Timezone string  `toml:"timezone"` // IANA name, e.g. "Europe/Madrid"; empty means local
	Operator string  `toml:"operator"` // who "mine only" refers to
	Courts   []Court `toml:"courts"`   // empty means the courts seen in loaded bookings
}

// Court is one bookable resource, in display order.
type Court struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// ScheduleConfig holds the visible part of the day.
type ScheduleConfig struct {
	DayStart string `toml:"day_start"` // e.g., "07:00"
	DayEnd   string `toml:"day_end"`   // e.g., "23:30"
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath    string `toml:"db_path"`
	RemoteURL string `toml:"remote_url"` // when set, bookings come from a courtside server
}

// ServerConfig holds REST server settings.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "copilot", "ollama", "lmstudio"
	Model    string `toml:"model"`    // e.g., "gpt-4o"
	BaseURL  string `toml:"base_url"` // e.g., "http://localhost:11434"
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme       string `toml:"theme"`        // "mocha", "macchiato", "frappe", "latte"
	DefaultZoom string `toml:"default_zoom"` // "day", "week", "month"
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Schedule: ScheduleConfig{
			DayStart: "07:00",
			DayEnd:   "23:30",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		Server: ServerConfig{
			Addr:           ":8080",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		LLM: LLMConfig{
			Provider: "copilot",
			Model:    "gpt-4o",
			BaseURL:  "http://localhost:11434",
		},
		UI: UIConfig{
			Theme:       "frappe",
			DefaultZoom: "day",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "courtside.db"
	}
	return filepath.Join(home, ".local", "share", "courtside", "courtside.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "courtside", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
// A .env file next to the config is read first; variables already set win over it.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads KEY=value pairs without overriding the real environment.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("COURTSIDE_TIMEZONE"); v != "" {
		cfg.Club.Timezone = v
	}
	if v := os.Getenv("COURTSIDE_OPERATOR"); v != "" {
		cfg.Club.Operator = v
	}
	if v := os.Getenv("COURTSIDE_COURTS"); v != "" {
		cfg.Club.Courts = parseCourts(v)
	}

	if v := os.Getenv("COURTSIDE_DAY_START"); v != "" {
		cfg.Schedule.DayStart = v
	}
	if v := os.Getenv("COURTSIDE_DAY_END"); v != "" {
		cfg.Schedule.DayEnd = v
	}

	if v := os.Getenv("COURTSIDE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("COURTSIDE_REMOTE_URL"); v != "" {
		cfg.Storage.RemoteURL = v
	}

	if v := os.Getenv("COURTSIDE_SERVER_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("COURTSIDE_ALLOWED_ORIGINS"); v != "" {
		cfg.Server.AllowedOrigins = strings.Split(v, ",")
	}

	if v := os.Getenv("COURTSIDE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("COURTSIDE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("COURTSIDE_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("COURTSIDE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	if v := os.Getenv("COURTSIDE_UI_ZOOM"); v != "" {
		cfg.UI.DefaultZoom = v
	}
}

// parseCourts reads "id" or "id=Name" pairs separated by commas.
func parseCourts(v string) []Court {
	var courts []Court
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, name, ok := strings.Cut(part, "=")
		if !ok {
			name = id
		}
		courts = append(courts, Court{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name)})
	}
	return courts
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}

	seen := make(map[string]bool, len(c.Club.Courts))
	for _, court := range c.Club.Courts {
		if court.ID == "" {
			return errors.New("court id must be set")
		}
		if seen[court.ID] {
			return fmt.Errorf("duplicate court id: %s", court.ID)
		}
		seen[court.ID] = true
	}

	if err := validateTime(c.Schedule.DayStart, "day_start"); err != nil {
		return err
	}
	if err := validateTime(c.Schedule.DayEnd, "day_end"); err != nil {
		return err
	}
	if c.Schedule.DayStart >= c.Schedule.DayEnd {
		return errors.New("day_start must be before day_end")
	}

	if c.Storage.DBPath == "" && c.Storage.RemoteURL == "" {
		return errors.New("db_path or remote_url must be set")
	}

	switch strings.ToLower(c.UI.DefaultZoom) {
	case "", "day", "week", "month":
	default:
		return fmt.Errorf("default_zoom must be day, week or month, got %q", c.UI.DefaultZoom)
	}
	return nil
}

// validateTime checks that a time string is an HH:MM boundary of the half-hour grid.
func validateTime(t, field string) error {
	if len(t) != 5 || t[2] != ':' {
		return fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	if err := slot.OnGrid(t); err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	return nil
}

// Location returns the club's time zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Club.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Club.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Club.Timezone, err)
	}
	return loc, nil
}

// CourtIDs returns the configured court IDs in display order.
func (c *Config) CourtIDs() []string {
	ids := make([]string, len(c.Club.Courts))
	for i, court := range c.Club.Courts {
		ids[i] = court.ID
	}
	return ids
}

// CourtName returns the display name for a court ID, falling back to the ID.
func (c *Config) CourtName(id string) string {
	for _, court := range c.Club.Courts {
		if court.ID == id && court.Name != "" {
			return court.Name
		}
	}
	return id
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
