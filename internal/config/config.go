package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"meetslot/internal/engine"
)

type Config struct {
	Calendar struct {
		CredentialsFile   string  `yaml:"credentials_file"`
		CalendarID        string  `yaml:"calendar_id"`
		RequestsPerSecond float64 `yaml:"requests_per_second"`
		Burst             int     `yaml:"burst"`
	} `yaml:"calendar"`

	Engine struct {
		SourceZone            string   `yaml:"source_zone"`
		DisplayZone           string   `yaml:"display_zone"`
		SlotTemplate          []string `yaml:"slot_template"`
		SlotDurationMinutes   int      `yaml:"slot_duration_minutes"`
		ReminderMinutesBefore int64    `yaml:"reminder_minutes_before"`
		ConferenceKey         string   `yaml:"conference_key"`
	} `yaml:"engine"`

	Booking struct {
		MaxAdvanceDays int  `yaml:"max_advance_days"`
		AllowWeekends  bool `yaml:"allow_weekends"`
	} `yaml:"booking"`

	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Redis struct {
		Address         string `yaml:"address"`
		Password        string `yaml:"password"`
		DB              int    `yaml:"db"`
		CacheTTLSeconds int    `yaml:"cache_ttl_seconds"`
	} `yaml:"redis"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err = cfg.validate(); err != nil {
		return nil, err
	}

	if cfg.Database.Path != "" {
		if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Engine.SourceZone == "" {
		c.Engine.SourceZone = "Europe/Paris"
	}
	if c.Engine.DisplayZone == "" {
		c.Engine.DisplayZone = c.Engine.SourceZone
	}
	if len(c.Engine.SlotTemplate) == 0 {
		c.Engine.SlotTemplate = []string{"08:00", "08:20", "08:40", "09:00", "09:20", "09:40"}
	}
	if c.Engine.SlotDurationMinutes <= 0 {
		c.Engine.SlotDurationMinutes = 20
	}
	if c.Engine.ReminderMinutesBefore <= 0 {
		c.Engine.ReminderMinutesBefore = 30
	}
	if c.Engine.ConferenceKey == "" {
		c.Engine.ConferenceKey = "hangoutsMeet"
	}
	if c.Booking.MaxAdvanceDays <= 0 {
		c.Booking.MaxAdvanceDays = 60
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/meetslot.db"
	}
}

// validate checks the slot template: every entry must be a valid wall-clock
// time in the source zone, the sequence strictly increasing, and consecutive
// starts at least one slot duration apart so applied slots never overlap.
func (c *Config) validate() error {
	if _, err := time.LoadLocation(c.Engine.SourceZone); err != nil {
		return fmt.Errorf("engine.source_zone: %w", err)
	}
	if _, err := time.LoadLocation(c.Engine.DisplayZone); err != nil {
		return fmt.Errorf("engine.display_zone: %w", err)
	}

	// Projected onto a fixed day far from any DST transition, so template
	// ordering can be compared as instants.
	day := engine.CivilDate{Year: 2025, Month: time.January, Day: 15}
	duration := c.SlotDuration()

	var prev time.Time
	for i, entry := range c.Engine.SlotTemplate {
		start, err := engine.ToInstant(day, entry, c.Engine.SourceZone)
		if err != nil {
			return fmt.Errorf("engine.slot_template[%d]: %w", i, err)
		}
		if i > 0 && start.Before(prev.Add(duration)) {
			return fmt.Errorf("engine.slot_template[%d]: %q overlaps the previous slot", i, entry)
		}
		prev = start
	}

	return nil
}

func (c *Config) SlotDuration() time.Duration {
	return time.Duration(c.Engine.SlotDurationMinutes) * time.Minute
}

func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Redis.CacheTTLSeconds) * time.Second
}

// EngineOptions maps the configuration onto engine options.
func (c *Config) EngineOptions() engine.Options {
	return engine.Options{
		SourceZone:   c.Engine.SourceZone,
		DisplayZone:  c.Engine.DisplayZone,
		SlotTemplate: c.Engine.SlotTemplate,
		SlotDuration: c.SlotDuration(),
		Malformed:    engine.TreatBusy,
		Booking: engine.BookingPolicy{
			ConferenceKey:   c.Engine.ConferenceKey,
			ReminderMethod:  "email",
			ReminderMinutes: c.Engine.ReminderMinutesBefore,
		},
	}
}
