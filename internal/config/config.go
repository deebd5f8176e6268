package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"reservas/internal/models"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Cache struct {
		RedisAddress  string `yaml:"redis_address"`
		RedisPassword string `yaml:"redis_password"`
		RedisDB       int    `yaml:"redis_db"`
		TTLSeconds    int    `yaml:"ttl_seconds"`
	} `yaml:"cache"`

	Booking struct {
		LookaheadDays int `yaml:"lookahead_days"`
	} `yaml:"booking"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Audit struct {
		Enabled      bool   `yaml:"enabled"`
		DatabasePath string `yaml:"database_path"`
	} `yaml:"audit"`

	Notify struct {
		TelegramBotToken string  `yaml:"telegram_bot_token"`
		ChatIDs          []int64 `yaml:"chat_ids"`
	} `yaml:"notify"`

	Classifier struct {
		Rules []ClassifierRule `yaml:"rules"`
	} `yaml:"classifier"`

	DefaultRestaurant string              `yaml:"default_restaurant"`
	Restaurants       []models.Restaurant `yaml:"restaurants"`
}

// ClassifierRule maps an event-text substring to a classification.
type ClassifierRule struct {
	Contains string `yaml:"contains"`
	Class    string `yaml:"class"`
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

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 3000
	}
	if c.Booking.LookaheadDays == 0 {
		c.Booking.LookaheadDays = 30
	}
	if c.Audit.Enabled && c.Audit.DatabasePath == "" {
		c.Audit.DatabasePath = "data/reservas_audit.db"
	}
	for i := range c.Restaurants {
		r := &c.Restaurants[i]
		if r.Name == "" {
			r.Name = r.Slug
		}
		if r.Timezone == "" {
			r.Timezone = "Europe/Madrid"
		}
		if r.SlotIntervalMinutes == 0 {
			r.SlotIntervalMinutes = 15
		}
		if r.ReservationDurationMinutes == 0 {
			r.ReservationDurationMinutes = 90
		}
	}
	if c.DefaultRestaurant == "" && len(c.Restaurants) > 0 {
		c.DefaultRestaurant = c.Restaurants[0].Slug
	}
}

// validate is fatal at load time: the service never starts serving with an
// invalid restaurant definition.
func (c *Config) validate() error {
	if len(c.Restaurants) == 0 {
		return fmt.Errorf("no restaurant configuration found")
	}
	seen := make(map[string]bool, len(c.Restaurants))
	for i := range c.Restaurants {
		r := &c.Restaurants[i]
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Slug] {
			return fmt.Errorf("duplicate restaurant slug: %s", r.Slug)
		}
		seen[r.Slug] = true
	}
	if !seen[c.DefaultRestaurant] {
		return fmt.Errorf("default_restaurant %q is not a configured restaurant", c.DefaultRestaurant)
	}
	for _, rule := range c.Classifier.Rules {
		if rule.Contains == "" {
			return fmt.Errorf("classifier rule with empty contains")
		}
		switch models.EventClass(rule.Class) {
		case models.ClassClosed, models.ClassBlocked, models.ClassReservation, models.ClassOther:
		default:
			return fmt.Errorf("classifier rule %q: unknown class %q", rule.Contains, rule.Class)
		}
	}
	if c.Booking.LookaheadDays < 0 {
		return fmt.Errorf("booking.lookahead_days must not be negative")
	}
	return nil
}

// Restaurant looks up a restaurant by slug; an empty slug resolves to the
// configured default.
func (c *Config) Restaurant(slug string) (*models.Restaurant, error) {
	if slug == "" {
		slug = c.DefaultRestaurant
	}
	for i := range c.Restaurants {
		if c.Restaurants[i].Slug == slug {
			return &c.Restaurants[i], nil
		}
	}
	return nil, fmt.Errorf("restaurant config not found for slug: %s", slug)
}

// CacheTTL returns the availability cache TTL; zero disables caching.
func (c *Config) CacheTTL() time.Duration {
	if c.Cache.TTLSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
