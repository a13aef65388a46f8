// Package config loads lingua settings from defaults, an optional YAML file,
// .env files and LINGUA_* environment variables, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/abhisek/lingua/internal/difficulty"
)

// EnvPrefix is prepended to every environment override, so database.dsn is
// read from LINGUA_DATABASE_DSN.
const EnvPrefix = "LINGUA"

// Config holds all configuration for the CLI.
type Config struct {
	Database     DatabaseConfig     `mapstructure:"database"`
	Log          LogConfig          `mapstructure:"log"`
	User         UserConfig         `mapstructure:"user"`
	Session      SessionConfig      `mapstructure:"session"`
	Achievements AchievementsConfig `mapstructure:"achievements"`
	Curriculum   CurriculumConfig   `mapstructure:"curriculum"`
	Reminder     ReminderConfig     `mapstructure:"reminder"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	// DSN is a file path for sqlite or a connection URL for postgres. Empty
	// means the default sqlite file.
	DSN string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type UserConfig struct {
	ID string `mapstructure:"id"`
}

type SessionConfig struct {
	DefaultTier int `mapstructure:"default_tier"`
}

// AchievementsConfig points at a JSON catalog; empty uses the built-in one.
type AchievementsConfig struct {
	Catalog string `mapstructure:"catalog"`
}

// CurriculumConfig points at a JSON skill graph; empty uses the built-in one.
type CurriculumConfig struct {
	Path string `mapstructure:"path"`
}

type ReminderConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// Load reads configuration. configFile may be empty, in which case lingua.yaml
// is looked up in the working directory and $XDG_CONFIG_HOME/lingua, and a
// missing file is not an error. envFiles default to ".env"; missing env
// files are skipped and existing environment variables are never replaced.
func Load(configFile string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("lingua")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "lingua"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("user.id", "default")
	v.SetDefault("session.default_tier", int(difficulty.MinTier))

	v.SetDefault("achievements.catalog", "")
	v.SetDefault("curriculum.path", "")

	v.SetDefault("reminder.interval", time.Hour)
}

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: database.driver must be sqlite or postgres, got %q", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && c.Database.DSN == "" {
		return errors.New("config: database.dsn is required for postgres")
	}
	if strings.TrimSpace(c.User.ID) == "" {
		return errors.New("config: user.id must not be empty")
	}
	if err := difficulty.Tier(c.Session.DefaultTier).Validate(); err != nil {
		return fmt.Errorf("config: session.default_tier: %w", err)
	}
	if c.Reminder.Interval <= 0 {
		return fmt.Errorf("config: reminder.interval must be positive, got %s", c.Reminder.Interval)
	}
	return nil
}
