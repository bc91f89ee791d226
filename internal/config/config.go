package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/lu-zhengda/tagside/internal/domain"
	"github.com/lu-zhengda/tagside/internal/theme"
)

// Config holds all tagside configuration.
type Config struct {
	Web      WebConfig      `toml:"web"`
	UI       UIConfig       `toml:"ui"`
	Theme    ThemeConfig    `toml:"theme"`
	Accounts AccountsConfig `toml:"accounts"`
}

// WebConfig holds HTTP server settings.
type WebConfig struct {
	Addr     string `toml:"addr"`
	BasePath string `toml:"base_path"`
}

// UIConfig holds sidebar display settings.
type UIConfig struct {
	DisplayDensity string `toml:"display_density"`
	Language       string `toml:"language"`
}

// ThemeConfig overrides or extends the label color palette.
type ThemeConfig struct {
	Colors map[string]string `toml:"colors"`
}

// AccountsConfig holds account selection settings.
type AccountsConfig struct {
	Default string `toml:"default"`
}

func defaults() Config {
	return Config{
		Web: WebConfig{
			Addr: ":8420",
		},
		UI: UIConfig{
			DisplayDensity: string(domain.DensityComfy),
			Language:       "en",
		},
	}
}

// Load reads config from path. If path is empty, returns defaults.
func Load(path string) (*Config, error) {
	cfg := defaults()
	if path == "" {
		return &cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks values that would otherwise fail later at render time.
func (c *Config) Validate() error {
	if _, err := domain.ParseDensity(c.UI.DisplayDensity); err != nil {
		return err
	}
	if _, err := theme.New(c.Theme.Colors); err != nil {
		return err
	}
	return nil
}

// Density returns the configured display density, falling back to comfy.
func (c *Config) Density() domain.Density {
	d, err := domain.ParseDensity(c.UI.DisplayDensity)
	if err != nil {
		return domain.DensityComfy
	}
	return d
}

// Palette returns the label palette with the configured overrides applied.
func (c *Config) Palette() (theme.Palette, error) {
	return theme.New(c.Theme.Colors)
}

// ConfigDir returns the tagside config directory path.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "tagside")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "tagside")
}

// DataDir returns the tagside data directory path.
func DataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "tagside")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "tagside")
}
