package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "ranobelib.yaml"

var ErrUnknownFormat = errors.New("unknown output format")

type Config struct {
	BaseURL    string `yaml:"base_url"`
	Headless   bool   `yaml:"headless"`
	ChromePath string `yaml:"chrome_path"`
	UserAgent  string `yaml:"user_agent"`

	NavigationTimeout time.Duration `yaml:"navigation_timeout"`
	ActionTimeout     time.Duration `yaml:"action_timeout"`
	ScrollDelay       time.Duration `yaml:"scroll_delay"`

	Database string `yaml:"database"`
	Output   string `yaml:"output"`
	Format   string `yaml:"format"`
	TextOnly bool   `yaml:"text_only"`

	Listen string `yaml:"listen"`
	Debug  bool   `yaml:"debug"`
}

// Options carries command line overrides. Zero values leave the file
// setting untouched.
type Options struct {
	Debug    bool
	Headed   bool
	Output   string
	Format   string
	TextOnly bool
	Listen   string
	Database string
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:           "https://ranobelib.me",
		Headless:          true,
		NavigationTimeout: 30 * time.Second,
		ActionTimeout:     30 * time.Second,
		ScrollDelay:       time.Second,
		Database:          "ranobelib.db",
		Output:            ".",
		Format:            "epub",
		Listen:            ":8080",
	}
}

func SaveYAML(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string, opts Options) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = DefaultPath
	}

	b, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	mergeConfig(cfg, opts)
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func mergeConfig(c *Config, o Options) {
	if o.Debug {
		c.Debug = true
	}
	if o.Headed {
		c.Headless = false
	}
	if o.Output != "" {
		c.Output = o.Output
	}
	if o.Format != "" {
		c.Format = o.Format
	}
	if o.TextOnly {
		c.TextOnly = true
	}
	if o.Listen != "" {
		c.Listen = o.Listen
	}
	if o.Database != "" {
		c.Database = o.Database
	}
}

func normalize(c *Config) error {
	def := DefaultConfig()
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.Output == "" {
		c.Output = def.Output
	}
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.ActionTimeout <= 0 {
		c.ActionTimeout = def.ActionTimeout
	}
	if c.NavigationTimeout < 0 {
		c.NavigationTimeout = 0
	}
	if c.ScrollDelay < 0 {
		c.ScrollDelay = 0
	}

	c.Format = strings.ToLower(strings.TrimSpace(c.Format))
	switch c.Format {
	case "":
		c.Format = def.Format
	case "epub", "text":
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, c.Format)
	}
	return nil
}

func (c *Config) Print() {
	fmt.Printf("base_url:           %s\n", c.BaseURL)
	fmt.Printf("headless:           %v\n", c.Headless)
	fmt.Printf("chrome_path:        %s\n", c.ChromePath)
	fmt.Printf("user_agent:         %s\n", c.UserAgent)
	fmt.Printf("navigation_timeout: %s\n", c.NavigationTimeout)
	fmt.Printf("action_timeout:     %s\n", c.ActionTimeout)
	fmt.Printf("scroll_delay:       %s\n", c.ScrollDelay)
	fmt.Printf("database:           %s\n", c.Database)
	fmt.Printf("output:             %s\n", c.Output)
	fmt.Printf("format:             %s\n", c.Format)
	fmt.Printf("text_only:          %v\n", c.TextOnly)
	fmt.Printf("listen:             %s\n", c.Listen)
	fmt.Printf("debug:              %v\n", c.Debug)
}
