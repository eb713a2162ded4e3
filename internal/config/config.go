// Package config loads the engine configuration: store selection,
// language vocabulary, and search behavior.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Version   int       `yaml:"version"`
	Database  Database  `yaml:"database"`
	Languages Languages `yaml:"languages"`
	Search    Search    `yaml:"search"`
	Page      Page      `yaml:"page"`
}

type Database struct {
	// Driver is "sqlite" or "postgres".
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Languages struct {
	Supported []string `yaml:"supported"`
	Default   string   `yaml:"default"`
}

type Search struct {
	// CaseInsensitive defaults to true.
	CaseInsensitive *bool `yaml:"case_insensitive"`
}

type Page struct {
	// DefaultSize is the page size used when the caller gives none.
	// The [0,1000] validation bound is fixed by contract, not here.
	DefaultSize int `yaml:"default_size"`
}

// Default returns the configuration used when no file is given: an
// English/Italian vocabulary over a local SQLite file.
func Default() Config {
	return Config{
		Version: 1,
		Database: Database{
			Driver: "sqlite",
			DSN:    "orgchart.db",
		},
		Languages: Languages{
			Supported: []string{"English", "Italian"},
			Default:   "English",
		},
		Page: Page{DefaultSize: 5},
	}
}

func ParseYAML(b []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	if c.Version != 1 {
		return Config{}, errors.New("config: unsupported version")
	}
	applyDefaults(&c)
	if err := validate(c); err != nil {
		return Config{}, err
	}
	return c, nil
}

func Load(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return ParseYAML(b)
}

func applyDefaults(c *Config) {
	def := Default()
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.DSN == "" {
		c.Database.DSN = DSNFromEnv(c.Database.Driver)
	}
	if len(c.Languages.Supported) == 0 {
		c.Languages.Supported = def.Languages.Supported
	}
	if c.Languages.Default == "" {
		c.Languages.Default = def.Languages.Default
	}
	if c.Page.DefaultSize == 0 {
		c.Page.DefaultSize = def.Page.DefaultSize
	}
}

func validate(c Config) error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("config: unknown database driver %q", c.Database.Driver)
	}
	if len(c.Languages.Supported) < 2 {
		return errors.New("config: at least two supported languages required")
	}
	if c.Page.DefaultSize < 0 || c.Page.DefaultSize > 1000 {
		return fmt.Errorf("config: default page size %d outside [0,1000]", c.Page.DefaultSize)
	}
	return nil
}

// CaseInsensitiveSearch resolves the search folding option, defaulting to
// case-insensitive.
func (c Config) CaseInsensitiveSearch() bool {
	if c.Search.CaseInsensitive == nil {
		return true
	}
	return *c.Search.CaseInsensitive
}

// DSNFromEnv builds a connection string from the environment when the
// config file gives none. DATABASE_URL wins; otherwise the DB_* variables
// assemble a postgres URL, and sqlite falls back to a local file.
func DSNFromEnv(driver string) string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}
	if driver == "sqlite" {
		return Default().Database.DSN
	}

	host := getenvDefault("DB_HOST", "127.0.0.1")
	port := getenvDefault("DB_PORT", "5432")
	user := getenvDefault("DB_USER", "orgchart")
	pass := getenvDefault("DB_PASSWORD", "orgchart")
	name := getenvDefault("DB_NAME", "orgchart")
	sslmode := getenvDefault("DB_SSLMODE", "disable")

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s", user, pass, host, port, name, sslmode)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
