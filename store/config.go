package store

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config selects a store from the environment. A journal DSN wins
// over a plain path; with neither set, Open returns no store and
// persistence is off.
type Config struct {
	Path       string `env:"REWIND_STORE_PATH"`
	JournalDSN string `env:"REWIND_JOURNAL_DSN"`
	JournalCap int    `env:"REWIND_JOURNAL_CAP" envDefault:"64"`
}

// FromEnv reads Config from the environment.
func FromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Open opens the configured store. It returns nil, nil when nothing
// is configured.
func (c *Config) Open() (Store, error) {
	switch {
	case c.JournalDSN != "":
		return OpenJournal(c.JournalDSN, c.JournalCap)
	case c.Path != "":
		return NewFile(c.Path), nil
	}
	return nil, nil
}
