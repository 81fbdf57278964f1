package config

import (
	"fmt"

	"github.com/kbukum/authkit/auth/oidc"
	"github.com/kbukum/authkit/logger"
	"github.com/kbukum/authkit/server"
	"github.com/kbukum/authkit/validation"
)

// Settings is the top-level configuration aggregate for an authkit
// service.
type Settings struct {
	Name        string                 `yaml:"name" mapstructure:"name"`
	Environment string                 `yaml:"environment" mapstructure:"environment"`
	Logging     logger.Config          `yaml:"logging" mapstructure:"logging"`
	Server      server.Config          `yaml:"server" mapstructure:"server"`
	Providers   map[string]oidc.Config `yaml:"providers" mapstructure:"providers"`
}

// ApplyDefaults applies defaults to every section.
func (s *Settings) ApplyDefaults() {
	if s.Environment == "" {
		s.Environment = "development"
	}
	s.Logging.ApplyDefaults()
	s.Server.ApplyDefaults()
	for name, p := range s.Providers {
		p.ApplyDefaults()
		s.Providers[name] = p
	}
}

// Validate validates every section. Provider entries are checked both
// structurally (tags) and semantically.
func (s *Settings) Validate() error {
	if err := s.Logging.Validate(); err != nil {
		return err
	}
	if err := s.Server.Validate(); err != nil {
		return err
	}
	for name, p := range s.Providers {
		if err := validation.Validate(p); err != nil {
			return fmt.Errorf("provider %q: %w", name, err)
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("provider %q: %w", name, err)
		}
	}
	return nil
}

// ConfigStore builds the read-only provider store consumed by the OIDC
// strategy.
func (s *Settings) ConfigStore() oidc.StaticConfigStore {
	store := make(oidc.StaticConfigStore, len(s.Providers))
	for name, p := range s.Providers {
		store[name] = p
	}
	return store
}
