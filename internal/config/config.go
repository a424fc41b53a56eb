// Package config holds the service settings and loads them from defaults, an
// optional YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/dusk-indust/syntax-highlighter/internal/languages"
)

// Defaults.
const (
	DefaultAddr            = ":9238"
	DefaultRequestTimeout  = 10 * time.Second
	DefaultMaxRequestBytes = 10 << 20
)

// Config holds service-level settings.
type Config struct {
	Addr            string        `mapstructure:"addr" yaml:"addr" validate:"required"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	MaxRequestBytes int64         `mapstructure:"max_request_bytes" yaml:"max_request_bytes" validate:"gt=0"`
	// WarmLanguages lists the grammars loaded at startup. Empty means all.
	WarmLanguages []string  `mapstructure:"warm_languages" yaml:"warm_languages,omitempty" validate:"dive,parser"`
	MCP           MCPConfig `mapstructure:"mcp" yaml:"mcp"`
	Quiet         bool      `mapstructure:"quiet" yaml:"quiet"`
	SanityCheck   bool      `mapstructure:"sanity_check" yaml:"sanity_check"`
}

// MCPConfig controls the Model Context Protocol endpoint.
type MCPConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Addr:            DefaultAddr,
		RequestTimeout:  DefaultRequestTimeout,
		MaxRequestBytes: DefaultMaxRequestBytes,
	}
}

// WarmParsers resolves WarmLanguages. Call Validate first; unknown names are
// skipped here.
func (c *Config) WarmParsers() []languages.ParserID {
	ids := make([]languages.ParserID, 0, len(c.WarmLanguages))
	for _, name := range c.WarmLanguages {
		if id, ok := languages.FromName(name); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("parser", func(fl validator.FieldLevel) bool {
		_, ok := languages.FromName(fl.Field().String())
		return ok
	})
	return v
}

// Validate checks c and reports every invalid field at once.
func Validate(c *Config) error {
	var msgs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			msgs = append(msgs, fieldMessage(e))
		}
	}
	if c.RequestTimeout < 0 {
		msgs = append(msgs, fmt.Sprintf("request_timeout must not be negative (got %s)", c.RequestTimeout))
	}

	if len(msgs) > 0 {
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Namespace())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", e.Namespace(), e.Param(), e.Value())
	case "parser":
		return fmt.Sprintf("%s: unknown language %q", e.Namespace(), e.Value())
	}
	return fmt.Sprintf("%s failed rule %q (value: %v)", e.Namespace(), e.Tag(), e.Value())
}
