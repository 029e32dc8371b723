package gen

import (
	"errors"
	"log/slog"

	"github.com/syssam/cardgraph/schema"
)

// Config holds the configuration of a compilation run.
type Config struct {
	// Logger receives the diagnostics of the run. Defaults to slog.Default().
	Logger *slog.Logger
	// Matchers is the matcher catalog, in declaration order.
	Matchers []*Matcher
	// Overrides is the field override table.
	Overrides Overrides
	// BaseSchema is the schema shared by every card. It compiles to the
	// Card interface.
	BaseSchema *schema.Fragment
	// Source supplies the entity envelopes. A nil Source compiles the base
	// schema only.
	Source Source
}

// Option configures a compilation run.
type Option func(*Config) error

// WithLogger sets the logger receiving compilation diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithMatchers appends matchers to the catalog. A matcher needs a name,
// a Match predicate and a Process function.
func WithMatchers(matchers ...*Matcher) Option {
	return func(c *Config) error {
		for _, m := range matchers {
			switch {
			case m == nil:
				return NewConfigError("Matchers", nil, "matcher cannot be nil")
			case m.Name == "":
				return NewConfigError("Matchers", nil, "matcher name cannot be empty")
			case m.Match == nil || m.Process == nil:
				return NewConfigError("Matchers", m.Name, "matcher requires Match and Process")
			case m.Weight < 0:
				return NewConfigError("Matchers", m.Weight, "matcher weight cannot be negative")
			}
		}
		c.Matchers = append(c.Matchers, matchers...)
		return nil
	}
}

// WithOverrides replaces the field override table.
func WithOverrides(overrides Overrides) Option {
	return func(c *Config) error {
		for _, o := range overrides {
			if o.Key == "" || o.Field == nil {
				return NewConfigError("Overrides", o.Key, "override requires a key and a field factory")
			}
		}
		c.Overrides = overrides
		return nil
	}
}

// WithBaseSchema replaces the schema shared by every card.
func WithBaseSchema(f *schema.Fragment) Option {
	return func(c *Config) error {
		if !f.IsObject() || len(f.Properties()) == 0 {
			return NewConfigError("BaseSchema", nil, "base schema must be an object schema with properties")
		}
		c.BaseSchema = f
		return nil
	}
}

// WithSource sets the source of the entity envelopes.
func WithSource(s Source) Option {
	return func(c *Config) error {
		if s == nil {
			return NewConfigError("Source", nil, "source cannot be nil")
		}
		c.Source = s
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with the default catalog, override table
// and base schema, then applies the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Logger:     slog.Default(),
		Matchers:   DefaultMatchers(),
		Overrides:  DefaultOverrides(),
		BaseSchema: schema.BaseCard(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
