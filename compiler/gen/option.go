package gen

import (
	"errors"
	"log/slog"
	"maps"
	"strings"

	"github.com/syssam/autocolumn/dialect"
)

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithPackage sets the import path of the target directory.
// For example: "github.com/org/project/models".
func WithPackage(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("Package", nil, "package cannot be empty")
		}
		c.Package = pkg
		return nil
	}
}

// WithTarget sets the output directory.
// The directory where generated code will be written.
func WithTarget(dir string) Option {
	return func(c *Config) error {
		if dir == "" {
			return NewConfigError("Target", nil, "target directory cannot be empty")
		}
		c.Target = dir
		return nil
	}
}

// WithInPlace sets whether augment files are written next to their record.
func WithInPlace(enabled bool) Option {
	return func(c *Config) error {
		c.InPlace = enabled
		return nil
	}
}

// WithNaming sets the casing convention of generated column identifiers.
func WithNaming(n Naming) Option {
	return func(c *Config) error {
		if n != NamingPlain && n != NamingGo {
			return NewConfigError("Naming", n, "unknown naming convention")
		}
		c.Naming = n
		return nil
	}
}

// ParseNaming parses a naming convention name: "plain" or "go".
func ParseNaming(s string) (Naming, error) {
	switch strings.ToLower(s) {
	case "", "plain":
		return NamingPlain, nil
	case "go":
		return NamingGo, nil
	default:
		return 0, NewConfigError("Naming", s, "unknown naming convention; use plain or go")
	}
}

// WithWrappers replaces the generic wrapper types unwrapped as nullable.
// Wrappers are written the way records refer to them, for example
// "sql.Null" or "null.Value".
func WithWrappers(wrappers ...string) Option {
	return func(c *Config) error {
		for _, w := range wrappers {
			if w == "" || strings.ContainsAny(w, "[]* ") {
				return NewConfigError("Wrappers", w, "wrapper must be a plain type name")
			}
		}
		c.Wrappers = wrappers
		return nil
	}
}

// WithImports adds package names to the default import map.
func WithImports(imports map[string]string) Option {
	return func(c *Config) error {
		if c.Imports == nil {
			c.Imports = make(map[string]string, len(imports))
		}
		maps.Copy(c.Imports, imports)
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("Workers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the generation logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("Logger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// WithDialect sets the SQL dialect used for snapshots and DDL.
// Supported dialects: "sqlite3", "mysql", "postgres".
func WithDialect(name string) Option {
	return func(c *Config) error {
		d, err := dialect.Normalize(name)
		if err != nil {
			return NewConfigError("Dialect", name, "unsupported dialect; use sqlite3, mysql, or postgres")
		}
		c.Dialect = d
		return nil
	}
}

// WithSnapshot sets the snapshot path and enables FeatureSnapshot.
func WithSnapshot(path string) Option {
	return func(c *Config) error {
		c.Snapshot = path
		c.Features = append(c.Features, FeatureSnapshot)
		return nil
	}
}

// WithFormat toggles goimports formatting of generated files. Unformatted
// files are written as rendered.
func WithFormat(enabled bool) Option {
	return func(c *Config) error {
		c.Format = enabled
		return nil
	}
}

// WithBuildFlags sets custom build flags for loading record packages.
func WithBuildFlags(flags ...string) Option {
	return func(c *Config) error {
		c.BuildFlags = append(c.BuildFlags, flags...)
		return nil
	}
}

// WithFeatures enables specific features.
func WithFeatures(features ...Feature) Option {
	return func(c *Config) error {
		c.Features = append(c.Features, features...)
		return nil
	}
}

// WithoutFeatures disables default features by name.
func WithoutFeatures(names ...string) Option {
	return func(c *Config) error {
		for _, n := range names {
			if _, ok := FeatureByName(n); !ok {
				return NewConfigError("Features", n, "unknown feature")
			}
		}
		c.DisabledFeatures = append(c.DisabledFeatures, names...)
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

// NewConfig creates a new Config with the defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := defaultConfig()
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
