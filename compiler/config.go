package compiler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/syssam/autocolumn/compiler/gen"
)

// DefaultConfigFiles are the config file names looked up by FindConfig, in
// order.
var DefaultConfigFiles = []string{"autocolumn.yaml", "autocolumn.yml", "autocolumn.toml"}

// FileConfig is the content of an autocolumn config file. Relative target
// and snapshot paths are resolved against the directory of the file.
//
//	target: ./models
//	package: github.com/org/project/models
//	naming: go
//	dialect: postgres
//	features: [schema/snapshot]
type FileConfig struct {
	Target           string            `yaml:"target" toml:"target"`
	Package          string            `yaml:"package" toml:"package"`
	Header           string            `yaml:"header" toml:"header"`
	Naming           string            `yaml:"naming" toml:"naming" validate:"omitempty,oneof=plain go"`
	Wrappers         []string          `yaml:"wrappers" toml:"wrappers" validate:"dive,required"`
	Imports          map[string]string `yaml:"imports" toml:"imports" validate:"dive,keys,required,endkeys,required"`
	Workers          int               `yaml:"workers" toml:"workers" validate:"gte=0"`
	Dialect          string            `yaml:"dialect" toml:"dialect" validate:"omitempty,oneof=sqlite3 sqlite mysql mariadb postgres postgresql pgx"`
	Snapshot         string            `yaml:"snapshot" toml:"snapshot"`
	Format           *bool             `yaml:"format" toml:"format"`
	BuildFlags       []string          `yaml:"build_flags" toml:"build_flags"`
	Features         []string          `yaml:"features" toml:"features" validate:"dive,required"`
	DisabledFeatures []string          `yaml:"disabled_features" toml:"disabled_features" validate:"dive,required"`

	dir string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// LoadConfig reads and validates the YAML or TOML config file at path.
func LoadConfig(path string) (*FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("compiler: read config: %w", err)
	}
	cfg := &FileConfig{dir: filepath.Dir(path)}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, cfg)
	case ".toml":
		_, err = toml.Decode(string(b), cfg)
	default:
		return nil, gen.NewConfigError("Config", path, "unsupported config format "+ext+"; use .yaml or .toml")
	}
	if err != nil {
		return nil, fmt.Errorf("compiler: parse config %s: %w", path, err)
	}
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			e := verrs[0]
			return nil, gen.NewConfigError(e.Field(), e.Value(), fmt.Sprintf("%s: failed on the %q rule", path, e.Tag()))
		}
		return nil, fmt.Errorf("compiler: validate config %s: %w", path, err)
	}
	return cfg, nil
}

// FindConfig returns the first default config file found in dir, or an
// empty string.
func FindConfig(dir string) string {
	for _, name := range DefaultConfigFiles {
		p := filepath.Join(dir, name)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p
		}
	}
	return ""
}

// Options converts the config into generation options. Options given on the
// command line are applied after them, so they take precedence.
func (f *FileConfig) Options() ([]gen.Option, error) {
	var opts []gen.Option
	if f.Target != "" {
		opts = append(opts, gen.WithTarget(f.resolve(f.Target)))
	}
	if f.Package != "" {
		opts = append(opts, gen.WithPackage(f.Package))
	}
	if f.Header != "" {
		opts = append(opts, gen.WithHeader(f.Header))
	}
	if f.Naming != "" {
		n, err := gen.ParseNaming(f.Naming)
		if err != nil {
			return nil, err
		}
		opts = append(opts, gen.WithNaming(n))
	}
	if len(f.Wrappers) > 0 {
		opts = append(opts, gen.WithWrappers(f.Wrappers...))
	}
	if len(f.Imports) > 0 {
		opts = append(opts, gen.WithImports(f.Imports))
	}
	if f.Workers > 0 {
		opts = append(opts, gen.WithWorkers(f.Workers))
	}
	if f.Dialect != "" {
		opts = append(opts, gen.WithDialect(f.Dialect))
	}
	if f.Snapshot != "" {
		opts = append(opts, gen.WithSnapshot(f.resolve(f.Snapshot)))
	}
	if f.Format != nil {
		opts = append(opts, gen.WithFormat(*f.Format))
	}
	if len(f.BuildFlags) > 0 {
		opts = append(opts, gen.WithBuildFlags(f.BuildFlags...))
	}
	features := make([]gen.Feature, 0, len(f.Features))
	for _, name := range f.Features {
		ft, ok := gen.FeatureByName(name)
		if !ok {
			return nil, gen.NewConfigError("Features", name, "unknown feature")
		}
		features = append(features, ft)
	}
	if len(features) > 0 {
		opts = append(opts, gen.WithFeatures(features...))
	}
	if len(f.DisabledFeatures) > 0 {
		opts = append(opts, gen.WithoutFeatures(f.DisabledFeatures...))
	}
	return opts, nil
}

func (f *FileConfig) resolve(p string) string {
	if filepath.IsAbs(p) || f.dir == "" {
		return p
	}
	return filepath.Join(f.dir, p)
}
