package gen

import (
	"log/slog"
	"path/filepath"
	"runtime"

	"github.com/syssam/autocolumn/dialect"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by autocolumn. DO NOT EDIT."

// DefaultSnapshot is the file name of the descriptor snapshot, relative to
// the target directory.
const DefaultSnapshot = ".autocolumn.snapshot"

// Naming selects how generated column identifiers are cased.
type Naming uint8

const (
	// NamingPlain capitalizes every word: "user_id" and "UserID" both
	// become "UserId".
	NamingPlain Naming = iota
	// NamingGo keeps Go initialisms upper-cased: "user_id" becomes "UserID".
	NamingGo
)

// String implements the fmt.Stringer interface.
func (n Naming) String() string {
	if n == NamingGo {
		return "go"
	}
	return "plain"
}

// Config holds the global codegen configuration.
type Config struct {
	// Target is the output directory. Augment files are written to it and
	// module packages to sub-directories of it.
	Target string
	// InPlace writes augment files into the directory of their record
	// instead of Target. Records without a directory are written to Target.
	InPlace bool
	// Package is the import path of Target, for example
	// "github.com/org/project/models". Optional.
	Package string
	// Header is the comment written at the top of every generated file.
	Header string
	// Naming selects the casing of generated column identifiers.
	Naming Naming
	// Wrappers are the generic types unwrapped as nullable, in addition to
	// pointers. Defaults to sql.Null.
	Wrappers []string
	// Imports maps package names to import paths for records that do not
	// carry their own import map, like YAML records.
	Imports map[string]string
	// Workers bounds the number of records rendered in parallel.
	Workers int
	// Logger receives the generation logs.
	Logger *slog.Logger
	// Dialect is the SQL dialect of the snapshot and DDL output.
	Dialect string
	// Snapshot is the path of the descriptor snapshot. Defaults to
	// DefaultSnapshot in Target.
	Snapshot string
	// Format runs goimports on rendered files before writing them.
	Format bool
	// BuildFlags are passed to the package loader.
	BuildFlags []string
	// Features are the enabled feature-flags, and DisabledFeatures the
	// default features turned off.
	Features         []Feature
	DisabledFeatures []string
}

func defaultConfig() *Config {
	return &Config{
		Header:   DefaultHeader,
		Wrappers: []string{"sql.Null"},
		Workers:  runtime.GOMAXPROCS(0),
		Logger:   slog.Default(),
		Dialect:  dialect.SQLite,
		Format:   true,
	}
}

// SnapshotPath returns the path of the descriptor snapshot.
func (c *Config) SnapshotPath() string {
	if c.Snapshot != "" {
		return c.Snapshot
	}
	return filepath.Join(c.Target, DefaultSnapshot)
}

func (c *Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.Default()
	}
	return c.Logger
}
