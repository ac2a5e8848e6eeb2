// Package compiler runs the autocolumn code generation for a set of input
// paths. It loads the records with the load package, renders and writes them
// with the gen package, and stores or checks the table snapshot with the
// dialect/sql/schema package.
//
//	res, err := compiler.Generate(ctx, []string{"./models"}, gen.WithFormat(true))
package compiler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/syssam/autocolumn/compiler/gen"
	"github.com/syssam/autocolumn/compiler/load"
	"github.com/syssam/autocolumn/dialect/sql/schema"
)

// LoadRecords loads the records of the given paths. A path is a YAML schema
// file, a Go source file, a directory of Go files or a package pattern
// (for example "./models/..."). Records are returned in path order.
func LoadRecords(ctx context.Context, paths []string, buildFlags ...string) ([]*load.Record, error) {
	var (
		records  []*load.Record
		patterns []string
	)
	for _, p := range paths {
		var (
			rs  []*load.Record
			err error
		)
		switch ext := filepath.Ext(p); {
		case ext == ".yaml" || ext == ".yml":
			rs, err = load.ParseYAML(p, nil)
		case ext == ".go":
			rs, err = load.ParseFile(p, nil)
		case isDir(p):
			rs, err = load.ParseDir(p)
		default:
			patterns = append(patterns, p)
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	if len(patterns) > 0 {
		rs, err := load.Packages(ctx, patterns, buildFlags...)
		if err != nil {
			return nil, err
		}
		records = append(records, rs...)
	}
	return records, nil
}

// Generate loads the records of the given paths and generates their code.
// Without an explicit target, augment files are written next to their
// records, and module packages and the snapshot under the first input path.
// With a target, all augment records must belong to one package. When
// FeatureSnapshot is enabled, the table snapshot is written after the code.
func Generate(ctx context.Context, paths []string, opts ...gen.Option) (*gen.Result, error) {
	c, records, err := prepare(ctx, paths, opts)
	if err != nil {
		return nil, err
	}
	res, err := c.Generate(ctx, records)
	if err != nil {
		return nil, err
	}
	if !c.FeatureEnabled(gen.FeatureSnapshot.Name) {
		return res, nil
	}
	tables := schema.FromDescriptors(res.Descriptors)
	logValidation(c, schema.ValidateSchema(tables))
	if err := schema.WriteSnapshot(c.SnapshotPath(), schema.NewSnapshot(c.Dialect, tables)); err != nil {
		return nil, err
	}
	c.Logger.Info("wrote snapshot", "path", c.SnapshotPath(), "tables", len(tables))
	return res, nil
}

// Tables loads the records of the given paths and returns the tables of
// those with an entity identity, without writing any file.
func Tables(ctx context.Context, paths []string, opts ...gen.Option) ([]*schema.Table, *gen.Config, error) {
	c, records, err := prepare(ctx, paths, opts)
	if err != nil {
		return nil, nil, err
	}
	descs := make([]*gen.Descriptor, 0, len(records))
	for _, r := range records {
		d, err := c.Assemble(r)
		if err != nil {
			return nil, nil, err
		}
		descs = append(descs, d)
	}
	tables := schema.FromDescriptors(descs)
	logValidation(c, schema.ValidateSchema(tables))
	return tables, c, nil
}

// Check diffs the tables of the given paths against the stored snapshot.
// A result with changes means the records changed since the last generation.
func Check(ctx context.Context, paths []string, vopts []schema.ValidateOption, opts ...gen.Option) (*schema.ValidationResult, error) {
	tables, c, err := Tables(ctx, paths, opts...)
	if err != nil {
		return nil, err
	}
	snap, err := schema.ReadSnapshot(c.SnapshotPath())
	if err != nil {
		return nil, err
	}
	return schema.ValidateDiff(snap.Tables, tables, vopts...), nil
}

func prepare(ctx context.Context, paths []string, opts []gen.Option) (*gen.Config, []*load.Record, error) {
	if len(paths) == 0 {
		return nil, nil, gen.NewConfigError("Paths", nil, "no input paths")
	}
	c, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, nil, err
	}
	if c.Target == "" {
		c.Target = defaultTarget(paths[0])
		c.InPlace = true
	}
	records, err := LoadRecords(ctx, paths, c.BuildFlags...)
	if err != nil {
		return nil, nil, err
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("compiler: no records found in %s", strings.Join(paths, ", "))
	}
	return c, records, nil
}

// defaultTarget returns the directory of an input path: the path itself for
// directories, the parent directory of files and the pattern root of
// package patterns.
func defaultTarget(p string) string {
	if isDir(p) {
		return p
	}
	if ext := filepath.Ext(p); ext == ".go" || ext == ".yaml" || ext == ".yml" {
		return filepath.Dir(p)
	}
	return filepath.Clean(strings.TrimSuffix(p, "/..."))
}

func logValidation(c *gen.Config, r *schema.ValidationResult) {
	for _, e := range r.Errors {
		c.Logger.Error("invalid table", "table", e.Table, "column", e.Column, "reason", e.Message)
	}
	for _, w := range r.Warnings {
		c.Logger.Warn("table warning", "table", w.Table, "column", w.Column, "reason", w.Message)
	}
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
