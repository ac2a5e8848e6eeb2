package gen

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/syssam/autocolumn/compiler/load"
)

// Result is the outcome of a generation run.
type Result struct {
	// Descriptors are in the order of the input records.
	Descriptors []*Descriptor
	Files       []*File
	Metrics     WriterMetrics
}

// Generate generates the code of the given records with a configuration
// built from the given options.
func Generate(ctx context.Context, records []*load.Record, opts ...Option) (*Result, error) {
	c, err := NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return c.Generate(ctx, records)
}

// Generate renders all records in parallel and writes the rendered files
// into the target directory. Nothing is written unless every record renders
// successfully.
func (c *Config) Generate(ctx context.Context, records []*load.Record) (*Result, error) {
	if c.Target == "" {
		return nil, NewConfigError("Target", nil, "missing target directory in config")
	}
	var (
		log      = c.logger()
		descs    = make([]*Descriptor, len(records))
		rendered = make([][]*File, len(records))
	)
	eg, gctx := errgroup.WithContext(ctx)
	if c.Workers > 0 {
		eg.SetLimit(c.Workers)
	}
	for i, r := range records {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			d, files, err := c.Render(r)
			if err != nil {
				return err
			}
			descs[i], rendered[i] = d, files
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	var (
		files []*File
		paths = make(map[string]string)
		pkgs  = make(map[string]*File)
	)
	for i, d := range descs {
		for _, e := range d.Skipped {
			log.Warn("skipped annotation", "record", e.Record, "field", e.Field, "key", e.Key, "reason", e.Message, "pos", records[i].Pos)
		}
		log.Debug("rendered record", "record", d.Record, "shape", d.Shape, "columns", len(d.Columns), "files", len(rendered[i]))
		for _, f := range rendered[i] {
			if prev, ok := paths[f.Path]; ok {
				return nil, NewGenerationError(f.Record, f.Path, "output path is also generated for record "+prev, nil)
			}
			paths[f.Path] = f.Record
			dir := filepath.Dir(f.Path)
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(c.Target, dir)
			}
			if prev, ok := pkgs[dir]; ok && prev.Package != f.Package {
				return nil, NewGenerationError(f.Record, f.Path, fmt.Sprintf("package %s conflicts with package %s of record %s in %s", f.Package, prev.Package, prev.Record, dir), nil)
			}
			pkgs[dir] = f
			files = append(files, f)
		}
	}
	w := NewWriter(c.Target).
		WithWorkers(c.Workers).
		WithFormat(c.Format).
		WithLogger(log)
	if err := w.WriteAll(ctx, files); err != nil {
		return nil, err
	}
	if err := c.cleanup(); err != nil {
		return nil, err
	}
	return &Result{Descriptors: descs, Files: files, Metrics: w.Metrics()}, nil
}

// Render assembles the descriptor of a record and renders its files
// without writing them. File paths are relative to the target directory,
// except for augment files of in-place records, which are absolute paths in
// the record directory.
func (c *Config) Render(r *load.Record) (*Descriptor, []*File, error) {
	d, err := c.Assemble(r)
	if err != nil {
		return nil, nil, err
	}
	switch d.Shape {
	case load.ShapeModule:
		m, err := c.Module(d)
		if err != nil {
			return nil, nil, err
		}
		return d, []*File{
			{Record: d.Record, Path: path.Join(m.Package, m.Package+".go"), Package: m.Package, File: m.Schema},
			{Record: d.Record, Path: path.Join(m.Package, "relation.go"), Package: m.Package, File: m.Scaffold, Scaffold: true},
		}, nil
	default:
		f, err := c.Augment(d)
		if err != nil {
			return nil, nil, err
		}
		name := snake(d.Record) + "_autocolumn.go"
		if c.InPlace && r.Dir != "" {
			name = filepath.Join(r.Dir, name)
		}
		return d, []*File{
			{Record: d.Record, Path: name, Package: d.Package, File: f},
		}, nil
	}
}
