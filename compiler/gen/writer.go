package gen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// File is a rendered file waiting to be written.
type File struct {
	// Record is the name of the record the file was rendered from.
	Record string
	// Path is relative to the writer directory, or absolute.
	Path string
	// Package is the package clause of the file.
	Package string
	File *jen.File
	// Scaffold files are written only if they do not exist yet.
	Scaffold bool
}

// Writer writes rendered files in parallel.
type Writer struct {
	dir     string
	workers int
	format  bool
	logger  *slog.Logger

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics WriterMetrics
}

// WriterMetrics tracks generation performance.
type WriterMetrics struct {
	FilesWritten int
	FilesSkipped int
	TotalBytes   int64
	RenderTime   time.Duration
	FormatTime   time.Duration
	WriteTime    time.Duration
}

// NewWriter creates a new writer into dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir:     dir,
		workers: runtime.GOMAXPROCS(0),
		format:  true,
		logger:  slog.Default(),
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithFormat sets whether files are passed through goimports.
func (w *Writer) WithFormat(format bool) *Writer {
	w.format = format
	return w
}

// WithLogger sets the logger of written files.
func (w *Writer) WithLogger(l *slog.Logger) *Writer {
	if l != nil {
		w.logger = l
	}
	return w
}

// Metrics returns the generation metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.metrics
}

// WriteAll renders and formats all files in parallel and writes them once
// every file is ready. A file that fails to render or format leaves the
// output directory untouched.
func (w *Writer) WriteAll(ctx context.Context, files []*File) error {
	outs := make([][]byte, len(files))
	eg, gctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, f := range files {
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out, err := w.prepare(f)
			outs[i] = out
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	if w.dir != "" {
		if err := os.MkdirAll(w.dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	eg, gctx = errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for i, f := range files {
		if outs[i] == nil {
			continue
		}
		eg.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return w.write(f, outs[i])
		})
	}
	return eg.Wait()
}

// path returns the destination of f. Absolute paths are kept as is.
func (w *Writer) path(f *File) string {
	if filepath.IsAbs(f.Path) {
		return f.Path
	}
	return filepath.Join(w.dir, f.Path)
}

// prepare renders and formats a single file. It returns nil for scaffold
// files that already exist.
func (w *Writer) prepare(f *File) ([]byte, error) {
	fullPath := w.path(f)
	if f.Scaffold {
		_, err := os.Stat(fullPath)
		switch {
		case err == nil:
			w.mu.Lock()
			w.metrics.FilesSkipped++
			w.mu.Unlock()
			w.logger.Debug("keep scaffold file", "record", f.Record, "path", fullPath)
			return nil, nil
		case !errors.Is(err, fs.ErrNotExist):
			return nil, NewGenerationError(f.Record, f.Path, "stat scaffold file", err)
		}
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := f.File.Render(&buf); err != nil {
		return nil, NewGenerationError(f.Record, f.Path, "render", err)
	}
	renderTime := time.Since(start)

	start = time.Now()
	out := buf.Bytes()
	if w.format {
		formatted, err := imports.Process(fullPath, out, nil)
		if err != nil {
			return nil, NewGenerationError(f.Record, f.Path, "format", err)
		}
		out = formatted
	}
	w.mu.Lock()
	w.metrics.RenderTime += renderTime
	w.metrics.FormatTime += time.Since(start)
	w.mu.Unlock()
	return out, nil
}

// write writes the prepared content of a single file.
func (w *Writer) write(f *File, out []byte) error {
	fullPath := w.path(f)
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError(f.Record, f.Path, "create directory", err)
	}
	if err := os.WriteFile(fullPath, out, 0o644); err != nil {
		return NewGenerationError(f.Record, f.Path, "write", err)
	}
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(out))
	w.metrics.WriteTime += time.Since(start)
	w.mu.Unlock()
	w.logger.Info("wrote file", "record", f.Record, "path", fullPath, "bytes", len(out))
	return nil
}
