// autocolumn generates column enumerations, entity and primary key types
// for Go record structs and YAML record schemas.
//
//	autocolumn generate ./models
//	autocolumn ddl --dialect postgres ./models
//	autocolumn check ./models
//	autocolumn verify --driver sqlite --dsn file:app.db ./models
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"github.com/urfave/cli/v3"
	_ "modernc.org/sqlite"

	"github.com/syssam/autocolumn/compiler"
	"github.com/syssam/autocolumn/compiler/gen"
	"github.com/syssam/autocolumn/dialect"
	"github.com/syssam/autocolumn/dialect/sql"
	"github.com/syssam/autocolumn/dialect/sql/schema"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newCommand(os.Stdout, os.Stderr).Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "autocolumn: %v\n", err)
		os.Exit(1)
	}
}

func newCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "autocolumn",
		Usage:     "generate column types for Go records",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "config file (default: autocolumn.yaml or autocolumn.toml in the working directory)",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "enable debug logging",
			},
		},
		Commands: []*cli.Command{
			generateCommand(stderr),
			ddlCommand(stdout, stderr),
			checkCommand(stdout, stderr),
			verifyCommand(stderr),
		},
	}
}

func generateCommand(stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "generate code for the records of the given paths",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "target", Usage: "output directory"},
			&cli.StringFlag{Name: "package", Usage: "import path of the output directory"},
			&cli.StringFlag{Name: "naming", Usage: "column identifier casing: plain or go"},
			&cli.StringFlag{Name: "dialect", Usage: "dialect of the stored snapshot"},
			&cli.BoolFlag{Name: "snapshot", Usage: "store a table snapshot for the check command"},
			&cli.BoolFlag{Name: "no-format", Usage: "write files without running goimports"},
			&cli.BoolFlag{Name: "watch", Aliases: []string{"w"}, Usage: "regenerate when the record sources change"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd, stderr)
			opts, err := options(cmd, logger)
			if err != nil {
				return err
			}
			paths := inputPaths(cmd)
			run := func(ctx context.Context) error {
				start := time.Now()
				res, err := compiler.Generate(ctx, paths, opts...)
				if err != nil {
					return err
				}
				logger.Info("generated",
					"records", len(res.Descriptors),
					"written", res.Metrics.FilesWritten,
					"skipped", res.Metrics.FilesSkipped,
					"duration", time.Since(start).Round(time.Millisecond),
				)
				return nil
			}
			err = run(ctx)
			if !cmd.Bool("watch") {
				return err
			}
			if err != nil {
				logger.Error("generation failed", "error", err)
			}
			return compiler.NewWatcher(paths, logger).Watch(ctx, run)
		},
	}
}

func ddlCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "ddl",
		Usage:     "print the CREATE TABLE statements of the records",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dialect", Usage: "sqlite3, mysql or postgres"},
			&cli.BoolFlag{Name: "hcl", Usage: "print an atlas HCL schema instead of SQL"},
			&cli.StringFlag{Name: "schema", Usage: "schema name of the HCL document"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			tables, c, err := tables(ctx, cmd, stderr)
			if err != nil {
				return err
			}
			if cmd.Bool("hcl") {
				b, err := schema.MarshalHCL(c.Dialect, cmd.String("schema"), tables)
				if err != nil {
					return err
				}
				_, err = stdout.Write(b)
				return err
			}
			ddl, err := schema.DDL(ctx, c.Dialect, tables)
			if err != nil {
				return err
			}
			for _, s := range ddl {
				if _, err := fmt.Fprintf(stdout, "%s;\n", strings.TrimSuffix(s, ";")); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func checkCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "diff the records against the stored table snapshot",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "snapshot-file", Usage: "snapshot path (default: .autocolumn.snapshot in the target)"},
			&cli.BoolFlag{Name: "allow-drop", Usage: "report dropped tables and columns as warnings"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd, stderr)
			opts, err := options(cmd, logger)
			if err != nil {
				return err
			}
			var vopts []schema.ValidateOption
			if cmd.Bool("allow-drop") {
				vopts = append(vopts, schema.AllowDropTable(), schema.AllowDropColumn())
			}
			r, err := compiler.Check(ctx, inputPaths(cmd), vopts, opts...)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, r)
			if r.HasChanges() {
				return errors.New("records changed since the last generation")
			}
			return nil
		},
	}
}

func verifyCommand(stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "verify",
		Usage:     "create the tables of the records in a rolled back transaction",
		ArgsUsage: "[paths...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "driver", Usage: "database/sql driver: sqlite, mysql or postgres", Required: true},
			&cli.StringFlag{Name: "dsn", Usage: "data source name", Required: true, Sources: cli.EnvVars("AUTOCOLUMN_DSN")},
			&cli.DurationFlag{Name: "slow", Usage: "log statements slower than this", Value: time.Second},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			logger := newLogger(cmd, stderr)
			tables, _, err := tables(ctx, cmd, stderr)
			if err != nil {
				return err
			}
			drv, err := sql.Open(cmd.String("driver"), cmd.String("dsn"))
			if err != nil {
				return err
			}
			defer drv.Close()
			var d dialect.Driver = drv
			if cmd.Bool("verbose") {
				d = sql.NewDebugDriver(d, logger)
			}
			stats := sql.NewStatsDriver(d, sql.WithSlowThreshold(cmd.Duration("slow")), sql.WithStatsLogger(logger))
			err = schema.Verify(ctx, stats, tables)
			logger.Info("verified", "dialect", drv.Dialect(), "tables", len(tables), "stats", stats.QueryStats().Stats().String())
			return err
		},
	}
}

func tables(ctx context.Context, cmd *cli.Command, stderr io.Writer) ([]*schema.Table, *gen.Config, error) {
	opts, err := options(cmd, newLogger(cmd, stderr))
	if err != nil {
		return nil, nil, err
	}
	return compiler.Tables(ctx, inputPaths(cmd), opts...)
}

func newLogger(cmd *cli.Command, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// options returns the generation options of the config file followed by
// those of the command flags.
func options(cmd *cli.Command, logger *slog.Logger) ([]gen.Option, error) {
	var opts []gen.Option
	path := cmd.String("config")
	if path == "" {
		path = compiler.FindConfig(".")
	}
	if path != "" {
		cfg, err := compiler.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		if opts, err = cfg.Options(); err != nil {
			return nil, err
		}
		logger.Debug("loaded config", "path", path)
	}
	opts = append(opts, gen.WithLogger(logger))
	for _, f := range cmd.FlagNames() {
		if !cmd.IsSet(f) {
			continue
		}
		switch f {
		case "target":
			opts = append(opts, gen.WithTarget(cmd.String(f)))
		case "package":
			opts = append(opts, gen.WithPackage(cmd.String(f)))
		case "naming":
			n, err := gen.ParseNaming(cmd.String(f))
			if err != nil {
				return nil, err
			}
			opts = append(opts, gen.WithNaming(n))
		case "dialect":
			opts = append(opts, gen.WithDialect(cmd.String(f)))
		case "snapshot":
			if cmd.Bool(f) {
				opts = append(opts, gen.WithFeatures(gen.FeatureSnapshot))
			}
		case "snapshot-file":
			opts = append(opts, gen.WithSnapshot(cmd.String(f)))
		case "no-format":
			opts = append(opts, gen.WithFormat(!cmd.Bool(f)))
		}
	}
	return opts, nil
}

func inputPaths(cmd *cli.Command) []string {
	if cmd.Args().Len() == 0 {
		return []string{"."}
	}
	return cmd.Args().Slice()
}
