// Package sql implements dialect.Driver on top of database/sql.
//
// # Opening a Driver
//
// Open takes a database/sql driver name, so the driver package must be
// imported by the program:
//
//	import _ "modernc.org/sqlite"
//
//	drv, err := sql.Open("sqlite", "file:app.db")
//	if err != nil {
//	    return err
//	}
//	defer drv.Close()
//
// OpenDB wraps an existing *sql.DB with an explicit dialect name.
//
// # Statistics and Debugging
//
// StatsDriver counts statements, errors and slow statements, and logs the
// slow ones with log/slog. DebugDriver logs every statement at debug level.
// Both wrap any dialect.Driver and can be stacked:
//
//	stats := sql.NewStatsDriver(sql.NewDebugDriver(drv, logger), sql.WithSlowThreshold(time.Second))
package sql
