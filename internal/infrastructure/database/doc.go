// Package database provides SQLite connectivity for the tsdata store.
//
// This package manages:
//   - Database connection pooling and lifecycle management
//   - Schema migrations embedded into the binary
//   - WAL mode for concurrent access
//   - Health checks
//
// The physical schema is the sole enforcer of the series-name shape rule
// (a CHECK constraint on tsdata.series_name); nothing in the application
// duplicates that validation.
//
// Usage:
//
//	db, err := database.Open(database.Config{Path: cfg.Database.Path, PoolSize: cfg.Database.PoolSize})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
package database
