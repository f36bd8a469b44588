// Package database provides connection pool management for the optional
// PostgreSQL results store.
//
// The analyzer writes one row per instrument per run into the
// market_performance table. Schema creation is idempotent and runs at
// startup when the postgres driver is selected.
package database
