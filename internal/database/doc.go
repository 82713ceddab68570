// Package database creates the pgx connection pool used for log
// retention. The database is optional; the server runs without one.
package database
