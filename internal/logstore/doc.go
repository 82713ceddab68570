// Package logstore records and serves server log entries. Entries always
// land in an in-memory ring of recent records; when a database is
// configured they are additionally batched into Postgres for retention
// beyond process lifetime.
package logstore
