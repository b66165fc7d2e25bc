// Package postgres provides PostgreSQL implementations of the store
// interfaces. All implementations accept a store.DBTX so they run equally on
// a live connection or inside a transaction.
package postgres
