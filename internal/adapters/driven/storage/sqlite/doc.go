// Package sqlite provides SQLite-backed persistence for store
// connections. The database lives under the user's Sellbridge data
// directory and is migrated on open.
package sqlite
