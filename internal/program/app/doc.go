// Package app composes and runs the program HTTP process boundary.
//
// It opens the SQLite ledger, wires the program service behind the JSON
// API, and serves until the context ends. Gate check-in grants are
// verified with the key loaded from the environment.
package app
