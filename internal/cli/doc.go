// Package cli holds the logic behind the turing commands: resolving machines,
// opening session backends and driving runs to a terminal or to NDJSON.
// The cobra commands in cmd/turing only parse flags and call into this package.
package cli
