// Package redis provides Redis-backed session persistence and distributed locking,
// so several `turing serve` replicas can share and step the same sessions.
package redis
