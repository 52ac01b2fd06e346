/*
Package observability provides tools for monitoring the Turing engine.

It turns engine lifecycle hooks into Prometheus metrics and structured audit logs, and
combines several hook sets into one so they can be registered together.
*/
package observability
