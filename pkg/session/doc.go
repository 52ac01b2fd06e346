/*
Package session implements stepwise execution of machines across requests.

A session is a persisted configuration of a named machine. The Manager creates
sessions, steps them under a per-session lock (local mutex plus an optional
distributed lock), and writes the new configuration back to the store after every
call, so any replica sharing the store can continue the run.

Only configurations are persisted; the definition is resolved by name through a
runner.Catalog each time a session is stepped.
*/
package session
