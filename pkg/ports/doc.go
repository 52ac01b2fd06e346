/*
Package ports defines the driven ports (interfaces) of the Turing engine.

These interfaces decouple the engine from its collaborators: where machine definitions
come from, where executed transitions go, and where paused runs are kept.

# Key Interfaces

  - TraceSink: receives every executed transition of a run, in step order.
  - DefinitionLoader: supplies machine documents by name (memory, Loam repository, ...).
  - SessionStore: persists string-typed configuration snapshots (memory, file, Redis).
  - DistributedLocker: serialises access to one session across replicas.
*/
package ports
