// Package config persists the lane registry of a repository.
//
// The registry is a single JSON document stored inside the repository's git
// metadata directory (`.git/lanes.json`), so it is never committed and is
// shared by the main working tree and all of its lanes.
//
// Loading is forgiving on purpose:
//   - A missing or unparsable file yields a fresh default configuration.
//     The corruption is healed the next time the registry is saved.
//   - Comments and trailing commas are tolerated (JSONC, via
//     github.com/tidwall/jsonc), because the file is occasionally hand-edited.
//   - Absent fields are backfilled from defaults and settings are merged key
//     by key, so files written by older versions keep working.
//
// Settings are layered: built-in defaults, then the optional committed
// project file `.lanes.yaml` at the repository root, then the settings stored
// in the registry itself.
//
// Every operation is a fresh read-modify-write. No lock is taken; concurrent
// writers race with last-write-wins semantics. Writes are atomic (temp file
// plus rename via github.com/moby/sys/atomicwriter), so a reader never sees a
// half-written registry.
package config
