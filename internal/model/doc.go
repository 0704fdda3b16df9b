// Package model defines the domain types and value objects for the lane CLI.
//
// This package contains pure data structures with no external dependencies.
// The persisted registry (LanesConfig) and its entries (Lane) live here,
// together with the synthesized views handed to the presentation layer
// (LaneEntry, SwitchTarget, Directive).
//
// The package also defines exit codes (ExitCode), the error kinds of the
// lane lifecycle (ErrorKind), and a custom error type (CLIError) that
// carries both for proper OS process exit handling.
package model
