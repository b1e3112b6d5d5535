// Package tasks implements the record view-model used by the CLI and the TUI.
//
// # Library
//
// [Library] owns the in-memory record list. Its operations call the remote [Store] and report
// an [Outcome] instead of an error:
//
//  1. [Library.Load] : list all records (wide projection, narrow fallback) and replace the list
//  2. [Library.Delete] : delete one record remotely, then drop the entry with the same ID
//
// Failures of any kind (network, decode, statement) collapse into Success=false and a message suitable
// for an inline status line. The list itself is unchanged by a failed operation.
//
// # Concurrency
//
// The TUI runs each operation as a bubbletea command on its own goroutine and applies the returned
// Outcome in its single Update loop. The Library guards its list with a mutex; there is no ordering
// between overlapping operations and the last writer wins.
package tasks
