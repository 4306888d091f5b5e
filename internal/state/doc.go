// Package state keeps the dispatch history shown by the TUI.
//
// Dispatches run in tea.Cmd goroutines, so results arrive concurrently with
// rendering. Store serializes updates behind a sync.RWMutex and hands out
// copies through Snapshot; the UI never holds a reference into the store.
//
// Counters distinguish three results: Rejected (validation failed, nothing
// sent), Failed (no response) and Sent (every request that left the process).
// ConsecutiveFailures counts transport failures in a row and drives the
// "offline" indicator; any received response, whatever its status, resets it.
package state
