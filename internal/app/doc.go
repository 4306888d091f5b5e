// Package app provides the orchestration layer for courier.
//
// # Overview
//
// This package wires configuration, logging, the catalog, the dispatcher and
// the UI together. It is the composition root shared by every command.
//
// # Startup
//
//  1. Load config.toml (config.Load)
//  2. Open the log file, or stderr for one-shot commands (logging.Setup)
//  3. Recreate the format file when it is missing or blank
//  4. Load the catalog from the format and params files
//  5. Build the dispatcher for the configured endpoint
//
// Bootstrap fails only on a bad config, an unusable log file or an invalid
// endpoint. A broken catalog file leaves the catalog unloaded and every
// dispatch is rejected until the file is fixed.
//
// # Live Reload
//
// Catalogs are immutable snapshots. When watch is enabled, Run watches both
// catalog files with fsnotify and the UI rebuilds the catalog and dispatcher
// through Env.Load on each change. If fsnotify is unavailable, StartPoller
// compares file size and modification time every two seconds instead.
package app
