// Package logtail reads the tail of courier's own log file for the TUI.
//
// Read scans the file once and keeps a bounded window of matching lines, so
// memory stays proportional to maxLines rather than the file size. Lines
// written by slog's text or JSON handler are filtered by level; lines without
// a recognizable level are always kept.
//
//	lines, err := logtail.Read(cfg.LogFile, 200, slog.LevelInfo)
package logtail
