// Package jsonstore persists JSON documents on disk.
//
// # Reading
//
// File.Read and File.Decode return the parsed document or an error matching
// ErrNotFound. The concrete *ReadError carries a Kind (missing, empty,
// unreadable, malformed) that is also logged, so callers can treat every
// failure as "no data" while operators can still tell them apart.
//
// # Writing
//
// File.Write encodes the document with two-space indentation and installs it
// with a rename from a temporary file in the same directory:
//
//  1. create parent directories
//  2. write and fsync .<name>.*.tmp
//  3. optionally rename the current file to <name>.bak (failure aborts)
//  4. rename the temporary file onto <name>
//
// A reader therefore sees the old document, the new document or, between
// steps 3 and 4, no document. It never sees a truncated one. The temporary
// file is removed on every return path.
//
// File does not lock. Two writers targeting one path must be serialized by
// the caller.
package jsonstore
