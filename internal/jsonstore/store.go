package jsonstore

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const backupSuffix = ".bak"

// File reads and writes one JSON document at a fixed path.
//
// Writes are atomic with respect to crashes but File does not serialize
// concurrent writers; callers that share a path must coordinate themselves.
type File struct {
	path   string
	logger *slog.Logger
}

// Info describes the file on disk.
type Info struct {
	Exists   bool
	Path     string
	Size     int64
	Modified time.Time
	IsFile   bool
}

// New returns a File for path. A nil logger discards log output.
func New(path string, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{
		path:   path,
		logger: logger.With("path", path),
	}
}

// Path returns the target path.
func (f *File) Path() string {
	return f.path
}

// BackupPath returns the sibling path that receives the previous version on write.
func (f *File) BackupPath() string {
	return f.path + backupSuffix
}

// Exists reports whether anything is present at the path.
func (f *File) Exists() bool {
	_, err := os.Stat(f.path)
	return err == nil
}

// Info returns size and modification details, or Exists=false.
func (f *File) Info() Info {
	st, err := os.Stat(f.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			f.logger.Warn("stat json file failed", "error", err)
		}
		return Info{Path: f.path}
	}
	return Info{
		Exists:   true,
		Path:     f.path,
		Size:     st.Size(),
		Modified: st.ModTime(),
		IsFile:   st.Mode().IsRegular(),
	}
}

// Read returns the decoded document. Numbers are kept as json.Number so the
// value can be written back unchanged. Every failure matches ErrNotFound.
func (f *File) Read() (any, error) {
	var doc any
	if err := f.Decode(&doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Decode reads the file and unmarshals it into v. It fails like Read.
func (f *File) Decode(v any) error {
	data, err := f.load()
	if err != nil {
		return err
	}

	if u, ok := v.(json.Unmarshaler); ok {
		if err := u.UnmarshalJSON(data); err != nil {
			return f.readFailure(KindMalformed, err)
		}
	} else if err := decodeStrict(data, v); err != nil {
		return f.readFailure(KindMalformed, err)
	}

	f.logger.Debug("json file loaded", "bytes", len(data))
	return nil
}

func (f *File) load() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.readFailure(KindMissing, err)
		}
		return nil, f.readFailure(KindUnreadable, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, f.readFailure(KindEmpty, nil)
	}
	return data, nil
}

func (f *File) readFailure(kind Kind, err error) error {
	rerr := &ReadError{Kind: kind, Path: f.path, Err: err}
	switch kind {
	case KindMissing, KindEmpty:
		f.logger.Info("json file has no data", "kind", kind.String())
	default:
		f.logger.Warn("json file could not be read", "kind", kind.String(), "error", err)
	}
	return rerr
}

// Write persists doc as indented JSON. When backup is set and a file already
// exists, it is renamed to BackupPath before the new content is installed; a
// failed backup aborts the write. The temporary file never outlives the call.
func (f *File) Write(doc any, backup bool) (err error) {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f.writeFailure(StageMkdir, err)
	}

	payload, err := encode(doc)
	if err != nil {
		return f.writeFailure(StageEncode, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return f.writeFailure(StageTemp, err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if rmErr := os.Remove(tmpPath); rmErr != nil && !errors.Is(rmErr, fs.ErrNotExist) {
			f.logger.Warn("remove temp file failed", "temp", tmpPath, "error", rmErr)
		}
	}()

	if _, err := tmp.Write(payload); err != nil {
		return f.writeFailure(StageTemp, err)
	}
	if err := tmp.Sync(); err != nil {
		return f.writeFailure(StageTemp, err)
	}
	if err := tmp.Close(); err != nil {
		return f.writeFailure(StageTemp, err)
	}

	backedUp := false
	if backup && f.Exists() {
		if err := os.Rename(f.path, f.BackupPath()); err != nil {
			return f.writeFailure(StageBackup, err)
		}
		backedUp = true
		f.logger.Debug("backup created", "backup", f.BackupPath())
	}

	if err := os.Rename(tmpPath, f.path); err != nil {
		if backedUp {
			if restoreErr := os.Rename(f.BackupPath(), f.path); restoreErr != nil {
				f.logger.Error("restore backup failed", "backup", f.BackupPath(), "error", restoreErr)
			}
		}
		return f.writeFailure(StageRename, err)
	}
	syncDir(dir)

	f.logger.Info("json file written", "bytes", len(payload), "backup", backedUp)
	return nil
}

func (f *File) writeFailure(stage Stage, err error) error {
	f.logger.Error("json file write failed", "stage", string(stage), "error", err)
	return &WriteError{Stage: stage, Path: f.path, Err: err}
}

// Delete removes the file. Removing a file that is not there is an error.
func (f *File) Delete() error {
	if err := os.Remove(f.path); err != nil {
		f.logger.Warn("delete json file failed", "error", err)
		return fmt.Errorf("delete %s: %w", f.path, err)
	}
	f.logger.Info("json file deleted")
	return nil
}

func encode(doc any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeStrict rejects trailing content after the first JSON value.
func decodeStrict(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return fmt.Errorf("unexpected data after top-level value")
	}
	return nil
}

func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}

// IsBlank reports whether path is missing or holds only whitespace.
func IsBlank(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Is(err, fs.ErrNotExist)
	}
	return strings.TrimSpace(string(data)) == ""
}
