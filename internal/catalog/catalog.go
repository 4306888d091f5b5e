package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/five82/courier/internal/jsonstore"
)

// Recognized transport styles. The catalog accepts other names but logs them;
// the dispatcher refuses to send them.
const (
	FormatGet      = "get"
	FormatPostJSON = "post_json"
	FormatPostForm = "post_form"
)

var knownFormats = []string{FormatGet, FormatPostJSON, FormatPostForm}

// Catalog is the snapshot of allowed formats and patterns.
//
// It is built once by Load and only changes through ResetDefault, so readers
// can share one Catalog across goroutines.
type Catalog struct {
	mu         sync.RWMutex
	formatFile *jsonstore.File
	paramsFile *jsonstore.File
	logger     *slog.Logger

	loaded   bool
	formats  []string
	patterns []string
	table    *patternTable
}

// formatDocument is the shape of the format file. The "pattern" array is
// accepted but ignored; patterns come from the params file.
type formatDocument struct {
	Format  json.RawMessage `json:"format"`
	Pattern json.RawMessage `json:"pattern"`
}

// Load reads both files and never fails: problems leave the catalog unloaded
// and are logged.
func Load(formatPath, paramsPath string, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	c := &Catalog{
		formatFile: jsonstore.New(formatPath, logger),
		paramsFile: jsonstore.New(paramsPath, logger),
		logger:     logger.With("component", "catalog"),
		table:      newPatternTable(),
	}

	formats, err := c.readFormats()
	if err != nil {
		c.logger.Warn("catalog unloaded", "file", formatPath, "error", err)
		return c
	}

	table := newPatternTable()
	if err := c.paramsFile.Decode(table); err != nil {
		c.logger.Warn("catalog unloaded", "file", paramsPath, "error", err)
		return c
	}

	c.formats = formats
	c.table = table
	c.patterns = table.names()
	c.loaded = true
	c.logger.Info("catalog loaded", "formats", len(c.formats), "patterns", len(c.patterns))
	return c
}

func (c *Catalog) readFormats() ([]string, error) {
	var doc formatDocument
	if err := c.formatFile.Decode(&doc); err != nil {
		return nil, err
	}
	if len(doc.Format) == 0 || string(doc.Format) == "null" {
		return nil, errors.New(`format file has no "format" array`)
	}
	var raw []string
	if err := json.Unmarshal(doc.Format, &raw); err != nil {
		return nil, fmt.Errorf(`"format" must be an array of strings: %w`, err)
	}
	if len(doc.Pattern) > 0 {
		c.logger.Debug(`ignoring "pattern" array in format file; patterns come from the params file`)
	}

	formats := make([]string, 0, len(raw))
	for _, name := range raw {
		if slices.Contains(formats, name) {
			c.logger.Warn("duplicate format ignored", "format", name)
			continue
		}
		if !slices.Contains(knownFormats, name) {
			c.logger.Warn("unrecognized format", "format", name)
		}
		formats = append(formats, name)
	}
	return formats, nil
}

// Loaded reports whether both files were read and the format list was present.
// An empty format list still counts as loaded.
func (c *Catalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Formats returns a copy of the allowed formats in file order.
func (c *Catalog) Formats() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.formats)
}

// Patterns returns a copy of the pattern names in params file order.
func (c *Catalog) Patterns() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.patterns)
}

// HasFormat reports whether name is an allowed format.
func (c *Catalog) HasFormat(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.formats, name)
}

// HasPattern reports whether name is an allowed pattern.
func (c *Catalog) HasPattern(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Contains(c.patterns, name)
}

// Params returns a copy of the parameters for pattern. Mutating the result
// does not affect the catalog.
func (c *Catalog) Params(pattern string) (Params, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.table.get(pattern)
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// FormatPath returns the path of the format file.
func (c *Catalog) FormatPath() string { return c.formatFile.Path() }

// ParamsPath returns the path of the params file.
func (c *Catalog) ParamsPath() string { return c.paramsFile.Path() }

// ResetDefault writes an empty format document to the format file and resets
// the snapshot to match it. The params file is left alone.
func (c *Catalog) ResetDefault() error {
	doc := map[string]any{
		"pattern": []any{},
		"format":  []any{},
	}
	if err := c.formatFile.Write(doc, true); err != nil {
		return fmt.Errorf("reset format file: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.formats = []string{}
	c.patterns = []string{}
	c.table = newPatternTable()
	c.loaded = true
	c.logger.Info("format file reset to defaults", "file", c.formatFile.Path())
	return nil
}

// NeedsReset reports whether the format file at path is missing or blank and
// should be recreated before loading.
func NeedsReset(path string) bool {
	return jsonstore.IsBlank(path)
}

// KnownFormats returns the transport styles the dispatcher can send.
func KnownFormats() []string {
	return slices.Clone(knownFormats)
}
