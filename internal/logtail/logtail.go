package logtail

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the file at path whose level
// is at least minLevel. A non-positive maxLines returns every matching line.
// A missing file yields no lines and no error.
func Read(path string, maxLines int, minLevel slog.Level) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	var kept []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if level, ok := LineLevel(line); ok && level < minLevel {
			continue
		}
		kept = append(kept, line)
		if maxLines > 0 && len(kept) > 2*maxLines {
			kept = append(kept[:0], kept[len(kept)-maxLines:]...)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	if maxLines > 0 && len(kept) > maxLines {
		kept = kept[len(kept)-maxLines:]
	}
	return kept, nil
}

// LineLevel extracts the level of a slog text or JSON record.
func LineLevel(line string) (slog.Level, bool) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, "{") {
		var rec struct {
			Level string `json:"level"`
		}
		if err := json.Unmarshal([]byte(trimmed), &rec); err != nil || rec.Level == "" {
			return 0, false
		}
		return parseLevel(rec.Level)
	}
	for _, field := range strings.Fields(trimmed) {
		if value, ok := strings.CutPrefix(field, "level="); ok {
			return parseLevel(value)
		}
	}
	return 0, false
}

func parseLevel(s string) (slog.Level, bool) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, false
	}
	return level, true
}
