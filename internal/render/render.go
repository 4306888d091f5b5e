// Package render turns dispatch outcomes into text for the CLI and the TUI.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/five82/courier/internal/dispatch"
)

// Mode selects how a response body is shown.
type Mode string

const (
	ModeJSON Mode = "json"
	ModeYAML Mode = "yaml"
	ModeRaw  Mode = "raw"
)

// ParseMode accepts json, yaml or raw (any case).
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeJSON, ModeYAML, ModeRaw:
		return m, nil
	case "":
		return ModeJSON, nil
	default:
		return "", fmt.Errorf("unknown output mode %q (want json, yaml or raw)", s)
	}
}

// Next cycles json -> yaml -> raw -> json.
func (m Mode) Next() Mode {
	switch m {
	case ModeJSON:
		return ModeYAML
	case ModeYAML:
		return ModeRaw
	default:
		return ModeJSON
	}
}

// Summary is a one-line description of the outcome.
func Summary(o dispatch.Outcome) string {
	switch o.State {
	case dispatch.StateSucceeded:
		return fmt.Sprintf("%s %s/%s -> %d in %s", o.State, o.Format, o.Pattern, o.StatusCode, o.Duration.Round(time.Millisecond))
	case dispatch.StateRejected, dispatch.StateFailed:
		return fmt.Sprintf("%s %s/%s: %s", o.State, o.Format, o.Pattern, o.ErrorMessage())
	default:
		return fmt.Sprintf("%s %s/%s", o.State, o.Format, o.Pattern)
	}
}

// Body renders the response body. Bodies that are not JSON are always shown raw.
func Body(o dispatch.Outcome, mode Mode) (string, error) {
	if !o.IsJSON || mode == ModeRaw {
		return o.RawBody, nil
	}
	switch mode {
	case ModeYAML:
		out, err := yaml.Marshal(normalize(o.JSON))
		if err != nil {
			return "", fmt.Errorf("render yaml: %w", err)
		}
		return string(out), nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(o.JSON); err != nil {
			return "", fmt.Errorf("render json: %w", err)
		}
		return buf.String(), nil
	}
}

// Outcome renders the summary, the response headers when verbose, and the body.
func Outcome(o dispatch.Outcome, mode Mode, verbose bool) (string, error) {
	var b strings.Builder
	b.WriteString(Summary(o))
	b.WriteString("\n")
	if verbose && o.HasStatus() {
		fmt.Fprintf(&b, "url: %s\n", o.URL)
		keys := make([]string, 0, len(o.Header))
		for k := range o.Header {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "%s: %s\n", k, strings.Join(o.Header[k], ", "))
		}
	}
	if !o.HasStatus() {
		return b.String(), nil
	}
	body, err := Body(o, mode)
	if err != nil {
		return "", err
	}
	if verbose {
		b.WriteString("\n")
	}
	b.WriteString(body)
	if o.Truncated {
		b.WriteString("\n[body truncated]\n")
	}
	return b.String(), nil
}

// normalize converts json.Number into int64 or float64 so YAML emits plain
// numbers rather than quoted strings.
func normalize(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = normalize(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = normalize(item)
		}
		return out
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return i
		}
		if f, err := val.Float64(); err == nil {
			return f
		}
		return val.String()
	default:
		return v
	}
}
