package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Params is the flat parameter object sent for one pattern. Values are
// scalars: string, json.Number, bool or nil.
type Params map[string]any

// UnmarshalJSON decodes a flat object, keeping numbers as json.Number.
func (p *Params) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("parameters must be an object, got null")
	}
	for key, value := range raw {
		switch value.(type) {
		case string, json.Number, bool, nil:
		default:
			return fmt.Errorf("parameter %q: value must be a scalar, got %T", key, value)
		}
	}
	*p = raw
	return nil
}

// Clone returns an independent copy. A nil receiver yields an empty map.
func (p Params) Clone() Params {
	out := make(Params, len(p))
	maps.Copy(out, p)
	return out
}

// patternTable is the decoded params file: pattern name to Params in file order.
type patternTable struct {
	m *orderedmap.OrderedMap[string, Params]
}

func newPatternTable() *patternTable {
	return &patternTable{m: orderedmap.New[string, Params]()}
}

func (t *patternTable) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return errors.New("params file must contain a JSON object")
	}
	if err := checkSingleValue(trimmed); err != nil {
		return err
	}
	m := orderedmap.New[string, Params]()
	if err := m.UnmarshalJSON(trimmed); err != nil {
		return err
	}
	t.m = m
	return nil
}

func (t *patternTable) names() []string {
	names := make([]string, 0, t.m.Len())
	for pair := t.m.Oldest(); pair != nil; pair = pair.Next() {
		names = append(names, pair.Key)
	}
	return names
}

func (t *patternTable) get(name string) (Params, bool) {
	return t.m.Get(name)
}

func checkSingleValue(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	var skip json.RawMessage
	if err := dec.Decode(&skip); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after params object")
	}
	return nil
}
