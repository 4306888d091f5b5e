package dispatch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/five82/courier/internal/catalog"
)

// Style is a transport style, named by a catalog format.
type Style string

const (
	StyleGet      Style = catalog.FormatGet
	StylePostJSON Style = catalog.FormatPostJSON
	StylePostForm Style = catalog.FormatPostForm
)

// Valid reports whether s is one of the styles the dispatcher can send.
func (s Style) Valid() bool {
	switch s {
	case StyleGet, StylePostJSON, StylePostForm:
		return true
	}
	return false
}

// Styles lists the supported styles.
func Styles() []Style {
	return []Style{StyleGet, StylePostJSON, StylePostForm}
}

func formValues(params catalog.Params) url.Values {
	values := make(url.Values, len(params))
	for key, value := range params {
		values.Set(key, formatValue(value))
	}
	return values
}

// formatValue renders a scalar parameter for a query string or form body.
func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

func encodeJSON(params catalog.Params) ([]byte, error) {
	if params == nil {
		params = catalog.Params{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(params); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
