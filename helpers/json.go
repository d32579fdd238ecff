package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"github.com/spektr-org/chartkit/dataset"
	"github.com/spektr-org/chartkit/internal/log"
)

// ============================================================================
// JSON HELPER — Parses an array of objects into a dataset.Dataset
// ============================================================================
// Columns are the keys of the first object in document order. Keys that
// later objects add are dropped.
// ============================================================================

type jsonField struct {
	key   string
	value any
}

// ParseJSON reads a JSON array of objects from r.
func ParseJSON(r io.Reader) (*dataset.Dataset, error) {
	var items []json.RawMessage
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode JSON array: %w", err)
	}
	if len(items) == 0 {
		return dataset.New(nil, nil)
	}

	first, err := decodeObject(items[0])
	if err != nil {
		return nil, fmt.Errorf("object 1: %w", err)
	}
	columns := make([]string, 0, len(first))
	known := make(map[string]bool, len(first))
	for _, f := range first {
		if !known[f.key] {
			known[f.key] = true
			columns = append(columns, f.key)
		}
	}

	rows := make([]dataset.Row, 0, len(items))
	dropped := 0
	for i, raw := range items {
		fields := first
		if i > 0 {
			if fields, err = decodeObject(raw); err != nil {
				return nil, fmt.Errorf("object %d: %w", i+1, err)
			}
		}

		row := make(dataset.Row, len(columns))
		for _, f := range fields {
			if !known[f.key] {
				dropped++
				continue
			}
			if _, seen := row[f.key]; seen {
				continue
			}
			row[f.key] = jsonValue(f.value)
		}
		rows = append(rows, row)
	}

	if dropped > 0 {
		log.Debug("json: keys outside the first object dropped", zap.Int("count", dropped))
	}
	return dataset.New(columns, rows)
}

// decodeObject decodes one JSON object keeping its key order.
func decodeObject(raw json.RawMessage) ([]jsonField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("expected an object, got %s", bytes.TrimSpace(raw))
	}

	var fields []jsonField
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		fields = append(fields, jsonField{key: key, value: v})
	}
	return fields, nil
}

// jsonValue converts a decoded JSON value into a cell. Nested arrays and
// objects are kept as their compact JSON text.
func jsonValue(v any) dataset.Value {
	switch x := v.(type) {
	case nil:
		return dataset.Null()
	case string:
		return dataset.String(x)
	case json.Number:
		if f, err := x.Float64(); err == nil {
			return dataset.Number(f)
		}
		return dataset.String(x.String())
	case bool:
		return dataset.String(strconv.FormatBool(x))
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return dataset.String(fmt.Sprint(x))
		}
		return dataset.String(string(b))
	}
}
