package extract

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Record is a validated extraction result: the decoded object together with
// the projected items of its required list. Accessors return copies, so a
// Record never changes once built.
type Record struct {
	key    string
	fields map[string]any
	items  []map[string]any
}

func newRecord(key string, decoded map[string]any, items []map[string]any) *Record {
	fields := cloneObject(decoded)
	delete(fields, key)
	owned := make([]map[string]any, len(items))
	for i, item := range items {
		owned[i] = cloneObject(item)
	}
	return &Record{key: key, fields: fields, items: owned}
}

// Key returns the name of the required list field.
func (r *Record) Key() string {
	return r.key
}

// Len returns the number of projected items.
func (r *Record) Len() int {
	return len(r.items)
}

// Items returns copies of the projected items.
func (r *Record) Items() []map[string]any {
	out := make([]map[string]any, len(r.items))
	for i, item := range r.items {
		out[i] = cloneObject(item)
	}
	return out
}

// Field returns a top level field other than the required list, such as a
// quiz title.
func (r *Record) Field(name string) (any, bool) {
	value, ok := r.fields[name]
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// Questions reads the items as quiz questions.
func (r *Record) Questions() []Question {
	out := make([]Question, len(r.items))
	for i, item := range r.items {
		out[i] = questionFromItem(item)
	}
	return out
}

// Map returns the whole record as a fresh object, with the required list
// replaced by the projected items.
func (r *Record) Map() map[string]any {
	out := cloneObject(r.fields)
	items := make([]any, len(r.items))
	for i, item := range r.items {
		items[i] = cloneObject(item)
	}
	out[r.key] = items
	return out
}

// MarshalJSON encodes the record as returned by Map.
func (r *Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// As decodes rec into a caller type, for example a struct with a
// `json:"questions"` slice field.
func As[T any](rec *Record) (T, error) {
	var result T
	if rec == nil {
		return result, errors.New("extract: nil record")
	}
	data, err := rec.MarshalJSON()
	if err != nil {
		return result, fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal record as %T: %w", result, err)
	}
	return result, nil
}

func cloneObject(object map[string]any) map[string]any {
	out := make(map[string]any, len(object))
	for key, value := range object {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneObject(v)
	case RawResponse:
		return cloneObject(v)
	case []any:
		out := make([]any, len(v))
		for i, element := range v {
			out[i] = cloneValue(element)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, element := range v {
			out[i] = cloneObject(element)
		}
		return out
	case []string:
		return slices.Clone(v)
	default:
		return v
	}
}
