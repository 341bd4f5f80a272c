package tvdb

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/go-viper/mapstructure/v2"
)

// Record is an untyped JSON object as returned in an envelope's data field.
// Numbers are held as json.Number so identifiers survive unchanged.
type Record map[string]any

// String returns the value at key rendered as a string, or "" when absent.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return strconv.FormatBool(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}

// Int returns the value at key as an integer. Numeric strings are accepted.
func (r Record) Int(key string) (int64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n, true
		}
		if f, err := v.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(v), true
	case int:
		return int64(v), true
	case int64:
		return v, true
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, true
		}
	}
	return 0, false
}

// Float returns the value at key as a float.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case float64:
		return v, true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		return f, err == nil
	}
	return 0, false
}

// Bool returns the value at key as a bool.
func (r Record) Bool(key string) bool {
	b, _ := r[key].(bool)
	return b
}

// Record returns the nested object at key, or nil.
func (r Record) Record(key string) Record {
	if m, ok := r[key].(map[string]any); ok {
		return Record(m)
	}
	return nil
}

// Records returns the nested array of objects at key. Non-object elements are
// skipped.
func (r Record) Records(key string) []Record {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]Record, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, Record(m))
		}
	}
	return out
}

// Strings returns the nested array of strings at key.
func (r Record) Strings(key string) []string {
	items, ok := r[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// ID returns the record's TheTVDB identifier, preferring tvdb_id (search
// results) over id (resources).
func (r Record) ID() ID {
	if s := r.String("tvdb_id"); s != "" {
		return ID(s)
	}
	return ID(r.String("id"))
}

// Decode copies the record into out, a pointer to a struct with json tags.
// Unknown fields are ignored and scalar types are converted where possible.
func (r Record) Decode(out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           out,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(map[string]any(r)); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}
	return nil
}

// DecodeAll decodes each record into a T.
func DecodeAll[T any](records []Record) ([]T, error) {
	out := make([]T, 0, len(records))
	for i, rec := range records {
		var v T
		if err := rec.Decode(&v); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// SearchResult is the typed view of a search hit
type SearchResult struct {
	ObjectID        string            `json:"objectID"`
	TVDBID          string            `json:"tvdb_id"`
	Name            string            `json:"name"`
	Slug            string            `json:"slug"`
	Type            string            `json:"type"`
	Year            int               `json:"year"`
	Country         string            `json:"country"`
	Network         string            `json:"network"`
	Status          string            `json:"status"`
	PrimaryLanguage string            `json:"primary_language"`
	Overview        string            `json:"overview"`
	ImageURL        string            `json:"image_url"`
	FirstAirTime    string            `json:"first_air_time"`
	Aliases         []string          `json:"aliases"`
	Translations    map[string]string `json:"translations"`
}

// Translation is the typed view of a translation record
type Translation struct {
	Name      string   `json:"name"`
	Overview  string   `json:"overview"`
	Language  string   `json:"language"`
	Tagline   string   `json:"tagline"`
	Aliases   []string `json:"aliases"`
	IsPrimary bool     `json:"isPrimary"`
}

// EntityType is the typed view of a type enumeration entry
type EntityType struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	RecordType string `json:"recordType"`
}

// Status is the typed view of a status enumeration entry
type Status struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	RecordType  string `json:"recordType"`
	KeepUpdated bool   `json:"keepUpdated"`
}
