package api

import (
	"encoding/json"
	"strconv"
)

// Entity is a record exchanged with the backend. Field names and value
// types are whatever the server sent; accessors below coerce on read.
type Entity map[string]any

// Normalize canonicalizes the entity identifier. The backend emits either
// "id" or "_id" depending on the collection; every entity entering the
// client goes through here so downstream code only ever looks at "id".
func Normalize(e Entity) Entity {
	if e == nil {
		return e
	}
	if _, ok := e["id"]; !ok {
		if alt, ok := e["_id"]; ok {
			e["id"] = alt
		}
	}
	return e
}

// NormalizeAll canonicalizes a list response in place.
func NormalizeAll(entities []Entity) []Entity {
	for _, e := range entities {
		Normalize(e)
	}
	return entities
}

// ID returns the canonical identifier as a string, or "" when absent.
func (e Entity) ID() string {
	return coerceString(e["id"])
}

// Str returns a field coerced to string.
func (e Entity) Str(field string) string {
	return coerceString(e[field])
}

// Num returns a field coerced to a number. Missing or non-numeric
// values come back as 0.
func (e Entity) Num(field string) float64 {
	switch v := e[field].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return f
	case bool:
		if v {
			return 1
		}
		return 0
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// Bool returns a field coerced to bool.
func (e Entity) Bool(field string) bool {
	switch v := e[field].(type) {
	case bool:
		return v
	case string:
		return v == "true"
	case float64:
		return v != 0
	default:
		return false
	}
}

func coerceString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
