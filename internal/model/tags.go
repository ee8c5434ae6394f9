package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tags is the set of free-text labels attached to a contact. It is stored
// in the database as a JSON array so that a single tag can be matched with
// JSON_CONTAINS. A nil Tags value maps to SQL NULL.
type Tags []string

// Value marshals the tags into a JSON array for the database driver.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return nil, nil
	}
	return json.Marshal(t)
}

// Scan reads a JSON array from the database into the tags.
func (t *Tags) Scan(src interface{}) error {
	if src == nil {
		*t = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("cannot scan %T into Tags", src)
	}
}

// Contains reports whether the tag set includes the exact tag.
func (t Tags) Contains(tag string) bool {
	for _, v := range t {
		if v == tag {
			return true
		}
	}
	return false
}
