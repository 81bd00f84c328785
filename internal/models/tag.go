package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Tag is a bilingual search label attached to directory entities.
type Tag struct {
	EN string `json:"en"`
	AR string `json:"ar,omitempty"`
}

// Tags is stored as a JSONB array.
type Tags []Tag

// Value implements driver.Valuer.
func (t Tags) Value() (driver.Value, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *Tags) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("tags: unsupported source %T", src)
	}
}

func (t Tags) lookup() []map[string]string {
	out := make([]map[string]string, 0, len(t))
	for _, tag := range t {
		out = append(out, map[string]string{TagLangEN: tag.EN, TagLangAR: tag.AR})
	}
	return out
}
