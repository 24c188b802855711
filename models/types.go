package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSliceType stores a list of strings as a JSON column.
type StringSliceType []string

// Value implements driver.Valuer for database storage
func (ss StringSliceType) Value() (driver.Value, error) {
	if ss == nil {
		return nil, nil
	}
	return json.Marshal(ss)
}

// Scan implements sql.Scanner for database retrieval
func (ss *StringSliceType) Scan(value interface{}) error {
	if value == nil {
		*ss = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, ss)
	case string:
		return json.Unmarshal([]byte(v), ss)
	default:
		return fmt.Errorf("cannot scan %T into StringSliceType", value)
	}
}

// GormDataType returns the data type for GORM
func (StringSliceType) GormDataType() string {
	return "json"
}

// MarshalJSON implements json.Marshaler
func (ss StringSliceType) MarshalJSON() ([]byte, error) {
	if ss == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(ss))
}
