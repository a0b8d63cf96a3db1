package entities

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice stores an ordered list of strings as a JSONB column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(s))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (s *StringSlice) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringSlice", value)
	}
	return json.Unmarshal(data, (*[]string)(s))
}

func (StringSlice) GormDataType() string {
	return "jsonb"
}

// StringMap stores a string keyed map as a JSONB column.
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]string(m))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (m *StringMap) Scan(value any) error {
	if value == nil {
		*m = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for StringMap", value)
	}
	return json.Unmarshal(data, (*map[string]string)(m))
}

func (StringMap) GormDataType() string {
	return "jsonb"
}
