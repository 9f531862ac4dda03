package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONMap произвольный JSON-объект, хранимый в колонке jsonb
type JSONMap map[string]interface{}

// Value реализует driver.Valuer
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan реализует sql.Scanner
func (m *JSONMap) Scan(src interface{}) error {
	if src == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("domain.JSONMap: cannot scan %T", src)
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}

	return json.Unmarshal(data, m)
}

// JSONStrings список строк, хранимый в колонке jsonb
type JSONStrings []string

// Value реализует driver.Valuer
func (s JSONStrings) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan реализует sql.Scanner
func (s *JSONStrings) Scan(src interface{}) error {
	if src == nil {
		*s = JSONStrings{}
		return nil
	}

	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("domain.JSONStrings: cannot scan %T", src)
	}

	if len(data) == 0 {
		*s = JSONStrings{}
		return nil
	}

	return json.Unmarshal(data, s)
}
