package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue serializes v for storage in a JSONB column.
func jsonValue(v interface{}) (driver.Value, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal value for jsonb column: %w", err)
	}
	return data, nil
}

// jsonScan deserializes a JSONB column into dst. NULL leaves dst as-is.
func jsonScan(src interface{}, dst interface{}) error {
	if src == nil {
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported source type %T for jsonb column", src)
	}
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, dst)
}
