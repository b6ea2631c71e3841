package storage

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/talkshopapp/talkshop-backend/internal/logging"
)

// JSONMap is a JSONB column surfaced as a structured map. Scanning never
// fails on malformed stored data: the value degrades to an empty map and the
// failure is logged, so one bad row cannot poison a whole result set.
type JSONMap map[string]interface{}

// Value marshals the map for storage. Empty and nil maps are stored as {}
// rather than NULL so containment queries always have a document to probe.
func (m JSONMap) Value() (driver.Value, error) {
	if len(m) == 0 {
		return []byte("{}"), nil
	}
	return json.Marshal(m)
}

// Scan decodes a JSONB column. NULL and undecodable values both yield {}.
func (m *JSONMap) Scan(value interface{}) error {
	*m = JSONMap{}
	if value == nil {
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("storage: cannot scan %T into JSONMap", value)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, m); err != nil {
		logging.Warn().Err(err).Msg("undecodable jsonb value, substituting empty map")
		*m = JSONMap{}
	}
	return nil
}
