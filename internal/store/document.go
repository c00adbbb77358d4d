package store

import (
	"encoding/json"
	"fmt"
)

func marshalBody(collection, id string, data any) ([]byte, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize %s/%s: %w", collection, id, err)
	}
	return body, nil
}

// fieldEquals reports whether the document body's top-level field holds
// the given string value. Used by backends without a JSON query engine.
func fieldEquals(doc Document, field, value string) bool {
	var body map[string]any
	if err := json.Unmarshal(doc.Data, &body); err != nil {
		return false
	}
	s, ok := body[field].(string)
	return ok && s == value
}
