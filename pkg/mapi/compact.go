package mapi

import (
	"encoding/json"
	"fmt"
)

// CompactResource projects a resource object's attributes down to the given
// allow-list. The identifier, type discriminator, and every other top-level
// key pass through untouched; a new object is produced, the input is never
// mutated. An empty field list returns the input unchanged.
func CompactResource(item json.RawMessage, fields []string) (json.RawMessage, error) {
	if len(fields) == 0 {
		return item, nil
	}

	var resource map[string]json.RawMessage

	err := json.Unmarshal(item, &resource)
	if err != nil {
		return nil, fmt.Errorf("parsing resource for compaction: %w", err)
	}

	rawAttributes, ok := resource["attributes"]
	if !ok {
		return item, nil
	}

	var attributes map[string]json.RawMessage

	err = json.Unmarshal(rawAttributes, &attributes)
	if err != nil {
		return nil, fmt.Errorf("parsing resource attributes: %w", err)
	}

	projected := make(map[string]json.RawMessage, len(fields))

	for _, field := range fields {
		if value, ok := attributes[field]; ok {
			projected[field] = value
		}
	}

	compactedAttributes, err := json.Marshal(projected)
	if err != nil {
		return nil, fmt.Errorf("encoding compacted attributes: %w", err)
	}

	compacted := make(map[string]json.RawMessage, len(resource))
	for key, value := range resource {
		compacted[key] = value
	}

	compacted["attributes"] = compactedAttributes

	result, err := json.Marshal(compacted)
	if err != nil {
		return nil, fmt.Errorf("encoding compacted resource: %w", err)
	}

	return result, nil
}

// CompactResources applies CompactResource to every item in order.
func CompactResources(items []json.RawMessage, fields []string) ([]json.RawMessage, error) {
	if len(fields) == 0 {
		return items, nil
	}

	compacted := make([]json.RawMessage, 0, len(items))

	for _, item := range items {
		projected, err := CompactResource(item, fields)
		if err != nil {
			return nil, err
		}

		compacted = append(compacted, projected)
	}

	return compacted, nil
}
