package record

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema.json
var schemaJSON string

// Validate checks a raw clinical record against the bundle schema.
func Validate(raw map[string]any) error {
	schemaLoader := gojsonschema.NewStringLoader(schemaJSON)
	documentLoader := gojsonschema.NewGoLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("validate record schema: %w", err)
	}
	if result.Valid() {
		return nil
	}

	errs := make([]string, 0, len(result.Errors()))
	for _, schemaErr := range result.Errors() {
		errs = append(errs, schemaErr.String())
	}
	sort.Strings(errs)

	return fmt.Errorf("record schema validation failed: %s", strings.Join(errs, "; "))
}

// FromPayload validates and decodes a raw clinical record received over the
// wire into a typed bundle.
func FromPayload(raw map[string]any) (Bundle, error) {
	if err := Validate(raw); err != nil {
		return Bundle{}, err
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return Bundle{}, fmt.Errorf("marshal record: %w", err)
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("decode record: %w", err)
	}
	return b, nil
}

// ToPayload converts a bundle into the generic map shape carried on the wire.
func ToPayload(b Bundle) (map[string]any, error) {
	data, err := json.Marshal(b)
	if err != nil {
		return nil, fmt.Errorf("marshal record: %w", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return raw, nil
}
