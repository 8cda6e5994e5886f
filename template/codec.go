package template

import (
	"encoding/json"
	"fmt"

	"github.com/lvillar/bizdoc"
)

// Export serializes the template to indented JSON for the
// "export template" user action.
func Export(t Template) ([]byte, error) {
	data, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("template: exporting: %w", err)
	}
	return data, nil
}

// Import parses an exported template payload. The payload must carry
// at least an identifier and a colors block; anything less is rejected
// with bizdoc.ErrInvalidImport so the caller's in-memory template
// stays untouched. Payloads that pass the shape check are repaired via
// Validate, so legacy exports with missing optional fields load fine.
func Import(data []byte) (Template, error) {
	// Minimal shape check on the raw payload. Decoding straight into
	// Template would zero-fill missing keys and hide corruption.
	var shape struct {
		ID     string           `json:"id"`
		Colors *json.RawMessage `json:"colors"`
	}
	if err := json.Unmarshal(data, &shape); err != nil {
		return Template{}, fmt.Errorf("%w: %v", bizdoc.ErrInvalidImport, err)
	}
	if shape.ID == "" || shape.Colors == nil {
		return Template{}, fmt.Errorf("%w: payload missing id or colors", bizdoc.ErrInvalidImport)
	}

	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("%w: %v", bizdoc.ErrInvalidImport, err)
	}
	return Validate(t), nil
}
