package composition

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Compositions travel through JSON and YAML documents as symbol→amount
// mappings, e.g. {"Na": 1, "Cl": 1}. Decoders also accept a formula string
// ("NaCl"). Decoding always canonicalizes.

// Symbols returns c as a symbol→fraction map.
func (c Composition) Symbols() map[string]float64 {
	out := make(map[string]float64, len(c.elems))
	for i, e := range c.elems {
		out[e.Symbol()] = c.fracs[i]
	}

	return out
}

// MarshalJSON implements json.Marshaler.
func (c Composition) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.Symbols())
}

// UnmarshalJSON implements json.Unmarshaler.
func (c *Composition) UnmarshalJSON(data []byte) error {
	var formula string
	if err := json.Unmarshal(data, &formula); err == nil {
		return c.parseInto(formula)
	}
	var raw map[string]float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("composition: decode json: %w", err)
	}
	parsed, err := FromSymbols(raw)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (c Composition) MarshalYAML() (interface{}, error) {
	return c.Symbols(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (c *Composition) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		return c.parseInto(node.Value)
	}
	var raw map[string]float64
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("composition: decode yaml (line %d): %w", node.Line, err)
	}
	parsed, err := FromSymbols(raw)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}

func (c *Composition) parseInto(formula string) error {
	parsed, err := Parse(formula)
	if err != nil {
		return err
	}
	*c = parsed

	return nil
}
