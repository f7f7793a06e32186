package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/katalvlaran/gclp/composition"
	"github.com/katalvlaran/gclp/registry"
	"github.com/katalvlaran/gclp/stability"
	"gopkg.in/yaml.v3"
)

// readPhases decodes a list of {composition, energy} entries. YAML is a
// superset of JSON, so one decoder serves both.
func readPhases(path string) ([]registry.Entry, error) {
	var out []registry.Entry
	if err := decodeFile(path, &out); err != nil {
		return nil, err
	}

	return out, nil
}

// readEntries decodes a list of {composition, measured, predicted} entries.
func readEntries(path string) ([]stability.Entry, error) {
	var out []stability.Entry
	if err := decodeFile(path, &out); err != nil {
		return nil, err
	}
	for i, e := range out {
		if e.Composition.IsZero() {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i, composition.ErrEmpty)
		}
	}

	return out, nil
}

// targets collects compositions from formula arguments and, when file is
// set, from the entries it lists.
func targets(args []string, file string) ([]composition.Composition, error) {
	out := make([]composition.Composition, 0, len(args))
	for _, arg := range args {
		c, err := composition.Parse(arg)
		if err != nil {
			return nil, fmt.Errorf("target %q: %w", arg, err)
		}
		out = append(out, c)
	}
	if file == "" {
		return out, nil
	}
	entries, err := readEntries(file)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		out = append(out, e.Composition)
	}

	return out, nil
}

func decodeFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}
