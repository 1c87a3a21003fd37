// Package cardlist reads the list of card names to price.
package cardlist

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// ErrUnrecognizedInput is returned when the input is neither a list literal
// nor the path of an existing file.
var ErrUnrecognizedInput = errors.New("input is neither a card list nor a card list file")

// Parse interprets input as a JSON array literal when it starts with '[',
// otherwise as the path of a file holding one. Single-quoted strings and
// trailing commas are accepted in both.
func Parse(input string) ([]string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("%w: empty input", ErrUnrecognizedInput)
	}

	if strings.HasPrefix(input, "[") {
		return decodeJSON([]byte(input))
	}

	names, err := ParseFile(input)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %q", ErrUnrecognizedInput, input)
	}
	return names, err
}

// ParseFile reads a card list file. Files ending in .yaml or .yml hold a
// YAML sequence, anything else a JSON array.
func ParseFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read card list: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		var names []string
		if err := yaml.Unmarshal(data, &names); err != nil {
			return nil, fmt.Errorf("failed to parse card list %s: %w", path, err)
		}
		return names, nil
	default:
		names, err := decodeJSON(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return names, nil
	}
}

func decodeJSON(data []byte) ([]string, error) {
	var names []string
	if err := json5.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse card list: %w", err)
	}
	return names, nil
}

// Dedupe returns the distinct non-empty names in sorted order.
func Dedupe(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		if strings.TrimSpace(name) == "" {
			continue
		}
		out = append(out, name)
	}
	slices.Sort(out)
	return slices.Compact(out)
}
