// Package config loads lighting scenes and light parameter snapshots from
// data files. The format is chosen by extension: .json, .yaml/.yml or .toml.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"chosenoffset.com/light2d/internal/light"
)

// Format is a supported file encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "json"
	}
}

// FormatOf picks the format for path from its extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return 0, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
}

// Unmarshal decodes data into v, keeping fields of v the data does not set.
func Unmarshal(data []byte, f Format, v any) error {
	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// Marshal encodes v in the given format.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(v)
	default:
		return json.MarshalIndent(v, "", "  ")
	}
}

// decodeFile reads path into v. found is false when the file does not exist.
func decodeFile(path string, v any) (found bool, err error) {
	f, err := FormatOf(path)
	if err != nil {
		return false, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := Unmarshal(data, f, v); err != nil {
		return true, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return true, nil
}

func encodeFile(path string, v any) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Marshal(v, f)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// LoadParameters reads a light parameter snapshot. Fields the file leaves
// out keep their defaults, and a missing file yields the defaults.
func LoadParameters(path string) (light.Parameters, error) {
	p := light.DefaultParameters()
	if _, err := decodeFile(path, &p); err != nil {
		return light.Parameters{}, fmt.Errorf("failed to load light parameters: %w", err)
	}
	return p.Normalized(), nil
}

// SaveParameters writes a light parameter snapshot.
func SaveParameters(path string, p light.Parameters) error {
	if err := encodeFile(path, p); err != nil {
		return fmt.Errorf("failed to save light parameters: %w", err)
	}
	return nil
}
