package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

var scalarType = reflect.TypeOf(Scalar(""))

// Parse decodes a YAML or JSON machine document. Unknown keys are rejected.
func Parse(data []byte) (*Machine, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var m Machine
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty machine document")
		}
		return nil, fmt.Errorf("failed to parse machine document: %w", err)
	}
	return &m, nil
}

// LoadFile reads and parses a machine document from disk.
// A document without an id takes the file name without extension.
func LoadFile(path string) (*Machine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read machine %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if m.ID == "" {
		base := filepath.Base(path)
		m.ID = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return m, nil
}

// Decode builds a machine document from a generic map, as produced by JSON tool
// arguments or frontmatter. Numbers and booleans are accepted wherever a symbol or
// state is expected.
func Decode(raw map[string]any) (*Machine, error) {
	var m Machine
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &m,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook:       scalarHook,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("failed to decode machine document: %w", err)
	}
	return &m, nil
}

// DecodeJSON decodes a JSON machine document through Decode, keeping the literal
// text of numeric symbols ("1.0" stays "1.0").
func DecodeJSON(data []byte) (*Machine, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty machine document")
		}
		return nil, fmt.Errorf("failed to parse machine document: %w", err)
	}
	return Decode(raw)
}

func scalarHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != scalarType || data == nil {
		return data, nil
	}
	switch from.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		return nil, fmt.Errorf("expected a scalar, got %s", from)
	}
	return Scalar(formatScalar(data)), nil
}

// formatScalar renders decoded numbers in plain decimal notation. A float that
// already lost its literal text renders as its shortest exact form (1.0 is "1").
func formatScalar(data any) string {
	switch v := data.(type) {
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(data)
	}
}
