package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scalar is a symbol or state name as written in a document.
// YAML and JSON numbers and booleans are kept as their literal text, so `0` and `"0"`
// name the same symbol.
type Scalar string

func (s Scalar) String() string {
	return string(s)
}

// UnmarshalYAML accepts any scalar node.
func (s *Scalar) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a scalar, got %s", value.Line, kindName(value.Kind))
	}
	*s = Scalar(value.Value)
	return nil
}

// UnmarshalJSON accepts strings, numbers and booleans.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*s = ""
		return nil
	}
	if data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = Scalar(str)
		return nil
	}
	if data[0] == '{' || data[0] == '[' {
		return fmt.Errorf("expected a scalar, got %s", string(data))
	}
	*s = Scalar(data)
	return nil
}

// Transition is one row of the transition table.
type Transition struct {
	Read  Scalar `json:"read" yaml:"read" mapstructure:"read"`
	State Scalar `json:"state" yaml:"state" mapstructure:"state"`
	Write Scalar `json:"write" yaml:"write" mapstructure:"write"`
	Move  string `json:"move" yaml:"move" mapstructure:"move"`
	Next  Scalar `json:"next" yaml:"next" mapstructure:"next"`
}

// Machine is a machine document: the definition, its transition rows and an optional
// initial tape.
type Machine struct {
	ID          string       `json:"id" yaml:"id" mapstructure:"id"`
	Description string       `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	States      []Scalar     `json:"states" yaml:"states" mapstructure:"states"`
	Alphabet    []Scalar     `json:"alphabet" yaml:"alphabet" mapstructure:"alphabet"`
	Blank       Scalar       `json:"blank" yaml:"blank" mapstructure:"blank"`
	Input       []Scalar     `json:"input,omitempty" yaml:"input,omitempty" mapstructure:"input"`
	Initial     Scalar       `json:"initial" yaml:"initial" mapstructure:"initial"`
	Final       []Scalar     `json:"final" yaml:"final" mapstructure:"final"`
	Tape        []Scalar     `json:"tape,omitempty" yaml:"tape,omitempty" mapstructure:"tape"`
	Transitions []Transition `json:"transitions" yaml:"transitions" mapstructure:"transitions"`
}

// TapeSymbols returns the document's initial tape as plain strings.
func (m *Machine) TapeSymbols() []string {
	return toStrings(m.Tape)
}

func toStrings(in []Scalar) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func kindName(k yaml.Kind) string {
	switch k {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.AliasNode:
		return "alias"
	case yaml.DocumentNode:
		return "document"
	}
	return "scalar"
}
