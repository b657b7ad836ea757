// decode.go holds the custom YAML and JSON decoders for the two value
// shapes plain struct decoding cannot express: numeric inputs that may be
// a scalar or a (nested) list, and the ordered defaultiface mapping.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mmr-tortoise/mpbas/internal/model"
)

// Numbers is a numeric input given either as a scalar or as a list, with
// any nesting depth. Nested lists are flattened in document order, so a
// [layer][row][col] volume becomes a layer-row-column sequence.
type Numbers struct {
	Values []float64

	// err records a decode problem so that Validate can report it with
	// the field name instead of aborting the whole document.
	err error
}

// IsSet reports whether the field was present and non-null.
func (n Numbers) IsSet() bool {
	return len(n.Values) > 0
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (n *Numbers) UnmarshalYAML(value *yaml.Node) error {
	n.Values, n.err = flattenYAML(value, nil)
	return nil
}

func flattenYAML(node *yaml.Node, out []float64) ([]float64, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			return out, nil
		}
		v, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: %q is not a number", node.Line, node.Value)
		}
		return append(out, v), nil
	case yaml.SequenceNode:
		var err error
		for _, item := range node.Content {
			if out, err = flattenYAML(item, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	case yaml.AliasNode:
		return flattenYAML(node.Alias, out)
	default:
		return nil, fmt.Errorf("line %d: expected a number or a list of numbers", node.Line)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Numbers) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	n.Values, n.err = flattenJSON(raw, nil)
	return nil
}

func flattenJSON(raw interface{}, out []float64) ([]float64, error) {
	switch v := raw.(type) {
	case nil:
		return out, nil
	case float64:
		return append(out, v), nil
	case []interface{}:
		var err error
		for _, item := range v {
			if out, err = flattenJSON(item, out); err != nil {
				return nil, err
			}
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a number or a list of numbers, got %v", v)
	}
}

// IfaceMap is the ordered defaultiface mapping. Values may be integers or
// face names (see model.ParseFace).
type IfaceMap struct {
	Entries model.DefaultIface

	// present is true when the key appeared with a non-null value.
	present bool

	// err records a decode problem (not a mapping, unparsable value).
	err error
}

// IsSet reports whether a defaultiface mapping was given.
func (m IfaceMap) IsSet() bool {
	return m.present
}

// errNotMapping is reported when defaultiface is a scalar or a list.
var errNotMapping = fmt.Errorf("defaultiface must be a mapping of package labels to values between %d and %d", model.MinFace, model.MaxFace)

// UnmarshalYAML implements yaml.Unmarshaler. It walks the mapping node
// directly because decoding into a Go map would lose key order.
func (m *IfaceMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.AliasNode {
		value = value.Alias
	}
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		return nil
	}
	m.present = true
	if value.Kind != yaml.MappingNode {
		m.err = errNotMapping
		return nil
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		key, val := value.Content[i], value.Content[i+1]
		if val.Kind != yaml.ScalarNode {
			m.err = fmt.Errorf("defaultiface for package %s: expected an integer or a face name", key.Value)
			return nil
		}
		if !m.add(key.Value, val.Value) {
			return nil
		}
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler using the token stream so that
// object key order is kept.
func (m *IfaceMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	m.present = true
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		m.err = errNotMapping
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var text string
		switch v := raw.(type) {
		case json.Number:
			text = v.String()
		case string:
			text = v
		default:
			m.err = fmt.Errorf("defaultiface for package %s: expected an integer or a face name", key)
			return nil
		}
		if !m.add(key, text) {
			return nil
		}
	}
	_, err = dec.Token()
	return err
}

// add parses one label/value pair. It returns false after recording an
// error so callers can stop early.
func (m *IfaceMap) add(label, text string) bool {
	face, err := model.ParseFace(text)
	if err != nil {
		m.err = fmt.Errorf("defaultiface for package %s: %s", label, strings.TrimPrefix(err.Error(), "invalid iface "))
		return false
	}
	m.Entries = append(m.Entries, model.IfaceAssignment{Label: label, Face: face})
	return true
}
