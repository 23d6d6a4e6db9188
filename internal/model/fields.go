package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Field is one key/value pair of a Fields mapping.
type Field struct {
	Key   string
	Value any
}

// Fields is a free-form mapping that keeps its key order through YAML and
// JSON. Values are whatever the decoder produces for arbitrary data.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (any, bool) {
	for _, kv := range f {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Keys returns the keys in document order.
func (f Fields) Keys() []string {
	keys := make([]string, len(f))
	for i, kv := range f {
		keys[i] = kv.Key
	}
	return keys
}

func (f *Fields) UnmarshalYAML(n *yaml.Node) error {
	out := Fields{}
	err := eachYAMLPair(n, func(key string, value *yaml.Node) error {
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		out = append(out, Field{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*f = out
	return nil
}

func (f Fields) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range f {
		if err := appendYAMLPair(n, kv.Key, kv.Value); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (f *Fields) UnmarshalJSON(b []byte) error {
	out := Fields{}
	isNull, err := eachJSONPair(b, func(key string, value json.RawMessage) error {
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		out = append(out, Field{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	if isNull {
		*f = nil
		return nil
	}
	*f = out
	return nil
}

func (f Fields) MarshalJSON() ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, kv := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(kv.Key)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(kv.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", kv.Key, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// eachYAMLPair calls fn for every key of a mapping node, in order.
func eachYAMLPair(n *yaml.Node, fn func(key string, value *yaml.Node) error) error {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: cannot decode %s into a mapping", n.Line, n.ShortTag())
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		var key string
		if err := n.Content[i].Decode(&key); err != nil {
			return err
		}
		if err := fn(key, n.Content[i+1]); err != nil {
			return err
		}
	}
	return nil
}

// appendYAMLPair adds key: value to a mapping node.
func appendYAMLPair(n *yaml.Node, key string, value any) error {
	var v yaml.Node
	if err := v.Encode(value); err != nil {
		return fmt.Errorf("field %q: %w", key, err)
	}
	k := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
	n.Content = append(n.Content, k, &v)
	return nil
}

// eachJSONPair calls fn for every member of a JSON object, in order. A JSON
// null reports isNull and calls nothing.
func eachJSONPair(b []byte, fn func(key string, value json.RawMessage) error) (isNull bool, err error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	tok, err := dec.Token()
	if err != nil {
		return false, err
	}
	if tok == nil {
		return true, nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return false, errors.New("expected a JSON object")
	}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return false, err
		}
		key, ok := tok.(string)
		if !ok {
			return false, errors.New("expected an object key")
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return false, err
		}
		if err := fn(key, value); err != nil {
			return false, err
		}
	}
	_, err = dec.Token()
	return false, err
}
