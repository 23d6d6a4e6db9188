package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

func (c *DashboardComponent) UnmarshalYAML(n *yaml.Node) error {
	var out DashboardComponent
	err := eachYAMLPair(n, func(key string, value *yaml.Node) error {
		switch key {
		case "type":
			return value.Decode(&out.Type)
		case "id":
			return value.Decode(&out.ID)
		case "title":
			return value.Decode(&out.Title)
		case "contents":
			return value.Decode(&out.Contents)
		}
		var v any
		if err := value.Decode(&v); err != nil {
			return err
		}
		out.Extra = append(out.Extra, Field{Key: key, Value: v})
		return nil
	})
	if err != nil {
		return err
	}
	*c = out
	return nil
}

func (c DashboardComponent) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, kv := range c.ordered() {
		if err := appendYAMLPair(n, kv.Key, kv.Value); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (c *DashboardComponent) UnmarshalJSON(b []byte) error {
	var out DashboardComponent
	isNull, err := eachJSONPair(b, func(key string, value json.RawMessage) error {
		switch key {
		case "type":
			return json.Unmarshal(value, &out.Type)
		case "id":
			return json.Unmarshal(value, &out.ID)
		case "title":
			return json.Unmarshal(value, &out.Title)
		case "contents":
			return json.Unmarshal(value, &out.Contents)
		}
		var v any
		if err := json.Unmarshal(value, &v); err != nil {
			return err
		}
		out.Extra = append(out.Extra, Field{Key: key, Value: v})
		return nil
	})
	if err != nil || isNull {
		return err
	}
	*c = out
	return nil
}

func (c DashboardComponent) MarshalJSON() ([]byte, error) {
	fields := c.ordered()
	if len(fields) == 0 {
		return []byte("{}"), nil
	}
	return fields.MarshalJSON()
}

// ordered lists the non-empty known keys followed by the extras.
func (c DashboardComponent) ordered() Fields {
	var out Fields
	if c.Type != "" {
		out = append(out, Field{Key: "type", Value: c.Type})
	}
	if c.ID != "" {
		out = append(out, Field{Key: "id", Value: c.ID})
	}
	if c.Title != "" {
		out = append(out, Field{Key: "title", Value: c.Title})
	}
	if len(c.Contents) > 0 {
		out = append(out, Field{Key: "contents", Value: c.Contents})
	}
	return append(out, c.Extra...)
}
