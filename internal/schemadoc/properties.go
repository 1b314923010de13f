package schemadoc

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is one entry of a document's properties object: a column name
// and its JSON-Schema type.
type Property struct {
	Name     string
	JSONType string
}

// Properties is an order-preserving sequence of document properties.
// Column order is semantically meaningful to the downstream listing, so the
// properties object is never represented as a Go map: marshaling emits keys
// in sequence order and unmarshaling records them in stored order.
type Properties []Property

// MarshalJSON emits the properties object with keys in sequence order.
func (p Properties) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		typ, err := json.Marshal(prop.JSONType)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(`:{"type":`)
		buf.Write(typ)
		buf.WriteByte('}')
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON walks the properties object token by token so that key
// order survives the round-trip.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties must be a JSON object")
	}

	var out Properties
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in properties object", keyTok)
		}

		var value struct {
			Type string `json:"type"`
		}
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, Property{Name: name, JSONType: value.Type})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*p = out
	return nil
}
