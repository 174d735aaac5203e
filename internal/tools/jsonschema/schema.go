package jsonschema

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// SimpleType is one of the primitive type names a schema may declare.
type SimpleType string

const (
	TypeString  SimpleType = "string"
	TypeInteger SimpleType = "integer"
	TypeNumber  SimpleType = "number"
	TypeBoolean SimpleType = "boolean"
	TypeObject  SimpleType = "object"
	TypeArray   SimpleType = "array"
	TypeNull    SimpleType = "null"
)

// TypeList holds the declared types of a schema. The "type" keyword itself
// accepts either a single name or a list of names, so decoding tries the
// single form first and falls back to the list form.
type TypeList []SimpleType

func (t *TypeList) UnmarshalJSON(data []byte) error {
	var one SimpleType
	if err := json.Unmarshal(data, &one); err == nil {
		*t = TypeList{one}
		return nil
	}
	var many []SimpleType
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decoding type list: %w", err)
	}
	*t = many
	return nil
}

// Contains reports whether st is one of the declared types.
func (t TypeList) Contains(st SimpleType) bool {
	for _, el := range t {
		if el == st {
			return true
		}
	}
	return false
}

// ItemList holds the "items" keyword, which accepts a single schema or a
// list of schemas.
type ItemList []*Schema

func (i *ItemList) UnmarshalJSON(data []byte) error {
	var one Schema
	if err := json.Unmarshal(data, &one); err == nil {
		*i = ItemList{&one}
		return nil
	}
	var many []*Schema
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("decoding items: %w", err)
	}
	*i = many
	return nil
}

// AdditionalProperties holds the "additionalProperties" keyword, which
// accepts a boolean or a schema. Schema is nil when the keyword was a bare
// boolean; the value type of such a map is unconstrained.
type AdditionalProperties struct {
	Schema *Schema
}

func (a *AdditionalProperties) UnmarshalJSON(data []byte) error {
	var flag bool
	if err := json.Unmarshal(data, &flag); err == nil {
		a.Schema = nil
		return nil
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("decoding additionalProperties: %w", err)
	}
	a.Schema = &s
	return nil
}

// Properties is an order-preserving mapping of property name to schema.
// Iteration order is the document order, which keeps generation
// deterministic.
type Properties = orderedmap.OrderedMap[string, *Schema]

// Property represents a single key-value pair in a schema's properties.
type Property struct {
	Name   string
	Schema *Schema
}

// Schema is one JSON-Schema-shaped unit of the input document. A node with
// Ref set defers all structural interpretation to the referenced node;
// resolution is explicit, performed by Resolve.
type Schema struct {
	Ref                  string                `json:"$ref,omitempty"`
	Type                 TypeList              `json:"type,omitempty"`
	Properties           *Properties           `json:"properties,omitempty"`
	Required             []string              `json:"required,omitempty"`
	Items                ItemList              `json:"items,omitempty"`
	AdditionalProperties *AdditionalProperties `json:"additionalProperties,omitempty"`
	AllOf                []*Schema             `json:"allOf,omitempty"`
	AnyOf                []*Schema             `json:"anyOf,omitempty"`
	Enum                 []any                 `json:"enum,omitempty"`
	Default              any                   `json:"default,omitempty"`
	Description          string                `json:"description,omitempty"`
	Definitions          *Properties           `json:"definitions,omitempty"`
}

// Parse decodes a JSON schema document. Property and definition order is
// preserved.
func Parse(data []byte) (*Schema, error) {
	s := &Schema{}
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parsing schema document: %w", err)
	}
	return s, nil
}

// PropertyList returns the properties in document order as a slice.
func (s *Schema) PropertyList() []Property {
	if s == nil || s.Properties == nil {
		return nil
	}
	out := make([]Property, 0, s.Properties.Len())
	for p := s.Properties.Oldest(); p != nil; p = p.Next() {
		out = append(out, Property{Name: p.Key, Schema: p.Value})
	}
	return out
}

// IsRequired reports whether name is listed in the schema's required set.
func (s *Schema) IsRequired(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// HasEmptyEnum reports whether the schema carries an explicit zero-variant
// enumeration. Source schemas use the degenerate form to mean "accept any
// string-shaped value".
func (s *Schema) HasEmptyEnum() bool {
	return s.Enum != nil && len(s.Enum) == 0
}

// DeepCopy returns a copy of the schema that shares no mutable state with
// the original. Pointer cycles are preserved rather than expanded.
func (s *Schema) DeepCopy() *Schema {
	return s.deepCopy(map[*Schema]*Schema{})
}

func (s *Schema) deepCopy(visited map[*Schema]*Schema) *Schema {
	if s == nil {
		return nil
	}
	if c, ok := visited[s]; ok {
		return c
	}

	c := &Schema{
		Ref:         s.Ref,
		Description: s.Description,
		Default:     s.Default,
	}
	visited[s] = c

	if s.Type != nil {
		c.Type = append(TypeList{}, s.Type...)
	}
	if s.Required != nil {
		c.Required = append([]string{}, s.Required...)
	}
	if s.Enum != nil {
		c.Enum = append([]any{}, s.Enum...)
	}
	for _, item := range s.Items {
		c.Items = append(c.Items, item.deepCopy(visited))
	}
	for _, sub := range s.AllOf {
		c.AllOf = append(c.AllOf, sub.deepCopy(visited))
	}
	for _, sub := range s.AnyOf {
		c.AnyOf = append(c.AnyOf, sub.deepCopy(visited))
	}
	if s.AdditionalProperties != nil {
		c.AdditionalProperties = &AdditionalProperties{
			Schema: s.AdditionalProperties.Schema.deepCopy(visited),
		}
	}
	c.Properties = copyProperties(s.Properties, visited)
	c.Definitions = copyProperties(s.Definitions, visited)
	return c
}

func copyProperties(props *Properties, visited map[*Schema]*Schema) *Properties {
	if props == nil {
		return nil
	}
	out := orderedmap.New[string, *Schema]()
	for p := props.Oldest(); p != nil; p = p.Next() {
		out.Set(p.Key, p.Value.deepCopy(visited))
	}
	return out
}

// Equal reports whether two schemas are structurally identical. Property
// order is significant, matching the order-defined model of the document.
func Equal(a, b *Schema) bool {
	return cmp.Equal(a, b, cmpOptions()...)
}

// Diff returns a human-readable structural diff, for tests and debugging.
func Diff(a, b *Schema) string {
	return cmp.Diff(a, b, cmpOptions()...)
}

func cmpOptions() []cmp.Option {
	return []cmp.Option{
		// The ordered map has unexported internals; compare it as the
		// ordered pair list it represents.
		cmp.Transformer("orderedProperties", func(m *Properties) []Property {
			if m == nil {
				return nil
			}
			out := make([]Property, 0, m.Len())
			for p := m.Oldest(); p != nil; p = p.Next() {
				out = append(out, Property{Name: p.Key, Schema: p.Value})
			}
			return out
		}),
	}
}
