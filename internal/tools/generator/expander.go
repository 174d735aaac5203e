package generator

import (
	"log"
	"strings"

	"github.com/krateoplatformops/structgen/internal/tools/jsonschema"
	"github.com/krateoplatformops/structgen/internal/tools/text"
)

// Config holds configuration options for the declaration generator.
type Config struct {
	// Package is the package clause of the generated source file.
	Package string
}

// DefaultConfig returns a new Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Package: "types",
	}
}

// opaqueType is the catch-all dynamic value representation, the escape
// hatch for schema shapes the type model does not attempt to capture
// precisely.
const opaqueType = "any"

// FieldType is the target type inferred for one schema fragment.
type FieldType struct {
	// Type is the Go type expression, e.g. "string", "[]Foo",
	// "map[string]any", "OneOrMany[Foo]" or "*Foo".
	Type string
	// Default reports that the type already carries an implicit empty
	// value, so a non-required field of this type needs no pointer wrap.
	Default bool
	// Optional reports that the optionality rule pointer-wrapped the type.
	Optional bool
}

func opaque() FieldType {
	return FieldType{Type: opaqueType}
}

// Expander walks a schema document and accumulates the type declarations
// it implies. A single Expander is bound to one document and one pass; it
// is not safe for concurrent use.
type Expander struct {
	rootName string
	root     *jsonschema.Schema
	config   *Config

	needsOneOrMany bool
	cyclic         map[string]bool
}

// NewExpander returns an Expander for the given document. rootName may be
// empty, in which case only the document's definitions produce
// declarations and the root self-reference "#" becomes unresolvable.
func NewExpander(rootName string, root *jsonschema.Schema, config *Config) *Expander {
	if config == nil {
		config = DefaultConfig()
	}
	return &Expander{
		rootName: rootName,
		root:     root,
		config:   config,
	}
}

// typeNameForRef derives the declaration name a reference points at.
func (e *Expander) typeNameForRef(ref string) (string, error) {
	tail := jsonschema.RefTail(ref)
	if tail == "" {
		if e.rootName == "" {
			return "", &MissingRootNameError{Ref: ref}
		}
		return text.ToTypeName(e.rootName), nil
	}
	return text.ToTypeName(tail), nil
}

// expandType infers the final field type for a schema fragment. A type
// naming the enclosing declaration (or any declaration on a reference
// cycle) is pointer-wrapped to keep the struct finite; a non-required type
// without an implicit default is pointer-wrapped to model optionality.
func (e *Expander) expandType(enclosing string, required bool, s *jsonschema.Schema) (FieldType, error) {
	ft, err := e.expandTypeInner(s)
	if err != nil {
		return FieldType{}, err
	}
	if ft.Type == enclosing || e.cyclic[ft.Type] {
		ft.Type = "*" + ft.Type
	}
	if !required && !ft.Default && !strings.HasPrefix(ft.Type, "*") {
		ft.Type = "*" + ft.Type
		ft.Optional = true
	}
	return ft, nil
}

// expandTypeInner dispatches on the shape of the schema fragment. The
// precedence mirrors how the shapes subsume each other: a reference defers
// everything, a two-branch anyOf may be the one-or-many idiom, a single
// declared type maps structurally, and everything else degrades to the
// opaque value type rather than failing.
func (e *Expander) expandTypeInner(s *jsonschema.Schema) (FieldType, error) {
	switch {
	case s.Ref != "":
		name, err := e.typeNameForRef(s.Ref)
		if err != nil {
			return FieldType{}, err
		}
		return FieldType{Type: name}, nil

	case len(s.AnyOf) == 2:
		ft, ok, err := e.expandOneOrMany(s.AnyOf)
		if err != nil {
			return FieldType{}, err
		}
		if ok {
			return ft, nil
		}
		return opaque(), nil

	case len(s.Type) == 1:
		return e.expandSingleType(s)

	default:
		// Untyped or multi-typed schemas are not modeled precisely.
		return opaque(), nil
	}
}

func (e *Expander) expandSingleType(s *jsonschema.Schema) (FieldType, error) {
	switch s.Type[0] {
	case jsonschema.TypeString:
		if s.HasEmptyEnum() {
			// A zero-variant enumeration means "any string-shaped value".
			return opaque(), nil
		}
		return FieldType{Type: "string"}, nil

	case jsonschema.TypeInteger:
		return FieldType{Type: "int64"}, nil

	case jsonschema.TypeNumber:
		return FieldType{Type: "float64"}, nil

	case jsonschema.TypeBoolean:
		return FieldType{Type: "bool"}, nil

	case jsonschema.TypeObject:
		if s.AdditionalProperties == nil {
			return opaque(), nil
		}
		elem := opaque()
		if sub := s.AdditionalProperties.Schema; sub != nil {
			var err error
			elem, err = e.expandTypeInner(sub)
			if err != nil {
				return FieldType{}, err
			}
		}
		return FieldType{
			Type:    "map[string]" + elem.Type,
			Default: isEmptyObject(s.Default),
		}, nil

	case jsonschema.TypeArray:
		elem := opaque()
		if len(s.Items) > 0 {
			var err error
			elem, err = e.expandTypeInner(s.Items[0])
			if err != nil {
				return FieldType{}, err
			}
		}
		return FieldType{Type: "[]" + elem.Type}, nil

	default:
		return opaque(), nil
	}
}

// expandOneOrMany recognizes the idiom of a two-branch anyOf where the
// second branch is an array of the first: a value that may appear as a
// single item or as a list of items. It reports false for any other shape.
func (e *Expander) expandOneOrMany(anyOf []*jsonschema.Schema) (FieldType, bool, error) {
	single, err := jsonschema.Resolved(anyOf[0], e.root)
	if err != nil {
		return FieldType{}, false, err
	}
	list, err := jsonschema.Resolved(anyOf[1], e.root)
	if err != nil {
		return FieldType{}, false, err
	}

	if len(list.Type) == 0 || list.Type[0] != jsonschema.TypeArray || len(list.Items) == 0 {
		return FieldType{}, false, nil
	}
	item, err := jsonschema.Resolved(list.Items[0], e.root)
	if err != nil {
		return FieldType{}, false, err
	}
	if !jsonschema.Equal(single, item) {
		return FieldType{}, false, nil
	}

	elem, err := e.expandTypeInner(anyOf[0])
	if err != nil {
		return FieldType{}, false, err
	}
	e.needsOneOrMany = true
	return FieldType{Type: "OneOrMany[" + elem.Type + "]", Default: true}, true, nil
}

func isEmptyObject(v any) bool {
	m, ok := v.(map[string]any)
	return ok && len(m) == 0
}

// detectCycles finds every declaration name that sits on a cycle of
// by-value references (a property whose schema is a bare reference). Such
// types must be pointer-wrapped wherever they appear as a field, including
// the direct self-reference case, or the generated structs would have
// infinite size.
//
// Cycle membership is computed as strongly connected components, so the
// result does not depend on traversal order: a cycle with a shortcut edge
// marks the same names no matter which node is reached first.
func (e *Expander) detectCycles() map[string]bool {
	var order []string
	adjacency := map[string][]string{}
	add := func(name string, schema *jsonschema.Schema) {
		resolved, err := jsonschema.Resolved(schema, e.root)
		if err != nil {
			// The same failure will surface as a fatal error during
			// expansion; cycle analysis just skips the node.
			log.Printf("structgen: cycle analysis skipped %q: %v", name, err)
			return
		}
		order = append(order, name)
		adjacency[name] = nil
		for _, p := range resolved.PropertyList() {
			if p.Schema.Ref == "" {
				continue
			}
			target, err := e.typeNameForRef(p.Schema.Ref)
			if err != nil {
				continue
			}
			adjacency[name] = append(adjacency[name], target)
		}
	}

	if e.root.Definitions != nil {
		for p := e.root.Definitions.Oldest(); p != nil; p = p.Next() {
			add(text.ToTypeName(p.Key), p.Value)
		}
	}
	if e.rootName != "" {
		add(text.ToTypeName(e.rootName), e.root)
	}

	// Tarjan. A nontrivial component means every member is on a cycle; a
	// trivial component is cyclic only through a self-loop.
	index := map[string]int{}
	low := map[string]int{}
	onStack := map[string]bool{}
	var stack []string
	next := 0
	cyclic := map[string]bool{}

	var connect func(n string)
	connect = func(n string) {
		index[n] = next
		low[n] = next
		next++
		stack = append(stack, n)
		onStack[n] = true

		for _, m := range adjacency[n] {
			if _, seen := index[m]; !seen {
				connect(m)
				if low[m] < low[n] {
					low[n] = low[m]
				}
			} else if onStack[m] && index[m] < low[n] {
				low[n] = index[m]
			}
		}

		if low[n] == index[n] {
			var component []string
			for {
				m := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[m] = false
				component = append(component, m)
				if m == n {
					break
				}
			}
			if len(component) > 1 {
				for _, m := range component {
					cyclic[m] = true
				}
			}
		}
	}
	for _, n := range order {
		if _, seen := index[n]; !seen {
			connect(n)
		}
	}

	for n, targets := range adjacency {
		for _, m := range targets {
			if m == n {
				cyclic[n] = true
			}
		}
	}
	return cyclic
}
