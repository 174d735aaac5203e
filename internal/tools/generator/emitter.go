package generator

import (
	"bytes"
	"context"
	"fmt"
	"go/format"

	"github.com/dave/jennifer/jen"

	"github.com/krateoplatformops/structgen/internal/tools/jsonschema"
	"github.com/krateoplatformops/structgen/internal/tools/text"
)

const (
	lineLength   = 100
	indentLength = 4
)

// DeclKind discriminates the shapes a schema can turn into.
type DeclKind int

const (
	KindStruct DeclKind = iota
	KindEnum
	KindAlias
)

// Declaration is one generated top-level type.
type Declaration struct {
	// Name is the Go type name.
	Name string
	// Original is the schema key the name was derived from.
	Original string
	// Doc holds the wrapped documentation lines, if any.
	Doc []string
	// Kind tells which shape the schema produced.
	Kind DeclKind
	// Defaultable reports that the zero value of the type is a valid
	// instance, i.e. every field is either optional or carries an
	// implicit default.
	Defaultable bool

	code []jen.Code
}

type structField struct {
	doc  []string
	name string
	typ  string
	tag  string
}

// expandFields flattens a schema into the struct fields it implies,
// folding allOf compositions and references first. The second result
// reports whether every field tolerates being absent.
func (e *Expander) expandFields(typeName string, schema *jsonschema.Schema) ([]structField, bool, error) {
	resolved, err := jsonschema.Resolved(schema, e.root)
	if err != nil {
		return nil, false, err
	}

	defaultable := true
	var fields []structField
	for _, p := range resolved.PropertyList() {
		required := resolved.IsRequired(p.Name)
		ft, err := e.expandType(typeName, required, p.Schema)
		if err != nil {
			return nil, false, err
		}
		if !ft.Optional && !ft.Default && required {
			defaultable = false
		}

		name, _ := text.ToFieldName(p.Name)
		tag := p.Name
		if !required {
			tag += ",omitempty"
		}
		fields = append(fields, structField{
			doc:  text.DocLines(p.Schema.Description, lineLength-indentLength),
			name: name,
			typ:  ft.Type,
			tag:  tag,
		})
	}
	return fields, defaultable, nil
}

// expandSchemaDecl turns one named schema into a declaration. A schema
// with properties becomes a struct, a non-empty string enumeration
// becomes a named string type with constants, and anything else becomes
// a type alias for whatever expandType infers.
func (e *Expander) expandSchemaDecl(originalName string, schema *jsonschema.Schema) (*Declaration, error) {
	typeName := text.ToTypeName(originalName)

	resolved, err := jsonschema.Resolved(schema, e.root)
	if err != nil {
		return nil, err
	}

	decl := &Declaration{
		Name:     typeName,
		Original: originalName,
		Doc:      text.DocLines(resolved.Description, lineLength),
	}

	fields, defaultable, err := e.expandFields(typeName, schema)
	if err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		decl.Kind = KindStruct
		decl.Defaultable = defaultable

		var members []jen.Code
		for _, f := range fields {
			for _, line := range f.doc {
				members = append(members, jen.Comment(line))
			}
			members = append(members, jen.Id(f.name).Id(f.typ).Tag(map[string]string{"json": f.tag}))
		}
		decl.code = []jen.Code{jen.Type().Id(typeName).Struct(members...)}
		return decl, nil
	}

	if len(resolved.Enum) > 0 {
		variants, err := enumVariants(typeName, resolved.Enum)
		if err != nil {
			return nil, err
		}
		decl.Kind = KindEnum
		decl.code = []jen.Code{
			jen.Type().Id(typeName).String(),
			jen.Const().Defs(variants...),
		}
		return decl, nil
	}

	ft, err := e.expandType("", true, schema)
	if err != nil {
		return nil, err
	}
	decl.Kind = KindAlias
	decl.Defaultable = ft.Type == opaqueType
	decl.code = []jen.Code{jen.Type().Id(typeName).Op("=").Id(ft.Type)}
	return decl, nil
}

// enumVariants builds one typed constant per enumeration value. The
// constant name carries the type name as a prefix and the literal keeps
// the exact wire value, so renaming stays lossless.
func enumVariants(typeName string, values []any) ([]jen.Code, error) {
	variants := make([]jen.Code, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, &NonStringEnumError{TypeName: typeName, Value: v}
		}
		variants = append(variants,
			jen.Id(typeName+text.ToTypeName(s)).Id(typeName).Op("=").Lit(s))
	}
	return variants, nil
}

func (e *Expander) expandDefinitions() ([]*Declaration, error) {
	if e.root.Definitions == nil {
		return nil, nil
	}
	var decls []*Declaration
	for p := e.root.Definitions.Oldest(); p != nil; p = p.Next() {
		decl, err := e.expandSchemaDecl(p.Key, p.Value)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// Expand produces every declaration the document implies, definitions
// first in document order, then the root schema when a root name was
// given.
func (e *Expander) Expand(ctx context.Context) ([]*Declaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	e.needsOneOrMany = false
	e.cyclic = e.detectCycles()

	decls, err := e.expandDefinitions()
	if err != nil {
		return nil, err
	}
	if e.rootName != "" {
		decl, err := e.expandSchemaDecl(e.rootName, e.root)
		if err != nil {
			return nil, err
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// Render assembles the declarations into a single gofmt-formatted source
// file. A formatting failure is a bug in the emitter and is returned as a
// fatal error rather than emitting unformatted text.
func (e *Expander) Render(decls []*Declaration) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("// Code generated by structgen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&buf, "package %s\n\n", e.config.Package)

	if e.needsOneOrMany {
		buf.WriteString("import \"encoding/json\"\n\n")
		buf.WriteString(oneOrManyDefinition)
		buf.WriteString("\n")
	}

	for _, decl := range decls {
		for _, line := range decl.Doc {
			if line == "" {
				buf.WriteString("//\n")
				continue
			}
			fmt.Fprintf(&buf, "// %s\n", line)
		}
		for _, code := range decl.code {
			fmt.Fprintf(&buf, "%#v\n\n", code)
		}
	}

	src, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("formatting generated declarations: %w", err)
	}
	return src, nil
}
