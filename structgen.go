package structgen

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"sigs.k8s.io/yaml"

	"github.com/krateoplatformops/structgen/internal/tools/generator"
	hasher "github.com/krateoplatformops/structgen/internal/tools/hash"
	"github.com/krateoplatformops/structgen/internal/tools/jsonschema"
)

// JsonSchemaGetter retrieves the schema document to generate from.
type JsonSchemaGetter interface {
	Get() ([]byte, error)
}

// Options for the type generation.
type Options struct {
	// RootName is the type name given to the document root. It may be
	// empty when the document only carries definitions, in which case the
	// root self-reference "#" is an error.
	RootName string

	// Package is the package clause of the generated file. Defaults to
	// "types".
	Package string

	// SchemaGetter provides the schema document, as JSON or YAML.
	SchemaGetter JsonSchemaGetter
}

// Result of the type generation.
type Result struct {
	// Source is the gofmt-formatted generated file.
	Source []byte
	// Digest is a stable fingerprint of the generated source, useful to
	// detect drift between runs.
	Digest string
	// Err is set when generation failed; Source and Digest are empty then.
	Err error
}

// Generate the type declarations implied by a schema document.
func Generate(ctx context.Context, opts Options) Result {
	if opts.SchemaGetter == nil {
		return Result{Err: fmt.Errorf("schema getter must be specified")}
	}

	data, err := opts.SchemaGetter.Get()
	if err != nil {
		return Result{Err: fmt.Errorf("fetching schema document: %w", err)}
	}

	// YAML input is tolerated, but JSON goes straight to the parser so
	// that property order survives as written.
	if !json.Valid(data) {
		data, err = yaml.YAMLToJSON(data)
		if err != nil {
			return Result{Err: fmt.Errorf("converting schema document to json: %w", err)}
		}
	}

	root, err := jsonschema.Parse(data)
	if err != nil {
		return Result{Err: err}
	}

	config := generator.DefaultConfig()
	if opts.Package != "" {
		config.Package = opts.Package
	}

	exp := generator.NewExpander(opts.RootName, root, config)
	decls, err := exp.Expand(ctx)
	if err != nil {
		return Result{Err: err}
	}
	src, err := exp.Render(decls)
	if err != nil {
		return Result{Err: err}
	}

	return Result{
		Source: src,
		Digest: hasher.Digest(src),
	}
}

// GenerateSource is a convenience wrapper around Generate for callers that
// already hold the schema text in memory.
func GenerateSource(rootName string, schemaText []byte) ([]byte, error) {
	res := Generate(context.Background(), Options{
		RootName:     rootName,
		SchemaGetter: BytesJsonSchemaGetter(schemaText),
	})
	return res.Source, res.Err
}

// BytesJsonSchemaGetter adapts an in-memory document to JsonSchemaGetter.
type BytesJsonSchemaGetter []byte

func (g BytesJsonSchemaGetter) Get() ([]byte, error) {
	return []byte(g), nil
}

// FileJsonSchemaGetter reads the schema document from a file on disk.
func FileJsonSchemaGetter(path string) JsonSchemaGetter {
	return fileGetter{path: path}
}

type fileGetter struct {
	path string
}

func (g fileGetter) Get() ([]byte, error) {
	return os.ReadFile(g.path)
}
