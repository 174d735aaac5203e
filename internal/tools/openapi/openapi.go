// Package openapi extracts the component schemas of an OpenAPI document
// and repackages them as a plain schema document with definitions, the
// input format the generator understands.
package openapi

import (
	"bytes"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/pb33f/libopenapi"
	orderedmap "github.com/wk8/go-ordered-map/v2"
	"sigs.k8s.io/yaml"
)

// ExtractDefinitions returns a schema document whose definitions are the
// component schemas of the given OpenAPI v3 document. Component references
// are rewritten to definition references so that cross-schema links keep
// resolving. Schema order follows the document.
func ExtractDefinitions(data []byte) ([]byte, error) {
	d, err := libopenapi.NewDocument(data)
	if err != nil {
		return nil, fmt.Errorf("reading openapi document: %w", err)
	}
	model, modelErrors := d.BuildV3Model()
	if len(modelErrors) > 0 {
		return nil, fmt.Errorf("building openapi model: %w", errors.Join(modelErrors...))
	}
	if model.Model.Components == nil || model.Model.Components.Schemas == nil {
		return nil, fmt.Errorf("openapi document carries no component schemas")
	}

	defs := orderedmap.New[string, json.RawMessage]()
	for pair := model.Model.Components.Schemas.First(); pair != nil; pair = pair.Next() {
		proxy := pair.Value()
		schema := proxy.Schema()
		if schema == nil {
			return nil, fmt.Errorf("building component schema %q: %w", pair.Key(), proxy.GetBuildError())
		}
		rendered, err := schema.Render()
		if err != nil {
			return nil, fmt.Errorf("rendering component schema %q: %w", pair.Key(), err)
		}
		encoded, err := yaml.YAMLToJSON(rendered)
		if err != nil {
			return nil, fmt.Errorf("converting component schema %q: %w", pair.Key(), err)
		}
		encoded = bytes.ReplaceAll(encoded,
			[]byte("#/components/schemas/"),
			[]byte("#/definitions/"))
		defs.Set(pair.Key(), json.RawMessage(encoded))
	}

	doc := orderedmap.New[string, any]()
	doc.Set("definitions", defs)
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding definitions document: %w", err)
	}
	return out, nil
}
