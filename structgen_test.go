package structgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/krateoplatformops/structgen/internal/tools/generator"
)

const sampleSchema = `{
	"type": "object",
	"description": "A deployable service unit.",
	"properties": {
		"name":     {"type": "string"},
		"replicas": {"type": "integer"},
		"env":      {"$ref": "#/definitions/env"}
	},
	"required": ["name"],
	"definitions": {
		"env": {
			"type": "object",
			"additionalProperties": {"type": "string"}
		}
	}
}`

func TestGenerate(t *testing.T) {
	res := Generate(context.TODO(), Options{
		RootName:     "service",
		SchemaGetter: BytesJsonSchemaGetter(sampleSchema),
	})
	require.NoError(t, res.Err)
	require.NotEmpty(t, res.Source)
	require.NotEmpty(t, res.Digest)

	src := string(res.Source)
	assert.Contains(t, src, "package types")
	assert.Contains(t, src, "type Env = map[string]string")
	assert.Contains(t, src, "type Service struct {")
	assert.Regexp(t, "Name\\s+string\\s+`json:\"name\"`", src)
	assert.Regexp(t, "Replicas\\s+\\*int64\\s+`json:\"replicas,omitempty\"`", src)
	assert.Regexp(t, "Env\\s+\\*Env\\s+`json:\"env,omitempty\"`", src)
}

func TestGenerateFromYAML(t *testing.T) {
	schema := []byte(`
type: object
properties:
  name:
    type: string
required:
- name
`)
	res := Generate(context.TODO(), Options{
		RootName:     "thing",
		Package:      "model",
		SchemaGetter: BytesJsonSchemaGetter(schema),
	})
	require.NoError(t, res.Err)

	src := string(res.Source)
	assert.Contains(t, src, "package model")
	assert.Regexp(t, "Name\\s+string\\s+`json:\"name\"`", src)
}

func TestGenerateDigestStability(t *testing.T) {
	opts := Options{
		RootName:     "service",
		SchemaGetter: BytesJsonSchemaGetter(sampleSchema),
	}
	first := Generate(context.TODO(), opts)
	second := Generate(context.TODO(), opts)
	require.NoError(t, first.Err)
	require.NoError(t, second.Err)

	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Digest, second.Digest)
}

func TestGenerateErrors(t *testing.T) {
	t.Run("missing getter should fail", func(t *testing.T) {
		res := Generate(context.TODO(), Options{RootName: "x"})
		assert.Error(t, res.Err)
	})

	t.Run("malformed document should fail", func(t *testing.T) {
		res := Generate(context.TODO(), Options{
			RootName:     "x",
			SchemaGetter: BytesJsonSchemaGetter(`{"type": [}`),
		})
		assert.Error(t, res.Err)
	})

	t.Run("root self reference without a root name should fail", func(t *testing.T) {
		res := Generate(context.TODO(), Options{
			SchemaGetter: BytesJsonSchemaGetter(`{
				"definitions": {
					"wrapper": {
						"type": "object",
						"properties": {"inner": {"$ref": "#"}},
						"required": ["inner"]
					}
				}
			}`),
		})
		require.Error(t, res.Err)
		var target *generator.MissingRootNameError
		assert.ErrorAs(t, res.Err, &target)
	})
}

func TestGenerateSource(t *testing.T) {
	src, err := GenerateSource("service", []byte(sampleSchema))
	require.NoError(t, err)
	assert.Contains(t, string(src), "type Service struct {")
}
