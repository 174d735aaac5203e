package jsonschema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRoot(t *testing.T) *Schema {
	t.Helper()
	root, err := Parse([]byte(`{
		"type": "object",
		"definitions": {
			"address": {
				"type": "object",
				"definitions": {
					"zip": {"type": "string"}
				}
			},
			"person": {"type": "object"}
		}
	}`))
	require.NoError(t, err)
	return root
}

func TestResolve(t *testing.T) {
	root := testRoot(t)

	t.Run("should resolve the root self-reference", func(t *testing.T) {
		got, err := Resolve("#", root)
		require.NoError(t, err)
		assert.Same(t, root, got)
	})

	t.Run("should resolve a definitions path", func(t *testing.T) {
		got, err := Resolve("#/definitions/person", root)
		require.NoError(t, err)
		want, _ := root.Definitions.Get("person")
		assert.Same(t, want, got)
	})

	t.Run("should resolve nested definitions", func(t *testing.T) {
		got, err := Resolve("#/definitions/address/zip", root)
		require.NoError(t, err)
		assert.Equal(t, TypeList{TypeString}, got.Type)
	})

	t.Run("should fail on an unknown segment", func(t *testing.T) {
		_, err := Resolve("#/definitions/nonexistent", root)
		require.Error(t, err)

		var refErr *UnresolvedReferenceError
		require.ErrorAs(t, err, &refErr)
		assert.Equal(t, "nonexistent", refErr.Segment)
		assert.Equal(t, CodeUnresolvedReference, refErr.Code())
		assert.Contains(t, err.Error(), "unresolved reference")
	})

	t.Run("should fail when the current node has no definitions", func(t *testing.T) {
		_, err := Resolve("#/definitions/person/street", root)
		assert.Error(t, err)
	})
}

func TestRefTail(t *testing.T) {
	assert.Equal(t, "", RefTail("#"))
	assert.Equal(t, "person", RefTail("#/definitions/person"))
	assert.Equal(t, "zip", RefTail("#/definitions/address/zip"))
}

func TestResolved(t *testing.T) {
	t.Run("should return the node itself when nothing needs resolution", func(t *testing.T) {
		root := testRoot(t)
		got, err := Resolved(root, root)
		require.NoError(t, err)
		assert.Same(t, root, got)
	})

	t.Run("should follow a reference", func(t *testing.T) {
		root := testRoot(t)
		node := &Schema{Ref: "#/definitions/person"}
		got, err := Resolved(node, root)
		require.NoError(t, err)
		want, _ := root.Definitions.Get("person")
		assert.Same(t, want, got)
	})

	t.Run("should fold an allOf composition without touching the components", func(t *testing.T) {
		root, err := Parse([]byte(`{
			"definitions": {
				"base": {
					"type": "object",
					"required": ["id"],
					"properties": {"id": {"type": "string"}}
				}
			}
		}`))
		require.NoError(t, err)

		node, err := Parse([]byte(`{
			"allOf": [
				{"$ref": "#/definitions/base"},
				{
					"type": "object",
					"required": ["name"],
					"properties": {"name": {"type": "string"}}
				}
			]
		}`))
		require.NoError(t, err)

		got, err := Resolved(node, root)
		require.NoError(t, err)

		assert.ElementsMatch(t, []string{"id", "name"}, got.Required)
		assert.Equal(t, 2, got.Properties.Len())

		// The referenced definition must be untouched by the fold.
		base, _ := root.Definitions.Get("base")
		assert.Equal(t, []string{"id"}, base.Required)
		assert.Equal(t, 1, base.Properties.Len())
	})

	t.Run("should error on an unresolvable component", func(t *testing.T) {
		root := testRoot(t)
		node := &Schema{AllOf: []*Schema{{Ref: "#/definitions/missing"}}}
		_, err := Resolved(node, root)
		assert.Error(t, err)
	})

	t.Run("should abort on a reference loop instead of hanging", func(t *testing.T) {
		root, err := Parse([]byte(`{
			"definitions": {
				"a": {"allOf": [{"$ref": "#/definitions/b"}]},
				"b": {"allOf": [{"$ref": "#/definitions/a"}]}
			}
		}`))
		require.NoError(t, err)

		node := &Schema{Ref: "#/definitions/a"}
		_, err = Resolved(node, root)
		assert.Error(t, err)
	})
}
