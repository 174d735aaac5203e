package fetch

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocument(t *testing.T) {
	t.Run("local file should be fetched", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "schema.json")
		require.NoError(t, os.WriteFile(src, []byte(`{"type": "object"}`), 0o644))

		got, err := Document(src)
		require.NoError(t, err)
		assert.JSONEq(t, `{"type": "object"}`, string(got))
	})

	t.Run("missing file should fail", func(t *testing.T) {
		_, err := Document(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
