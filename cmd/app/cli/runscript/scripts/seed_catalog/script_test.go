package script_seed_catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "seed.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestLoad(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		p := writeSeed(t, `[
			{"category": "TOP", "section": "BODY", "label": "Chest width", "code": "CHEST_WIDTH"},
			{"category": "TOP", "section": "SLEEVE", "label": "Sleeve length", "code": "SLEEVE_LENGTH"}
		]`)

		entries, err := load(p)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "CHEST_WIDTH", entries[0].Code)
		assert.Equal(t, "SLEEVE", entries[1].Section)
	})

	t.Run("missing label", func(t *testing.T) {
		p := writeSeed(t, `[{"category": "TOP", "section": "BODY", "code": "CHEST_WIDTH"}]`)

		_, err := load(p)
		assert.ErrorContains(t, err, "#0")
	})

	t.Run("malformed json", func(t *testing.T) {
		p := writeSeed(t, `{"category":`)

		_, err := load(p)
		assert.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := load(filepath.Join(t.TempDir(), "nope.json"))
		assert.Error(t, err)
	})
}
