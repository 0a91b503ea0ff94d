package pipeline

import (
	"context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{
		"orders.yaml":       ordersYAML,
		"sub/copy.yml":      "name: copy\nsteps:\n  - name: Read\n    type: TableInput\n",
		"config.yaml":       "concurrency: 8\n",
		"notes.txt":         "name: notes\nsteps:\n  - name: A\n",
		".hidden/skip.yaml": "name: hidden\nsteps:\n  - name: A\n",
	}
	for name, content := range files {
		URL := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(URL), 0755))
		require.NoError(t, os.WriteFile(URL, []byte(content), 0644))
	}

	pipelines, err := Discover(context.Background(), root)
	require.NoError(t, err)
	require.Len(t, pipelines, 2)
	assert.Equal(t, "orders", pipelines[0].Name)
	assert.True(t, strings.HasSuffix(pipelines[0].Path, "orders.yaml"))
	assert.Equal(t, "copy", pipelines[1].Name)
	assert.NotNil(t, pipelines[1].Step("Read").Pipeline())

	pipelines, err = Discover(context.Background(), root, ".txt")
	require.NoError(t, err)
	require.Len(t, pipelines, 1)
	assert.Equal(t, "notes", pipelines[0].Name)
}
