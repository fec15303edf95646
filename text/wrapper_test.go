package text

import (
	"os"
	"path/filepath"
	"ranobelib-downloader/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackWorkToText(t *testing.T) {
	out := t.TempDir()
	work := model.Work{Title: "Book/One"}
	contents := []model.ReaderContent{
		{Title: "Volume: 1. Chapter: 1", TextContent: `<p>First line.</p><img src="a.png"><p> Second <b>line</b>. </p>`},
		{Title: "Volume: 1. Chapter: 2", TextContent: `just text<br>after break`},
	}

	dir, err := PackWorkToText(work, contents, out)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "Book_One"), dir)

	first, err := os.ReadFile(filepath.Join(dir, "000-Volume_ 1. Chapter_ 1.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Volume: 1. Chapter: 1\n\nFirst line.\nSecond line.\n", string(first))

	second, err := os.ReadFile(filepath.Join(dir, "001-Volume_ 1. Chapter_ 2.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Volume: 1. Chapter: 2\n\njust text\nafter break\n", string(second))
}

func TestPackWorkToText_ReplacesOldOutput(t *testing.T) {
	out := t.TempDir()
	stale := filepath.Join(out, "Book", "stale.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(stale), 0755))
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0644))

	_, err := PackWorkToText(model.Work{Title: "Book"}, nil, out)
	require.NoError(t, err)
	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err))
}
