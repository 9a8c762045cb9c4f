package gin

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFragment(t *testing.T, root, name, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "sub/base.gin", "A.f = 1\n")
	loader := NewLoader(root)

	frag, err := loader.Load(context.Background(), "sub/base.gin")
	require.NoError(t, err)
	assert.Equal(t, "sub/base.gin", frag.Path)
	assert.Len(t, frag.Bindings, 1)

	// The loader caches by canonical path, so an equivalent spelling
	// returns the identical fragment.
	again, err := loader.Load(context.Background(), "./sub/../sub/base.gin")
	require.NoError(t, err)
	assert.Same(t, frag, again)
}

func TestLoader_NotFound(t *testing.T) {
	loader := NewLoader(t.TempDir())

	_, err := loader.Load(context.Background(), "missing.gin")
	var notFound *fragment.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing.gin", notFound.Path)
}

func TestLoader_ParseError(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "bad.gin", "A.f = ???\n")
	loader := NewLoader(root)

	_, err := loader.Load(context.Background(), "bad.gin")
	var parseErr *fragment.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, "bad.gin", parseErr.Path)

	// Sources are retained even for unparsable files so diagnostics can
	// show the offending line.
	assert.Contains(t, loader.Sources(), "bad.gin")
}

func TestLoader_RejectsEscapingPaths(t *testing.T) {
	loader := NewLoader(t.TempDir())

	_, err := loader.Load(context.Background(), "../outside.gin")
	require.ErrorContains(t, err, "escapes the search root")
}

func TestLoader_Fragments(t *testing.T) {
	root := t.TempDir()
	writeFragment(t, root, "b.gin", "")
	writeFragment(t, root, "a/a.gin", "")
	writeFragment(t, root, "notes.txt", "not a fragment")
	loader := NewLoader(root)

	paths, err := loader.Fragments()
	require.NoError(t, err)
	assert.Equal(t, []string{"a/a.gin", "b.gin"}, paths)
}
