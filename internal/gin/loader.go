package gin

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ginflatgo/internal/ctxlog"
	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/specialistvlad/ginflatgo/internal/fsutil"
)

// Loader is the gin-specific implementation of fragment.Loader. It reads
// fragments relative to a search root and caches each parsed fragment, so a
// fragment included from several places is read and parsed exactly once.
type Loader struct {
	root string

	mu      sync.Mutex
	cache   map[string]*fragment.Fragment
	sources map[string]*hcl.File
}

// NewLoader creates a loader that resolves fragment paths against root.
func NewLoader(root string) *Loader {
	return &Loader{
		root:    root,
		cache:   make(map[string]*fragment.Fragment),
		sources: make(map[string]*hcl.File),
	}
}

// Canonical normalizes a fragment path into its cache and graph identity:
// slash-separated and lexically cleaned.
func Canonical(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// Load implements fragment.Loader.
func (l *Loader) Load(ctx context.Context, p string) (*fragment.Fragment, error) {
	canonical := Canonical(p)
	if canonical == ".." || strings.HasPrefix(canonical, "../") || path.IsAbs(canonical) {
		return nil, fmt.Errorf("fragment path %q escapes the search root", p)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if frag, ok := l.cache[canonical]; ok {
		return frag, nil
	}

	src, err := os.ReadFile(filepath.Join(l.root, filepath.FromSlash(canonical)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &fragment.NotFoundError{Path: canonical, Err: err}
		}
		return nil, fmt.Errorf("reading fragment %q: %w", canonical, err)
	}
	l.sources[canonical] = &hcl.File{Bytes: src}

	frag, diags := Parse(canonical, src)
	if diags.HasErrors() {
		return nil, &fragment.ParseError{Path: canonical, Diags: diags}
	}

	ctxlog.FromContext(ctx).Debug("Fragment parsed.",
		"path", canonical,
		"includes", len(frag.Includes),
		"bindings", len(frag.Bindings),
		"macros", len(frag.Macros),
	)

	l.cache[canonical] = frag
	return frag, nil
}

// Fragments lists every fragment file under the loader's search root, in
// sorted order, without parsing them.
func (l *Loader) Fragments() ([]string, error) {
	return fsutil.FindFragments(l.root)
}

// Sources implements fragment.Loader.
func (l *Loader) Sources() map[string]*hcl.File {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[string]*hcl.File, len(l.sources))
	for k, v := range l.sources {
		out[k] = v
	}
	return out
}
