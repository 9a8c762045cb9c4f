package resolver

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ginflatgo/internal/ctxlog"
	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/specialistvlad/ginflatgo/internal/includegraph"
	"github.com/specialistvlad/ginflatgo/internal/resolved"
)

// Options tunes a Resolver.
type Options struct {
	// Strict rejects re-binding a key at a different type across merged
	// fragments instead of letting the last writer win.
	Strict bool
	// MaxDepth bounds include nesting, failing fast on pathological inputs.
	// Zero disables the bound.
	MaxDepth int
}

// Resolver merges an entry fragment and its transitive includes into one
// flattened configuration.
type Resolver struct {
	loader fragment.Loader
	opts   Options
}

// New creates a Resolver reading fragments through the given loader.
func New(loader fragment.Loader, opts Options) *Resolver {
	return &Resolver{loader: loader, opts: opts}
}

// Resolve loads the entry fragment and every fragment it transitively
// includes, rejects cyclic include graphs, and returns the flattened
// last-write-wins mapping. Failures surface as *fragment.ParseError,
// *fragment.NotFoundError, *fragment.CycleError, *fragment.MacroError or,
// in strict mode, *fragment.TypeMismatchError.
func (r *Resolver) Resolve(ctx context.Context, entryPath string) (*resolved.Config, error) {
	logger := ctxlog.FromContext(ctx)

	d := &discovery{
		resolver:  r,
		graph:     includegraph.New(),
		fragments: make(map[string]*fragment.Fragment),
		children:  make(map[string][]string),
	}
	entry, err := d.walk(ctx, entryPath, "", hcl.Range{}, 1)
	if err != nil {
		return nil, err
	}
	logger.Debug("Include discovery complete.", "entry", entry, "fragments", d.graph.Len())

	if cycle := d.graph.DetectCycle(); cycle != nil {
		return nil, &fragment.CycleError{Path: cycle}
	}

	m := newMerger(r.opts.Strict)
	if err := m.apply(entry, d); err != nil {
		return nil, err
	}
	if err := m.substituteMacros(); err != nil {
		return nil, err
	}
	logger.Debug("Merge complete.", "keys", len(m.order))

	return resolved.New(m.order, m.values()), nil
}

// discovery tracks the state of the load phase: which fragments have been
// parsed and, per fragment, the canonical paths of its includes in
// directive order.
type discovery struct {
	resolver  *Resolver
	graph     *includegraph.Graph
	fragments map[string]*fragment.Fragment
	children  map[string][]string
}

// walk loads the fragment at path and recurses into its includes. It
// returns the fragment's canonical path. A fragment already loaded is not
// re-walked, so shared includes are parsed once and cyclic graphs still
// terminate; the cycle itself is rejected afterwards by the include graph.
func (d *discovery) walk(ctx context.Context, path, includedFrom string, incRange hcl.Range, depth int) (string, error) {
	if max := d.resolver.opts.MaxDepth; max > 0 && depth > max {
		return "", fmt.Errorf("include nesting at %q exceeds the configured limit of %d", path, max)
	}

	frag, err := d.resolver.loader.Load(ctx, path)
	if err != nil {
		var notFound *fragment.NotFoundError
		if errors.As(err, &notFound) && includedFrom != "" && notFound.IncludedFrom == "" {
			notFound.IncludedFrom = includedFrom
			notFound.Range = incRange
		}
		return "", err
	}

	if _, seen := d.fragments[frag.Path]; seen {
		return frag.Path, nil
	}
	d.fragments[frag.Path] = frag
	d.graph.AddNode(frag.Path)

	for _, inc := range frag.Includes {
		childPath, err := d.walk(ctx, inc.Path, frag.Path, inc.Range, depth+1)
		if err != nil {
			return "", err
		}
		if childPath == frag.Path {
			return "", &fragment.CycleError{Path: []string{frag.Path, frag.Path}}
		}
		if err := d.graph.AddEdge(frag.Path, childPath); err != nil {
			return "", err
		}
		d.children[frag.Path] = append(d.children[frag.Path], childPath)
	}

	return frag.Path, nil
}
