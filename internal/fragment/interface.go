package fragment

import (
	"context"

	"github.com/hashicorp/hcl/v2"
)

// Loader is the interface for a format-specific fragment loader. A Loader
// reads one fragment from durable storage, parses it into the agnostic
// model, and caches the result so repeated loads of the same path are cheap
// and byte-stable.
type Loader interface {
	// Load parses the fragment at the given path, relative to the loader's
	// search root. It returns *ParseError for malformed content and
	// *NotFoundError when the path does not exist.
	Load(ctx context.Context, path string) (*Fragment, error)

	// Sources returns the raw bytes of every file loaded so far, keyed by
	// canonical path, in the shape hcl.DiagnosticTextWriter expects for
	// rendering source snippets alongside diagnostics.
	Sources() map[string]*hcl.File
}
