// Package gin implements the fragment.Loader interface for the gin
// configuration dialect: line-oriented files of `include '<path>'`
// directives, `Target.field = literal` bindings, and bare `name = literal`
// macro definitions referenced elsewhere as `%name`. Source positions are
// tracked as hcl.Range values and parse failures are reported as
// hcl.Diagnostics, so the CLI can render them with source snippets.
package gin
