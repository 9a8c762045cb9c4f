package fragment

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// ParseError reports malformed fragment content. Diags carries one
// diagnostic per offending line, with source ranges suitable for rendering
// through hcl.DiagnosticTextWriter.
type ParseError struct {
	Path  string
	Diags hcl.Diagnostics
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Diags.Error())
}

func (e *ParseError) Unwrap() error {
	return e.Diags
}

// NotFoundError reports a missing fragment (an include target or the entry
// fragment itself) or, at the consumer boundary, a missing key in a resolved
// configuration. Exactly one of Path and Key is set.
type NotFoundError struct {
	// Path is the fragment path that could not be loaded.
	Path string
	// IncludedFrom is the fragment whose include directive referenced Path.
	// Empty when Path is the entry fragment.
	IncludedFrom string
	// Range locates the include directive, when known.
	Range hcl.Range
	// Key is the dotted key a consumer looked up but the resolved
	// configuration does not contain.
	Key string
	// Err is the underlying cause, typically a file system error.
	Err error
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("key %q not bound", e.Key)
	}
	if e.IncludedFrom != "" {
		return fmt.Sprintf("fragment %q included from %s not found", e.Path, e.Range.String())
	}
	return fmt.Sprintf("fragment %q not found", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// CycleError reports a circular include chain. Path lists the fragments on
// the cycle in include order, with the first fragment repeated at the end.
type CycleError struct {
	Path []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("include cycle: %s", strings.Join(e.Path, " -> "))
}

// TypeMismatchError reports a key bound to incompatible types: across
// fragments in strict resolution, or between a resolved value and the type a
// consumer asked for.
type TypeMismatchError struct {
	Key   string
	Want  cty.Type
	Got   cty.Type
	Range hcl.Range
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("key %q: cannot use %s value as %s", e.Key, e.Got.FriendlyName(), e.Want.FriendlyName())
}

// MacroError reports a `%name` reference that no merged fragment defines, or
// a macro definition chain that loops back on itself.
type MacroError struct {
	Name  string
	Range hcl.Range
	Cycle bool
}

func (e *MacroError) Error() string {
	if e.Cycle {
		return fmt.Sprintf("macro %%%s is defined in terms of itself", e.Name)
	}
	return fmt.Sprintf("macro %%%s is not defined by any merged fragment", e.Name)
}
