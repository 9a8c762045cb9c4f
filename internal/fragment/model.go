package fragment

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/zclconf/go-cty/cty"
)

// Key identifies a single configurable field as a dotted path: a target
// segment (the consumer type, possibly scoped or module-qualified) and a
// field segment. Example: "LearnerConfig.learning_rate".
type Key struct {
	Target string
	Field  string
}

// String renders the key back into its dotted form.
func (k Key) String() string {
	return k.Target + "." + k.Field
}

// ParseKey splits a dotted path into its target and field segments. The
// field is the last dot-separated segment; everything before it is the
// target. Targets may themselves be dotted (module-qualified) and may carry
// slash-separated scope prefixes, as in "train/LearnerConfig.learning_rate".
func ParseKey(s string) (Key, error) {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return Key{}, fmt.Errorf("key %q has no field segment", s)
	}
	target, field := s[:idx], s[idx+1:]
	if !validTarget(target) {
		return Key{}, fmt.Errorf("key %q has a malformed target segment", s)
	}
	if !validIdent(field) {
		return Key{}, fmt.Errorf("key %q has a malformed field segment", s)
	}
	return Key{Target: target, Field: field}, nil
}

// validIdent reports whether s is a bare identifier.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// validTarget reports whether s is a target path: identifiers joined by
// dots, optionally preceded by slash-separated scope identifiers.
func validTarget(s string) bool {
	scopes := strings.Split(s, "/")
	for i, scope := range scopes {
		segs := strings.Split(scope, ".")
		// Only the last scope component may be dotted.
		if i < len(scopes)-1 && len(segs) > 1 {
			return false
		}
		for _, seg := range segs {
			if !validIdent(seg) {
				return false
			}
		}
	}
	return true
}

// Binding is a single `Target.field = literal` assignment. Exactly one of
// Value and MacroRef is set: MacroRef names a macro (`%name`) whose value is
// substituted after the include graph has been merged.
type Binding struct {
	Key      Key
	Value    cty.Value
	MacroRef string
	Range    hcl.Range
}

// Macro is a bare `name = literal` definition, referenced elsewhere as
// `%name`. Macros may themselves reference other macros.
type Macro struct {
	Name     string
	Value    cty.Value
	MacroRef string
	Range    hcl.Range
}

// Include is a reference to another fragment, resolved against the search
// root.
type Include struct {
	Path  string
	Range hcl.Range
}

// Fragment is the parsed content of one configuration file. Order is
// significant: includes are merged in listed order before the fragment's own
// bindings, and later writers win.
type Fragment struct {
	// Path is the fragment's canonical path relative to the search root. It
	// doubles as the fragment's identity in the include graph.
	Path     string
	Includes []Include
	Bindings []Binding
	Macros   []Macro
}
