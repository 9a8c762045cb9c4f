package resolver

import (
	"github.com/specialistvlad/ginflatgo/internal/fragment"
	"github.com/zclconf/go-cty/cty"
)

// entry is the current winner for one key: either a concrete value or an
// unresolved macro reference.
type entry struct {
	value    cty.Value
	macroRef string
	src      fragment.Binding
}

// merger folds fragments into a flat mapping with last-write-wins
// precedence. Key order is first-binding order, which keeps output
// deterministic and byte-stable across runs.
type merger struct {
	strict  bool
	order   []string
	entries map[string]entry
	macros  map[string]fragment.Macro
	applied map[string]bool
}

func newMerger(strict bool) *merger {
	return &merger{
		strict:  strict,
		entries: make(map[string]entry),
		macros:  make(map[string]fragment.Macro),
		applied: make(map[string]bool),
	}
}

// apply merges the fragment at path post-order: every include contributes
// before the fragment's own bindings, so a later include or a local binding
// overrides an earlier one for the same key. A fragment shared by several
// includes contributes only at its first post-order position.
func (m *merger) apply(path string, d *discovery) error {
	if m.applied[path] {
		return nil
	}
	m.applied[path] = true

	for _, child := range d.children[path] {
		if err := m.apply(child, d); err != nil {
			return err
		}
	}

	frag := d.fragments[path]
	for _, mac := range frag.Macros {
		m.macros[mac.Name] = mac
	}
	for _, b := range frag.Bindings {
		if err := m.set(b); err != nil {
			return err
		}
	}
	return nil
}

// set records b as the current winner for its key.
func (m *merger) set(b fragment.Binding) error {
	key := b.Key.String()
	prev, bound := m.entries[key]
	if !bound {
		m.order = append(m.order, key)
	}

	// Strict mode compares concrete types only; a macro-bound side is
	// skipped, and None re-binds freely in either direction.
	if m.strict && bound && b.MacroRef == "" && prev.macroRef == "" &&
		!prev.value.IsNull() && !b.Value.IsNull() &&
		!prev.value.Type().Equals(b.Value.Type()) {
		return &fragment.TypeMismatchError{
			Key:   key,
			Want:  prev.value.Type(),
			Got:   b.Value.Type(),
			Range: b.Range,
		}
	}

	m.entries[key] = entry{value: b.Value, macroRef: b.MacroRef, src: b}
	return nil
}

// substituteMacros replaces every unresolved `%name` entry with the value of
// the named macro from the merged table, following macro-to-macro chains.
func (m *merger) substituteMacros() error {
	for key, e := range m.entries {
		if e.macroRef == "" {
			continue
		}
		val, err := m.macroValue(e.macroRef, e.src)
		if err != nil {
			return err
		}
		m.entries[key] = entry{value: val}
	}
	return nil
}

// macroValue resolves one macro name, guarding against definition cycles.
func (m *merger) macroValue(name string, ref fragment.Binding) (cty.Value, error) {
	seen := make(map[string]bool)
	for {
		if seen[name] {
			return cty.NilVal, &fragment.MacroError{Name: name, Range: ref.Range, Cycle: true}
		}
		seen[name] = true

		mac, ok := m.macros[name]
		if !ok {
			return cty.NilVal, &fragment.MacroError{Name: name, Range: ref.Range}
		}
		if mac.MacroRef == "" {
			return mac.Value, nil
		}
		name = mac.MacroRef
	}
}

// values returns the final key-to-value mapping.
func (m *merger) values() map[string]cty.Value {
	out := make(map[string]cty.Value, len(m.entries))
	for k, e := range m.entries {
		out[k] = e.value
	}
	return out
}
