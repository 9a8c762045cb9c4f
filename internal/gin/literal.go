package gin

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// parseLiteral interprets the right-hand side of a binding. It returns
// either a concrete cty value or, for `%name` references, the name of the
// macro to substitute after the include graph has been merged.
func parseLiteral(s string) (cty.Value, string, error) {
	switch {
	case s == "True":
		return cty.True, "", nil
	case s == "False":
		return cty.False, "", nil
	case s == "None":
		return cty.NullVal(cty.DynamicPseudoType), "", nil
	}

	switch s[0] {
	case '%':
		name := s[1:]
		if !isMacroName(name) {
			return cty.NilVal, "", fmt.Errorf("malformed macro reference %q", s)
		}
		return cty.NilVal, name, nil
	case '@':
		// Configurable references are carried opaquely; no object graph is
		// constructed from them.
		if len(s) == 1 {
			return cty.NilVal, "", fmt.Errorf("malformed reference %q", s)
		}
		return cty.StringVal(s), "", nil
	case '\'', '"':
		str, err := unquote(s)
		if err != nil {
			return cty.NilVal, "", err
		}
		return cty.StringVal(str), "", nil
	case '[':
		return parseList(s)
	}

	val, err := cty.ParseNumberVal(s)
	if err != nil {
		return cty.NilVal, "", fmt.Errorf("unparsable literal %q", s)
	}
	return val, "", nil
}

// parseList interprets a flat `[a, b, c]` literal. Elements are scalar
// literals; macro references inside lists are not supported.
func parseList(s string) (cty.Value, string, error) {
	if !strings.HasSuffix(s, "]") {
		return cty.NilVal, "", fmt.Errorf("unterminated list literal %q", s)
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return cty.EmptyTupleVal, "", nil
	}

	var elems []cty.Value
	for _, part := range splitElems(inner) {
		part = strings.TrimSpace(part)
		if part == "" {
			return cty.NilVal, "", fmt.Errorf("empty element in list literal %q", s)
		}
		val, macroRef, err := parseLiteral(part)
		if err != nil {
			return cty.NilVal, "", err
		}
		if macroRef != "" {
			return cty.NilVal, "", fmt.Errorf("macro reference %%%s not allowed inside a list literal", macroRef)
		}
		elems = append(elems, val)
	}
	return cty.TupleVal(elems), "", nil
}

// splitElems splits on commas at bracket depth zero, outside quotes.
func splitElems(s string) []string {
	var parts []string
	var quote byte
	depth, start := 0, 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '[':
			depth++
		case c == ']':
			depth--
		case c == ',' && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	return append(parts, s[start:])
}

// unquote interprets a single- or double-quoted string literal with the
// usual backslash escapes.
func unquote(s string) (string, error) {
	if len(s) < 2 || (s[0] != '\'' && s[0] != '"') || s[len(s)-1] != s[0] {
		return "", fmt.Errorf("malformed string literal %q", s)
	}
	quote := s[0]
	var b strings.Builder
	for i := 1; i < len(s)-1; i++ {
		c := s[i]
		if c != '\\' {
			if c == quote {
				return "", fmt.Errorf("malformed string literal %q", s)
			}
			b.WriteByte(c)
			continue
		}
		i++
		if i == len(s)-1 {
			return "", fmt.Errorf("trailing escape in string literal %q", s)
		}
		switch s[i] {
		case '\\', '\'', '"':
			b.WriteByte(s[i])
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		default:
			return "", fmt.Errorf("unsupported escape \\%c in string literal", s[i])
		}
	}
	return b.String(), nil
}

// isMacroName reports whether s is a valid macro name: identifiers joined
// by slashes, matching gin's scoped macro syntax.
func isMacroName(s string) bool {
	for _, seg := range strings.Split(s, "/") {
		if !isIdent(seg) {
			return false
		}
	}
	return true
}

func isIdent(s string) bool {
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
