package gin

import (
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/specialistvlad/ginflatgo/internal/fragment"
)

// Parse parses one gin fragment from src. filename becomes the fragment's
// canonical path and appears in all diagnostic ranges. Parsing continues
// past errors so a single pass reports every malformed line.
func Parse(filename string, src []byte) (*fragment.Fragment, hcl.Diagnostics) {
	frag := &fragment.Fragment{Path: filename}
	var diags hcl.Diagnostics

	lineStart := 0
	for lineNum, raw := range strings.Split(string(src), "\n") {
		line := strings.TrimRight(stripComment(raw), " \t\r")
		trimmed := strings.TrimLeft(line, " \t")

		if trimmed != "" {
			indent := len(line) - len(trimmed)
			rng := lineRange(filename, lineNum+1, lineStart, indent, len(line))
			parseLine(frag, trimmed, rng, &diags)
		}
		lineStart += len(raw) + 1
	}

	return frag, diags
}

// parseLine dispatches a single non-blank line to the include or binding
// grammar and appends the result to frag.
func parseLine(frag *fragment.Fragment, line string, rng hcl.Range, diags *hcl.Diagnostics) {
	if rest, ok := strings.CutPrefix(line, "include"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		path, err := unquote(strings.TrimSpace(rest))
		if err != nil || path == "" {
			*diags = append(*diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid include directive",
				Detail:   "An include directive must name exactly one quoted fragment path, as in: include 'base.gin'.",
				Subject:  &rng,
			})
			return
		}
		frag.Includes = append(frag.Includes, fragment.Include{Path: path, Range: rng})
		return
	}

	lhs, rhs, ok := splitAssign(line)
	if !ok {
		*diags = append(*diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Malformed line",
			Detail:   "Expected an include directive or a `key = literal` binding.",
			Subject:  &rng,
		})
		return
	}

	val, macroRef, err := parseLiteral(rhs)
	if err != nil {
		*diags = append(*diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Unparsable literal",
			Detail:   err.Error(),
			Subject:  &rng,
		})
		return
	}

	if strings.Contains(lhs, ".") {
		key, err := fragment.ParseKey(lhs)
		if err != nil {
			*diags = append(*diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Malformed binding key",
				Detail:   err.Error(),
				Subject:  &rng,
			})
			return
		}
		frag.Bindings = append(frag.Bindings, fragment.Binding{Key: key, Value: val, MacroRef: macroRef, Range: rng})
		return
	}

	if !isMacroName(lhs) {
		*diags = append(*diags, &hcl.Diagnostic{
			Severity: hcl.DiagError,
			Summary:  "Malformed macro name",
			Detail:   "A bare binding must use a plain identifier on the left-hand side.",
			Subject:  &rng,
		})
		return
	}
	frag.Macros = append(frag.Macros, fragment.Macro{Name: lhs, Value: val, MacroRef: macroRef, Range: rng})
}

// stripComment removes a trailing `#` comment, ignoring hash characters
// inside quoted strings.
func stripComment(line string) string {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '#':
			return line[:i]
		}
	}
	return line
}

// splitAssign splits a line at the first `=` that sits outside quotes.
func splitAssign(line string) (lhs, rhs string, ok bool) {
	var quote byte
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case quote != 0:
			if c == '\\' {
				i++
			} else if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"':
			quote = c
		case c == '=':
			lhs = strings.TrimSpace(line[:i])
			rhs = strings.TrimSpace(line[i+1:])
			return lhs, rhs, lhs != "" && rhs != ""
		}
	}
	return "", "", false
}

// lineRange builds an hcl.Range covering the significant part of a line.
func lineRange(filename string, line, lineStart, fromCol, toCol int) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: line, Column: fromCol + 1, Byte: lineStart + fromCol},
		End:      hcl.Pos{Line: line, Column: toCol + 1, Byte: lineStart + toCol},
	}
}
