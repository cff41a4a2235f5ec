package toon

import "strings"

// ParsedLine is one non-blank line of input after indentation has been
// measured and stripped from Content.
type ParsedLine struct {
	Content string // line text with leading indentation removed
	Indent  int    // number of leading indentation columns
	Depth   int    // Indent / indent-unit
	LineNo  int    // 1-based source line number
}

// scanLines splits input into ParsedLines, computing each line's
// indentation depth against indentUnit and skipping blank lines. In
// strict mode, a tab used for indentation is rejected with
// TabsNotAllowed; in non-strict mode each leading tab counts as one
// indentation column.
func scanLines(input string, indentUnit int, strict bool) ([]ParsedLine, error) {
	if indentUnit <= 0 {
		indentUnit = 2
	}
	raw := strings.Split(input, "\n")
	out := make([]ParsedLine, 0, len(raw))
	for i, text := range raw {
		lineNo := i + 1
		if strings.TrimSpace(text) == "" {
			continue
		}
		indent := 0
		pos := 0
		for pos < len(text) {
			c := text[pos]
			if c == ' ' {
				indent++
				pos++
				continue
			}
			if c == '\t' {
				if strict {
					return nil, newError(ErrTabsNotAllowed, Position{Line: lineNo}, "tab used for indentation")
				}
				indent++
				pos++
				continue
			}
			break
		}
		if strict && indent%indentUnit != 0 {
			return nil, newError(ErrIndentNotMultiple, Position{Line: lineNo}, "indentation of %d is not a multiple of %d", indent, indentUnit)
		}
		out = append(out, ParsedLine{
			Content: text[pos:],
			Indent:  indent,
			Depth:   indent / indentUnit,
			LineNo:  lineNo,
		})
	}
	return out, nil
}

// Cursor is an immutable position over a slice of ParsedLines. Every
// advancing operation returns a new Cursor rather than mutating the
// receiver, so callers can freely branch (try a parse, fall back, retry)
// without bookkeeping rewinds.
type Cursor struct {
	lines []ParsedLine
	pos   int
}

// newCursor returns a Cursor positioned at the start of lines.
func newCursor(lines []ParsedLine) Cursor {
	return Cursor{lines: lines}
}

// AtEnd reports whether the cursor has consumed every line.
func (c Cursor) AtEnd() bool {
	return c.pos >= len(c.lines)
}

// Peek returns the current line without advancing, and false at end of
// input.
func (c Cursor) Peek() (ParsedLine, bool) {
	if c.AtEnd() {
		return ParsedLine{}, false
	}
	return c.lines[c.pos], true
}

// Advance returns a new Cursor moved past the current line.
func (c Cursor) Advance() Cursor {
	if c.AtEnd() {
		return c
	}
	return Cursor{lines: c.lines, pos: c.pos + 1}
}

// Next returns the current line and a Cursor advanced past it.
func (c Cursor) Next() (ParsedLine, Cursor, bool) {
	line, ok := c.Peek()
	if !ok {
		return ParsedLine{}, c, false
	}
	return line, c.Advance(), true
}

// PeekAtDepth returns the current line only if it is at exactly depth,
// and false otherwise (including at end of input).
func (c Cursor) PeekAtDepth(depth int) (ParsedLine, bool) {
	line, ok := c.Peek()
	if !ok || line.Depth != depth {
		return ParsedLine{}, false
	}
	return line, true
}

// HasMoreAtDepth reports whether the current line exists and is at
// exactly depth (used to decide whether a nested block continues).
func (c Cursor) HasMoreAtDepth(depth int) bool {
	_, ok := c.PeekAtDepth(depth)
	return ok
}
