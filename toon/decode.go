package toon

import "strings"

// DecodeOptions configures Decode and DecodeFromLines.
type DecodeOptions struct {
	Indent      int        // indentation unit, default 2
	Strict      bool       // enforce header lengths and escape validity
	ExpandPaths ExpandMode // split dotted object keys into nested objects
	Delimiter   rune       // active delimiter, default ','
}

// DefaultDecodeOptions returns the default decoder configuration.
func DefaultDecodeOptions() DecodeOptions {
	return DecodeOptions{Indent: 2, Strict: true, Delimiter: ','}
}

// Decode parses a TOON document into a Value.
func Decode(input string, opts DecodeOptions) (*Value, error) {
	return DecodeFromLines(strings.Split(input, "\n"), opts)
}

// DecodeFromLines parses pre-split lines into a Value, equivalent to
// Decode(strings.Join(lines, "\n"), opts).
func DecodeFromLines(rawLines []string, opts DecodeOptions) (*Value, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	lines, err := scanLines(strings.Join(rawLines, "\n"), opts.Indent, opts.Strict)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return Null(), nil
	}

	cur := newCursor(lines)
	first, _ := cur.Peek()
	content := strings.TrimLeft(first.Content, " ")

	switch {
	case strings.HasPrefix(content, "["):
		pos := Position{Line: first.LineNo}
		header, inline, err := arrayHeaderLine("", false, content, opts.Delimiter, pos)
		if err != nil {
			return nil, err
		}
		cur = cur.Advance()
		v, _, err := decodeArrayBody(header, inline, cur, 1, opts)
		return v, err
	case looksLikeKeyLine(content):
		v, _, err := decodeObject(cur, 0, opts)
		return v, err
	default:
		pos := Position{Line: first.LineNo}
		v, _, err := primitiveToken(content, opts.Delimiter, pos, opts.Strict)
		return v, err
	}
}

// looksLikeKeyLine reports whether content begins with something that
// can only be a key token (quoted key, or bare key followed by ':' or
// '[') rather than a bare scalar.
func looksLikeKeyLine(content string) bool {
	pos := Position{}
	key, _, rest, err := keyToken(content, pos)
	if err != nil || key == "" {
		return false
	}
	rest = strings.TrimLeft(rest, " ")
	return len(rest) > 0 && (rest[0] == ':' || rest[0] == '[')
}

// decodeObject decodes a run of "key: value" / "key[n]...:" lines at
// depth into an object Value, stopping at the first line that is not at
// exactly depth.
func decodeObject(cur Cursor, depth int, opts DecodeOptions) (*Value, Cursor, error) {
	var entries []decodedEntry
	for cur.HasMoreAtDepth(depth) {
		line, _ := cur.Peek()
		pos := Position{Line: line.LineNo}
		key, wasQuoted, rest, err := keyToken(line.Content, pos)
		if err != nil {
			return nil, cur, err
		}
		cur = cur.Advance()

		entry, cur2, err := decodeEntryLine(key, wasQuoted, rest, pos, cur, depth, opts)
		if err != nil {
			return nil, cur, err
		}
		cur = cur2
		entries = append(entries, entry)
	}
	v, err := expandEntries(entries, opts.ExpandPaths, opts.Strict)
	return v, cur, err
}

// decodeEntryLine decodes the value half of one key line: rest is
// everything on the line immediately after the key token. depth is the
// depth the key line itself was found at; nested bodies live at
// depth+1.
func decodeEntryLine(key string, wasQuoted bool, rest string, pos Position, cur Cursor, depth int, opts DecodeOptions) (decodedEntry, Cursor, error) {
	rest = strings.TrimLeft(rest, " ")
	if len(rest) > 0 && rest[0] == '[' {
		header, inline, err := arrayHeaderLine(key, wasQuoted, rest, opts.Delimiter, pos)
		if err != nil {
			return decodedEntry{}, cur, err
		}
		v, cur2, err := decodeArrayBody(header, inline, cur, depth+1, opts)
		return decodedEntry{key, wasQuoted, v}, cur2, err
	}
	if len(rest) == 0 || rest[0] != ':' {
		return decodedEntry{}, cur, newError(ErrBadHeader, pos, "expected ':' after key %q", key)
	}
	rest = strings.TrimLeft(rest[1:], " ")

	if rest == "" {
		if cur.HasMoreAtDepth(depth + 1) {
			v, cur2, err := decodeObject(cur, depth+1, opts)
			return decodedEntry{key, wasQuoted, v}, cur2, err
		}
		return decodedEntry{key, wasQuoted, Null()}, cur, nil
	}
	if rest == "{}" {
		return decodedEntry{key, wasQuoted, Obj()}, cur, nil
	}
	val, _, err := primitiveToken(rest, opts.Delimiter, pos, opts.Strict)
	if err != nil {
		return decodedEntry{}, cur, err
	}
	return decodedEntry{key, wasQuoted, val}, cur, nil
}

// decodeArrayBody decodes the rows of an array given its already-parsed
// header. inline holds any text remaining on the header line itself
// (populated only for an inline-primitive array).
func decodeArrayBody(header *arrayHeader, inline string, cur Cursor, depth int, opts DecodeOptions) (*Value, Cursor, error) {
	switch {
	case header.fields != nil:
		return decodeTabularRows(header, cur, depth, opts)
	case inline != "":
		v, _, err := decodeInlineValues(header, inline, opts)
		return v, cur, err
	case header.length == 0:
		return Arr(), cur, nil
	default:
		return decodeListRows(header, cur, depth, opts)
	}
}

func decodeInlineValues(header *arrayHeader, inline string, opts DecodeOptions) (*Value, Cursor, error) {
	raw, err := delimitedValues(inline, header.delimiter)
	if err != nil {
		return nil, Cursor{}, err
	}
	elems := make([]*Value, len(raw))
	for i, r := range raw {
		v, _, err := primitiveToken(r, header.delimiter, Position{}, opts.Strict)
		if err != nil {
			return nil, Cursor{}, err
		}
		elems[i] = v
	}
	if opts.Strict && len(elems) != header.length {
		return nil, Cursor{}, newError(ErrLengthMismatch, Position{}, "array declared length %d but found %d values", header.length, len(elems))
	}
	return Arr(elems...), Cursor{}, nil
}

func decodeTabularRows(header *arrayHeader, cur Cursor, depth int, opts DecodeOptions) (*Value, Cursor, error) {
	rows := make([]*Value, 0, header.length)
	for i := 0; i < header.length; i++ {
		line, ok := cur.PeekAtDepth(depth)
		if !ok {
			if opts.Strict {
				return nil, cur, newError(ErrLengthMismatch, Position{}, "tabular array declared length %d but only found %d rows", header.length, i)
			}
			break
		}
		pos := Position{Line: line.LineNo}
		cells, err := delimitedValues(line.Content, header.delimiter)
		if err != nil {
			return nil, cur, err
		}
		if len(cells) != len(header.fields) {
			if opts.Strict {
				return nil, cur, newError(ErrLengthMismatch, pos, "row has %d cells, header declares %d fields", len(cells), len(header.fields))
			}
			for len(cells) < len(header.fields) {
				cells = append(cells, "null")
			}
		}
		entries := make([]Entry, len(header.fields))
		for j, f := range header.fields {
			v, _, err := primitiveToken(cells[j], header.delimiter, pos, opts.Strict)
			if err != nil {
				return nil, cur, err
			}
			entries[j] = Entry{Key: f, Value: v}
		}
		rows = append(rows, Obj(entries...))
		cur = cur.Advance()
	}
	if opts.Strict && cur.HasMoreAtDepth(depth) {
		return nil, cur, newError(ErrLengthMismatch, Position{}, "tabular array has more rows than its declared length %d", header.length)
	}
	return Arr(rows...), cur, nil
}

func decodeListRows(header *arrayHeader, cur Cursor, depth int, opts DecodeOptions) (*Value, Cursor, error) {
	elems := make([]*Value, 0, header.length)
	for i := 0; i < header.length; i++ {
		line, ok := cur.PeekAtDepth(depth)
		if !ok {
			if opts.Strict {
				return nil, cur, newError(ErrLengthMismatch, Position{}, "list array declared length %d but only found %d items", header.length, i)
			}
			break
		}
		pos := Position{Line: line.LineNo}
		content, ok := stripDash(line.Content)
		if !ok {
			return nil, cur, newErrorSuggest(ErrInvalidObjectListItem, pos, "list items must start with \"- \"", "expected '-' prefix on list item")
		}
		cur = cur.Advance()
		v, cur2, err := decodeListItem(content, pos, cur, depth, opts)
		if err != nil {
			return nil, cur, err
		}
		cur = cur2
		elems = append(elems, v)
	}
	if opts.Strict && cur.HasMoreAtDepth(depth) {
		return nil, cur, newError(ErrLengthMismatch, Position{}, "list array has more items than its declared length %d", header.length)
	}
	return Arr(elems...), cur, nil
}

func stripDash(content string) (string, bool) {
	if strings.HasPrefix(content, "- ") {
		return content[2:], true
	}
	if content == "-" {
		return "", true
	}
	return content, false
}

// decodeListItem decodes one row of a List-shaped array. content is the
// text immediately after the "- " marker, already stripped of the
// marker itself; depth is the depth the dash line was found at.
func decodeListItem(content string, pos Position, cur Cursor, depth int, opts DecodeOptions) (*Value, Cursor, error) {
	content = strings.TrimLeft(content, " ")
	if content == "" {
		return decodeObject(cur, depth+1, opts)
	}
	if content == "{}" {
		return Obj(), cur, nil
	}
	if strings.HasPrefix(content, "[") {
		header, inline, err := arrayHeaderLine("", false, content, opts.Delimiter, pos)
		if err != nil {
			return nil, cur, err
		}
		return decodeArrayBody(header, inline, cur, depth+1, opts)
	}
	if looksLikeKeyLine(content) {
		key, wasQuoted, rest, err := keyToken(content, pos)
		if err != nil {
			return nil, cur, err
		}
		first, cur2, err := decodeEntryLine(key, wasQuoted, rest, pos, cur, depth+1, opts)
		if err != nil {
			return nil, cur, err
		}
		cur = cur2
		entries := []decodedEntry{first}
		for cur.HasMoreAtDepth(depth + 1) {
			line, _ := cur.Peek()
			p2 := Position{Line: line.LineNo}
			k, wq, r, err := keyToken(line.Content, p2)
			if err != nil {
				return nil, cur, err
			}
			cur = cur.Advance()
			e, cur3, err := decodeEntryLine(k, wq, r, p2, cur, depth+1, opts)
			if err != nil {
				return nil, cur, err
			}
			cur = cur3
			entries = append(entries, e)
		}
		v, err := expandEntries(entries, opts.ExpandPaths, opts.Strict)
		return v, cur, err
	}
	v, _, err := primitiveToken(content, opts.Delimiter, pos, opts.Strict)
	return v, cur, err
}
