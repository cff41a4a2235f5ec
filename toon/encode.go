package toon

import (
	"fmt"
	"strconv"
	"strings"
)

// EncodeOptions configures Encode and EncodeLines.
type EncodeOptions struct {
	Indent        int          // spaces per nesting level, default 2
	Delimiter     rune         // array/tabular cell delimiter, default ','
	KeyCollapsing CollapseMode // dotted-key fusion, default Off
	FlattenDepth  int          // max segments a collapse chain may fuse; 0 means unlimited
}

// DefaultEncodeOptions returns the default encoder configuration.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, Delimiter: ','}
}

// CompactEncodeOptions returns options tuned for smaller output: pipe
// delimiter (keeps commas free for use inside unquoted values) and safe
// key collapsing turned on.
func CompactEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, Delimiter: '|', KeyCollapsing: CollapseSafe}
}

// Encode renders v as a TOON document using opts.
func Encode(v *Value, opts EncodeOptions) (string, error) {
	lines, err := EncodeLines(v, opts)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// EncodeLines renders v as TOON, returning the individual output lines
// rather than a single joined string (useful for streaming writers).
func EncodeLines(v *Value, opts EncodeOptions) ([]string, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	if v == nil {
		v = Null()
	}

	w := newWriter(opts.Indent)
	switch v.Kind() {
	case KindObj:
		emitObjectBody(w, 0, v, opts)
	case KindArr:
		emitRootArray(w, v, opts)
	default:
		w.emit(0, scalarLiteral(v, opts.Delimiter))
	}
	return strings.Split(w.String(), "\n"), nil
}

func emitObjectBody(w *writer, depth int, obj *Value, opts EncodeOptions) {
	entries, _ := obj.AsObj()
	collapsed := collapseEntries(entries, opts.KeyCollapsing, opts.FlattenDepth)
	for i, e := range collapsed {
		emitEntry(w, depth, entryKeyString(e.Key, entries[i].Key, opts.Delimiter), e.Value, opts)
	}
}

// entryKeyString renders an entry key for output. A key that
// collapseEntries fused from a chain (it differs from the original key)
// is written bare, since each of its segments is a bare identifier;
// any other key goes through quoteKeyIfNeeded.
func entryKeyString(key, originalKey string, delimiter rune) string {
	if key != originalKey {
		return key
	}
	return quoteKeyIfNeeded(key, delimiter)
}

func emitEntry(w *writer, depth int, keyStr string, v *Value, opts EncodeOptions) {
	switch v.Kind() {
	case KindObj:
		if v.Len() == 0 {
			w.emit(depth, keyStr+": {}")
			return
		}
		w.emit(depth, keyStr+":")
		emitObjectBody(w, depth+1, v, opts)
	case KindArr:
		emitArrayEntry(w, depth, keyStr, v, opts)
	default:
		w.emit(depth, keyStr+": "+scalarLiteral(v, opts.Delimiter))
	}
}

// emitRootArray renders an array Value that is itself the document root
// (no enclosing key), per the Encoder's root-behavior rule for arrays.
func emitRootArray(w *writer, arr *Value, opts EncodeOptions) {
	elems, _ := arr.AsArr()
	shape, fields := analyzeShape(elems)
	switch shape {
	case shapeEmpty:
		w.emit(0, "[0]:")
	case shapeInlinePrimitive:
		w.emit(0, fmt.Sprintf("[%d]: %s", len(elems), joinScalars(elems, opts.Delimiter)))
	case shapeTabularUniform:
		w.emit(0, fmt.Sprintf("[%d]{%s}:", len(elems), joinFields(fields, opts.Delimiter)))
		emitTabularRows(w, 1, elems, fields, opts)
	case shapeList:
		w.emit(0, fmt.Sprintf("[%d]:", len(elems)))
		for _, e := range elems {
			emitListItem(w, 1, e, opts)
		}
	}
}

func emitArrayEntry(w *writer, depth int, keyStr string, arr *Value, opts EncodeOptions) {
	elems, _ := arr.AsArr()
	shape, fields := analyzeShape(elems)
	switch shape {
	case shapeEmpty:
		w.emit(depth, keyStr+"[0]:")
	case shapeInlinePrimitive:
		w.emit(depth, fmt.Sprintf("%s[%d]: %s", keyStr, len(elems), joinScalars(elems, opts.Delimiter)))
	case shapeTabularUniform:
		w.emit(depth, fmt.Sprintf("%s[%d]{%s}:", keyStr, len(elems), joinFields(fields, opts.Delimiter)))
		emitTabularRows(w, depth+1, elems, fields, opts)
	case shapeList:
		w.emit(depth, fmt.Sprintf("%s[%d]:", keyStr, len(elems)))
		for _, e := range elems {
			emitListItem(w, depth+1, e, opts)
		}
	}
}

func emitTabularRows(w *writer, depth int, rows []*Value, fields []string, opts EncodeOptions) {
	for _, row := range rows {
		cells := make([]string, len(fields))
		for i, f := range fields {
			cells[i] = scalarLiteral(row.Get(f), opts.Delimiter)
		}
		w.emit(depth, strings.Join(cells, string(opts.Delimiter)))
	}
}

// emitListItem renders one element of a List-shaped array, prefixed
// with "- ". Object elements put their first field on the dash line and
// the rest indented to align beneath it; scalar and nested-array/object
// elements render directly after the dash.
func emitListItem(w *writer, depth int, v *Value, opts EncodeOptions) {
	switch v.Kind() {
	case KindObj:
		entries, _ := v.AsObj()
		if len(entries) == 0 {
			w.emit(depth, "- {}")
			return
		}
		collapsed := collapseEntries(entries, opts.KeyCollapsing, opts.FlattenDepth)
		sub := newWriter(w.indent)
		for i, e := range collapsed {
			emitEntry(sub, 0, entryKeyString(e.Key, entries[i].Key, opts.Delimiter), e.Value, opts)
		}
		subLines := strings.Split(sub.String(), "\n")
		w.emit(depth, "- "+subLines[0])
		for _, l := range subLines[1:] {
			w.emit(depth+1, l)
		}
	case KindArr:
		elems, _ := v.AsArr()
		shape, fields := analyzeShape(elems)
		switch shape {
		case shapeEmpty:
			w.emit(depth, "- [0]:")
		case shapeInlinePrimitive:
			w.emit(depth, fmt.Sprintf("- [%d]: %s", len(elems), joinScalars(elems, opts.Delimiter)))
		case shapeTabularUniform:
			w.emit(depth, fmt.Sprintf("- [%d]{%s}:", len(elems), joinFields(fields, opts.Delimiter)))
			emitTabularRows(w, depth+1, elems, fields, opts)
		case shapeList:
			w.emit(depth, fmt.Sprintf("- [%d]:", len(elems)))
			for _, e := range elems {
				emitListItem(w, depth+1, e, opts)
			}
		}
	default:
		w.emit(depth, "- "+scalarLiteral(v, opts.Delimiter))
	}
}

func joinScalars(elems []*Value, delimiter rune) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		parts[i] = scalarLiteral(e, delimiter)
	}
	return strings.Join(parts, string(delimiter))
}

func joinFields(fields []string, delimiter rune) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = quoteKeyIfNeeded(f, delimiter)
	}
	return strings.Join(parts, string(delimiter))
}

// scalarLiteral renders a non-container Value as its canonical scalar
// text, quoting strings only when required.
func scalarLiteral(v *Value, delimiter rune) string {
	if v == nil {
		return "null"
	}
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		if v.boolVal {
			return "true"
		}
		return "false"
	case KindNum:
		return formatNumber(v.numVal)
	case KindStr:
		return quoteIfNeeded(v.strVal, delimiter)
	default:
		return "null"
	}
}

func formatNumber(f float64) string {
	if f == 0 {
		return "0"
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	s = strings.ReplaceAll(s, "E", "e")
	if s == "-0" {
		return "0"
	}
	return s
}
