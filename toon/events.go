package toon

import (
	"context"
	"strings"
)

// EventKind identifies which case of Event is populated.
type EventKind uint8

const (
	EventStartObject EventKind = iota
	EventEndObject
	EventStartArray
	EventEndArray
	EventKey
	EventPrimitive
)

// Event is one step of a lazily-decoded TOON document: the same
// information the eager Value Decoder produces, emitted incrementally
// so a caller can stop consuming after any prefix of the document
// without the decoder doing more work than that prefix required.
type Event struct {
	Kind         EventKind
	Length       int    // StartArray: declared element count
	Key          string // Key: the decoded key
	KeyWasQuoted bool   // Key: whether the key was written quoted
	Value        *Value // Primitive: the decoded scalar
}

// op is one pending unit of work in the decoder's queue. run does the
// work needed to produce at most one event; if it has more to do before
// an event is ready (e.g. deciding whether an object has another key),
// it splices new ops at the front of the queue via d.splice and returns
// hasEv=false, and Next keeps dequeuing until an op actually emits.
type op interface {
	run(d *EventDecoder) (ev Event, hasEv bool, err error)
}

// EventDecoder pulls one Event at a time from a TOON document. Next
// does only the work needed to produce its single return event; it
// never decodes further ahead than that. Memory use is O(depth): the
// queue holds one pending op per currently-open object/array level plus
// whatever is queued for the level being actively decoded.
type EventDecoder struct {
	opts  DecodeOptions
	cur   Cursor
	queue []op
	done  bool
	err   error
}

// NewEventDecoder creates a lazy decoder over input.
func NewEventDecoder(input string, opts DecodeOptions) (*EventDecoder, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	if opts.Delimiter == 0 {
		opts.Delimiter = ','
	}
	lines, err := scanLines(input, opts.Indent, opts.Strict)
	if err != nil {
		return nil, err
	}
	d := &EventDecoder{opts: opts, cur: newCursor(lines)}
	if len(lines) == 0 {
		d.done = true
		return d, nil
	}
	first, _ := d.cur.Peek()
	content := strings.TrimLeft(first.Content, " ")
	switch {
	case strings.HasPrefix(content, "["):
		d.queue = []op{rootArrayOp{}}
	case looksLikeKeyLine(content):
		d.queue = append([]op{emitOp{Event{Kind: EventStartObject}}}, objectBodyOps(0)...)
	default:
		d.queue = []op{rootPrimitiveOp{}}
	}
	return d, nil
}

// splice inserts ops at the front of the queue, in the order given.
func (d *EventDecoder) splice(ops ...op) {
	if len(ops) == 0 {
		return
	}
	d.queue = append(append(make([]op, 0, len(ops)+len(d.queue)), ops...), d.queue...)
}

// Next returns the next event in the stream, or ok=false once the
// document is exhausted (or a decode error occurred, returned as err).
func (d *EventDecoder) Next() (ev Event, ok bool, err error) {
	if d.done {
		return Event{}, false, d.err
	}
	for len(d.queue) > 0 {
		next := d.queue[0]
		d.queue = d.queue[1:]
		ev, hasEv, err := next.run(d)
		if err != nil {
			d.err = err
			d.done = true
			return Event{}, false, err
		}
		if hasEv {
			return ev, true, nil
		}
	}
	d.done = true
	return Event{}, false, nil
}

// objectBodyOps returns the natural-order op sequence for decoding an
// object's entries at depth, followed by its EndObject.
func objectBodyOps(depth int) []op {
	return []op{objectLoopOp{depth: depth}, emitOp{Event{Kind: EventEndObject}}}
}

// emitOp emits a fixed, already-known Event.
type emitOp struct{ ev Event }

func (o emitOp) run(d *EventDecoder) (Event, bool, error) { return o.ev, true, nil }

// rootPrimitiveOp decodes a document whose root is a single scalar.
type rootPrimitiveOp struct{}

func (rootPrimitiveOp) run(d *EventDecoder) (Event, bool, error) {
	line, _ := d.cur.Peek()
	pos := Position{Line: line.LineNo}
	content := strings.TrimLeft(line.Content, " ")
	v, _, err := primitiveToken(content, d.opts.Delimiter, pos, d.opts.Strict)
	if err != nil {
		return Event{}, false, err
	}
	d.cur = d.cur.Advance()
	return Event{Kind: EventPrimitive, Value: v}, true, nil
}

// rootArrayOp decodes a document whose root is a bare array header.
type rootArrayOp struct{}

func (rootArrayOp) run(d *EventDecoder) (Event, bool, error) {
	line, _ := d.cur.Peek()
	pos := Position{Line: line.LineNo}
	content := strings.TrimLeft(line.Content, " ")
	header, inline, err := arrayHeaderLine("", false, content, d.opts.Delimiter, pos)
	if err != nil {
		return Event{}, false, err
	}
	d.cur = d.cur.Advance()
	ops, err := arrayBodyOps(header, inline, 1, d.opts)
	if err != nil {
		return Event{}, false, err
	}
	d.splice(ops...)
	return Event{}, false, nil
}

// objectLoopOp checks whether another key line remains at depth; if so
// it decodes that one key (emitting its Key event) and re-splices
// itself to check again afterward, otherwise it emits nothing and lets
// whatever follows it in the queue (normally an EndObject emitOp) run.
type objectLoopOp struct{ depth int }

func (o objectLoopOp) run(d *EventDecoder) (Event, bool, error) {
	if !d.cur.HasMoreAtDepth(o.depth) {
		return Event{}, false, nil
	}
	line, _ := d.cur.Peek()
	pos := Position{Line: line.LineNo}
	key, wasQuoted, rest, err := keyToken(line.Content, pos)
	if err != nil {
		return Event{}, false, err
	}
	d.cur = d.cur.Advance()
	valueOps, err := entryValueOps(rest, pos, o.depth, d.opts, d.cur)
	if err != nil {
		return Event{}, false, err
	}
	ops := append([]op{}, valueOps...)
	ops = append(ops, o)
	d.splice(ops...)
	return Event{Kind: EventKey, Key: key, KeyWasQuoted: wasQuoted}, true, nil
}

// entryValueOps returns the natural-order ops for the value half of a
// "key<rest>" line, where depth is the key line's own depth. cur is the
// cursor positioned right after the key line, used to decide whether a
// bare "key:" with nothing else on the line opens a nested object (a
// deeper line follows) or is simply null (it doesn't).
func entryValueOps(rest string, pos Position, depth int, opts DecodeOptions, cur Cursor) ([]op, error) {
	rest = strings.TrimLeft(rest, " ")
	if len(rest) > 0 && rest[0] == '[' {
		header, inline, err := arrayHeaderLine("", false, rest, opts.Delimiter, pos)
		if err != nil {
			return nil, err
		}
		return arrayBodyOps(header, inline, depth+1, opts)
	}
	if len(rest) == 0 || rest[0] != ':' {
		return nil, newError(ErrBadHeader, pos, "expected ':' after key")
	}
	rest = strings.TrimLeft(rest[1:], " ")
	if rest == "" {
		if cur.HasMoreAtDepth(depth + 1) {
			return append([]op{emitOp{Event{Kind: EventStartObject}}}, objectBodyOps(depth+1)...), nil
		}
		return []op{emitOp{Event{Kind: EventPrimitive, Value: Null()}}}, nil
	}
	if rest == "{}" {
		return []op{emitOp{Event{Kind: EventStartObject}}, emitOp{Event{Kind: EventEndObject}}}, nil
	}
	v, _, err := primitiveToken(rest, opts.Delimiter, pos, opts.Strict)
	if err != nil {
		return nil, err
	}
	return []op{emitOp{Event{Kind: EventPrimitive, Value: v}}}, nil
}

// arrayBodyOps returns the natural-order ops for an array value given
// its already-parsed header: StartArray, the body (rows or inline
// values), then EndArray.
func arrayBodyOps(header *arrayHeader, inline string, depth int, opts DecodeOptions) ([]op, error) {
	start := emitOp{Event{Kind: EventStartArray, Length: header.length}}
	end := emitOp{Event{Kind: EventEndArray}}
	switch {
	case header.fields != nil:
		return []op{start, tabularRowOp{header: header, remaining: header.length, depth: depth}, end}, nil
	case inline != "":
		raw, err := delimitedValues(inline, header.delimiter)
		if err != nil {
			return nil, err
		}
		if opts.Strict && len(raw) != header.length {
			return nil, newError(ErrLengthMismatch, Position{}, "array declared length %d but found %d values", header.length, len(raw))
		}
		ops := make([]op, 0, len(raw)+2)
		ops = append(ops, start)
		for _, r := range raw {
			v, _, err := primitiveToken(r, header.delimiter, Position{}, opts.Strict)
			if err != nil {
				return nil, err
			}
			ops = append(ops, emitOp{Event{Kind: EventPrimitive, Value: v}})
		}
		ops = append(ops, end)
		return ops, nil
	default:
		return []op{start, listRowOp{header: header, remaining: header.length, depth: depth}, end}, nil
	}
}

// tabularRowOp decodes one tabular row per run, emitting
// StartObject/Key/Primitive.../EndObject for it and re-splicing itself
// (with remaining decremented) until exhausted.
type tabularRowOp struct {
	header    *arrayHeader
	remaining int
	depth     int
}

func (o tabularRowOp) run(d *EventDecoder) (Event, bool, error) {
	if o.remaining <= 0 {
		if d.opts.Strict && d.cur.HasMoreAtDepth(o.depth) {
			return Event{}, false, newError(ErrLengthMismatch, Position{}, "tabular array has more rows than declared length %d", o.header.length)
		}
		return Event{}, false, nil
	}
	line, ok := d.cur.PeekAtDepth(o.depth)
	if !ok {
		if d.opts.Strict {
			return Event{}, false, newError(ErrLengthMismatch, Position{}, "tabular array declared length %d but ran out of rows", o.header.length)
		}
		return Event{}, false, nil
	}
	pos := Position{Line: line.LineNo}
	cells, err := delimitedValues(line.Content, o.header.delimiter)
	if err != nil {
		return Event{}, false, err
	}
	if len(cells) != len(o.header.fields) {
		if d.opts.Strict {
			return Event{}, false, newError(ErrLengthMismatch, pos, "row has %d cells, header declares %d fields", len(cells), len(o.header.fields))
		}
		for len(cells) < len(o.header.fields) {
			cells = append(cells, "null")
		}
	}
	d.cur = d.cur.Advance()

	ops := make([]op, 0, len(o.header.fields)*2+2)
	ops = append(ops, emitOp{Event{Kind: EventStartObject}})
	for i, f := range o.header.fields {
		v, _, err := primitiveToken(cells[i], o.header.delimiter, pos, d.opts.Strict)
		if err != nil {
			return Event{}, false, err
		}
		ops = append(ops, emitOp{Event{Kind: EventKey, Key: f}}, emitOp{Event{Kind: EventPrimitive, Value: v}})
	}
	ops = append(ops, emitOp{Event{Kind: EventEndObject}})
	ops = append(ops, tabularRowOp{header: o.header, remaining: o.remaining - 1, depth: o.depth})
	d.splice(ops...)
	return Event{}, false, nil
}

// listRowOp decodes one List-array item per run the same way
// tabularRowOp decodes one row, re-splicing itself until exhausted.
type listRowOp struct {
	header    *arrayHeader
	remaining int
	depth     int
}

func (o listRowOp) run(d *EventDecoder) (Event, bool, error) {
	if o.remaining <= 0 {
		if d.opts.Strict && d.cur.HasMoreAtDepth(o.depth) {
			return Event{}, false, newError(ErrLengthMismatch, Position{}, "list array has more items than declared length %d", o.header.length)
		}
		return Event{}, false, nil
	}
	line, ok := d.cur.PeekAtDepth(o.depth)
	if !ok {
		if d.opts.Strict {
			return Event{}, false, newError(ErrLengthMismatch, Position{}, "list array declared length %d but ran out of items", o.header.length)
		}
		return Event{}, false, nil
	}
	pos := Position{Line: line.LineNo}
	content, ok := stripDash(line.Content)
	if !ok {
		return Event{}, false, newErrorSuggest(ErrInvalidObjectListItem, pos, "list items must start with \"- \"", "expected '-' prefix on list item")
	}
	d.cur = d.cur.Advance()

	itemOps, err := listItemOps(content, pos, o.depth, d.opts, d.cur)
	if err != nil {
		return Event{}, false, err
	}
	ops := append(append([]op{}, itemOps...), listRowOp{header: o.header, remaining: o.remaining - 1, depth: o.depth})
	d.splice(ops...)
	return Event{}, false, nil
}

// listItemOps returns the natural-order ops for one List-array element.
// content is the text immediately after the "- " marker; depth is the
// depth the dash line itself was found at. cur is the cursor positioned
// right after the dash line.
func listItemOps(content string, pos Position, depth int, opts DecodeOptions, cur Cursor) ([]op, error) {
	content = strings.TrimLeft(content, " ")
	switch {
	case content == "":
		return append([]op{emitOp{Event{Kind: EventStartObject}}}, objectBodyOps(depth+1)...), nil
	case content == "{}":
		return []op{emitOp{Event{Kind: EventStartObject}}, emitOp{Event{Kind: EventEndObject}}}, nil
	case strings.HasPrefix(content, "["):
		header, inline, err := arrayHeaderLine("", false, content, opts.Delimiter, pos)
		if err != nil {
			return nil, err
		}
		return arrayBodyOps(header, inline, depth+1, opts)
	case looksLikeKeyLine(content):
		key, wasQuoted, rest, err := keyToken(content, pos)
		if err != nil {
			return nil, err
		}
		valueOps, err := entryValueOps(rest, pos, depth+1, opts, cur)
		if err != nil {
			return nil, err
		}
		ops := []op{emitOp{Event{Kind: EventStartObject}}, emitOp{Event{Kind: EventKey, Key: key, KeyWasQuoted: wasQuoted}}}
		ops = append(ops, valueOps...)
		ops = append(ops, objectLoopOp{depth: depth + 1}, emitOp{Event{Kind: EventEndObject}})
		return ops, nil
	default:
		v, _, err := primitiveToken(content, opts.Delimiter, pos, opts.Strict)
		if err != nil {
			return nil, err
		}
		return []op{emitOp{Event{Kind: EventPrimitive, Value: v}}}, nil
	}
}

// EventsToValue reduces a full event stream back into a Value tree,
// proving the lazy decoder agrees with the eager one.
func EventsToValue(d *EventDecoder) (*Value, error) {
	type objBuilder struct {
		entries      []decodedEntry
		pendingKey   string
		pendingQuote bool
		haveKey      bool
	}
	type arrBuilder struct {
		elems []*Value
	}

	var objStack []*objBuilder
	var arrStack []*arrBuilder
	var kindStack []bool // true = object, false = array
	var root *Value
	haveRoot := false

	setValue := func(v *Value) error {
		if len(kindStack) == 0 {
			root = v
			haveRoot = true
			return nil
		}
		if kindStack[len(kindStack)-1] {
			ob := objStack[len(objStack)-1]
			if !ob.haveKey {
				return newError(ErrExpectedValue, Position{}, "value without preceding key in object")
			}
			ob.entries = append(ob.entries, decodedEntry{key: ob.pendingKey, keyWasQuoted: ob.pendingQuote, value: v})
			ob.haveKey = false
		} else {
			ab := arrStack[len(arrStack)-1]
			ab.elems = append(ab.elems, v)
		}
		return nil
	}

	for {
		ev, ok, err := d.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		switch ev.Kind {
		case EventStartObject:
			kindStack = append(kindStack, true)
			objStack = append(objStack, &objBuilder{})
		case EventEndObject:
			ob := objStack[len(objStack)-1]
			objStack = objStack[:len(objStack)-1]
			kindStack = kindStack[:len(kindStack)-1]
			v, err := expandEntries(ob.entries, d.opts.ExpandPaths, d.opts.Strict)
			if err != nil {
				return nil, err
			}
			if err := setValue(v); err != nil {
				return nil, err
			}
		case EventStartArray:
			kindStack = append(kindStack, false)
			arrStack = append(arrStack, &arrBuilder{})
		case EventEndArray:
			ab := arrStack[len(arrStack)-1]
			arrStack = arrStack[:len(arrStack)-1]
			kindStack = kindStack[:len(kindStack)-1]
			if err := setValue(Arr(ab.elems...)); err != nil {
				return nil, err
			}
		case EventKey:
			ob := objStack[len(objStack)-1]
			ob.pendingKey = ev.Key
			ob.pendingQuote = ev.KeyWasQuoted
			ob.haveKey = true
		case EventPrimitive:
			if err := setValue(ev.Value); err != nil {
				return nil, err
			}
		}
	}
	if !haveRoot {
		root = Null()
	}
	return root, nil
}

// EventOrErr is one element of the channel DecodeEventsAsync returns.
type EventOrErr struct {
	Event Event
	Err   error
}

// DecodeEventsAsync runs the same lazy event sequence Next would yield
// on a background goroutine, sending each event (or the first error) on
// the returned channel and closing it once the document ends, an error
// occurs, or ctx is canceled.
func DecodeEventsAsync(ctx context.Context, input string, opts DecodeOptions) <-chan EventOrErr {
	out := make(chan EventOrErr, 16)
	go func() {
		defer close(out)
		d, err := NewEventDecoder(input, opts)
		if err != nil {
			select {
			case out <- EventOrErr{Err: err}:
			case <-ctx.Done():
			}
			return
		}
		for {
			ev, ok, err := d.Next()
			if err != nil {
				select {
				case out <- EventOrErr{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			if !ok {
				return
			}
			select {
			case out <- EventOrErr{Event: ev}:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out
}
