package toon

import "strings"

// ExpandMode selects whether the decoder splits dotted object keys back
// into nested objects.
type ExpandMode uint8

const (
	ExpandOff ExpandMode = iota
	ExpandSafe
)

// expandEntries reverses collapseEntries: any key containing one or more
// unquoted dots, with every segment a bare identifier, is split and
// deep-merged into a nested object tree. Keys that were quoted on the
// wire are never split (keyWasQuoted tracks that per decoded entry).
// In strict mode a path that descends through an existing non-object
// value is an ExpansionConflict; in non-strict mode it is silently
// resolved last-write-wins, overwriting the scalar with the new subtree.
func expandEntries(entries []decodedEntry, mode ExpandMode, strict bool) (*Value, error) {
	if mode != ExpandSafe {
		plain := make([]Entry, len(entries))
		for i, e := range entries {
			plain[i] = Entry{Key: e.key, Value: e.value}
		}
		return Obj(plain...), nil
	}

	root := Obj()
	for _, e := range entries {
		if e.keyWasQuoted || !strings.Contains(e.key, ".") {
			root = mergeEntry(root, e.key, e.value)
			continue
		}
		segs := strings.Split(e.key, ".")
		allIdent := true
		for _, s := range segs {
			if !identSegment.MatchString(s) {
				allIdent = false
				break
			}
		}
		if !allIdent {
			root = mergeEntry(root, e.key, e.value)
			continue
		}
		var err error
		root, err = mergePath(root, segs, e.value, strict)
		if err != nil {
			return nil, err
		}
	}
	return root, nil
}

// decodedEntry is an object entry as produced by the decoder, carrying
// whether its key was written with quotes (which disables expansion for
// that key regardless of its contents).
type decodedEntry struct {
	key          string
	keyWasQuoted bool
	value        *Value
}

// mergeEntry sets key directly on root (last-occurrence-wins), with no
// path splitting.
func mergeEntry(root *Value, key string, value *Value) *Value {
	entries, _ := root.AsObj()
	for i, e := range entries {
		if e.Key == key {
			entries[i].Value = value
			return &Value{kind: KindObj, objVal: entries}
		}
	}
	return &Value{kind: KindObj, objVal: append(entries, Entry{Key: key, Value: value})}
}

// mergePath deep-merges value at the nested path segs under root,
// creating intermediate objects as needed. When strict is true, an
// existing non-object value where the path needs to descend raises
// ExpansionConflict; when strict is false, that scalar is silently
// overwritten by the new subtree (last-write-wins).
func mergePath(root *Value, segs []string, value *Value, strict bool) (*Value, error) {
	if len(segs) == 1 {
		return mergeEntry(root, segs[0], value), nil
	}
	head, rest := segs[0], segs[1:]
	entries, _ := root.AsObj()
	for i, e := range entries {
		if e.Key == head {
			if e.Value.Kind() != KindObj {
				if strict {
					return nil, newError(ErrExpansionConflict, Position{}, "path %q conflicts with existing scalar at %q", strings.Join(segs, "."), head)
				}
				child, err := mergePath(Obj(), rest, value, strict)
				if err != nil {
					return nil, err
				}
				entries[i].Value = child
				return &Value{kind: KindObj, objVal: entries}, nil
			}
			merged, err := mergePath(e.Value, rest, value, strict)
			if err != nil {
				return nil, err
			}
			entries[i].Value = merged
			return &Value{kind: KindObj, objVal: entries}, nil
		}
	}
	child, err := mergePath(Obj(), rest, value, strict)
	if err != nil {
		return nil, err
	}
	return &Value{kind: KindObj, objVal: append(entries, Entry{Key: head, Value: child})}, nil
}
