package toon

import (
	"regexp"
	"strings"
)

// identSegment matches a single key-collapsing path segment: a bare
// identifier with no dots of its own.
var identSegment = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// CollapseMode selects whether the encoder fuses single-child nested
// objects into a dotted key chain.
type CollapseMode uint8

const (
	CollapseOff CollapseMode = iota
	CollapseSafe
)

// collapseEntries rewrites entries, fusing any chain of single-entry
// nested objects into one dotted-key entry, when every segment is a
// bare identifier and the fused key does not collide with a sibling key.
// Only the keys of entries are checked for collisions; keys at other
// levels of the document, including the root, are not consulted.
// maxDepth caps the number of segments a chain may fuse (0 means
// unlimited), matching FlattenDepth.
func collapseEntries(entries []Entry, mode CollapseMode, maxDepth int) []Entry {
	if mode != CollapseSafe {
		return entries
	}

	existing := make(map[string]bool, len(entries))
	for _, e := range entries {
		existing[e.Key] = true
	}

	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		chain, leaf, ok := collapseChain(e.Key, e.Value, maxDepth)
		if !ok {
			out = append(out, e)
			continue
		}
		fused := strings.Join(chain, ".")
		if existing[fused] && fused != e.Key {
			out = append(out, e)
			continue
		}
		out = append(out, Entry{Key: fused, Value: leaf})
	}
	return out
}

// collapseChain walks down a chain of single-entry nested objects
// starting at (key, value), returning the accumulated key segments and
// the leaf value once the chain stops (the current node is not an
// object with exactly one entry, its single key is not a bare
// identifier, or the chain has reached maxDepth segments). maxDepth <= 0
// means unlimited.
func collapseChain(key string, value *Value, maxDepth int) (chain []string, leaf *Value, ok bool) {
	if !identSegment.MatchString(key) {
		return []string{key}, value, false
	}
	chain = []string{key}
	cur := value
	for cur.Kind() == KindObj && cur.Len() == 1 && (maxDepth <= 0 || len(chain) < maxDepth) {
		entries, _ := cur.AsObj()
		child := entries[0]
		if !identSegment.MatchString(child.Key) {
			break
		}
		chain = append(chain, child.Key)
		cur = child.Value
	}
	return chain, cur, len(chain) >= 2
}
