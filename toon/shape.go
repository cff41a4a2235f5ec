package toon

// arrayShape classifies how an array Value should be laid out on the
// wire, matching the format's four array shapes.
type arrayShape uint8

const (
	shapeEmpty arrayShape = iota
	shapeInlinePrimitive
	shapeTabularUniform
	shapeList
)

// analyzeShape classifies elems and, for the tabular case, returns the
// shared field list in first-seen order.
func analyzeShape(elems []*Value) (arrayShape, []string) {
	if len(elems) == 0 {
		return shapeEmpty, nil
	}
	if allPrimitive(elems) {
		return shapeInlinePrimitive, nil
	}
	if fields, ok := uniformObjectFields(elems); ok {
		return shapeTabularUniform, fields
	}
	return shapeList, nil
}

func allPrimitive(elems []*Value) bool {
	for _, e := range elems {
		switch e.Kind() {
		case KindNull, KindBool, KindNum, KindStr:
		default:
			return false
		}
	}
	return true
}

// uniformObjectFields reports whether every element of elems is an
// object with exactly the same set of keys, in the same order, and none
// of those keys' values are themselves array or object (tabular cells
// must be scalar). It returns the shared key list when true.
func uniformObjectFields(elems []*Value) ([]string, bool) {
	first, err := elems[0].AsObj()
	if err != nil || len(first) == 0 {
		return nil, false
	}
	fields := make([]string, len(first))
	for i, e := range first {
		if e.Value.Kind() == KindArr || e.Value.Kind() == KindObj {
			return nil, false
		}
		fields[i] = e.Key
	}
	for _, v := range elems[1:] {
		entries, err := v.AsObj()
		if err != nil || len(entries) != len(fields) {
			return nil, false
		}
		for i, e := range entries {
			if e.Key != fields[i] {
				return nil, false
			}
			if e.Value.Kind() == KindArr || e.Value.Kind() == KindObj {
				return nil, false
			}
		}
	}
	return fields, true
}

// arrayHeader is the parsed or to-be-emitted form of an array's opening
// line: key[length]{fields}: for tabular arrays, key[length]: for list
// and inline-primitive arrays.
type arrayHeader struct {
	key           string
	keyWasQuoted  bool
	length        int
	delimiter     rune
	fields        []string
	inlineValues  []string // not populated; arrayHeaderLine returns inline text separately
}
