package toon

import (
	"reflect"
	"testing"
)

func TestAnalyzeShapeEmpty(t *testing.T) {
	shape, fields := analyzeShape(nil)
	if shape != shapeEmpty || fields != nil {
		t.Errorf("analyzeShape(nil) = %v,%v, want shapeEmpty,nil", shape, fields)
	}
}

func TestAnalyzeShapeInlinePrimitive(t *testing.T) {
	shape, _ := analyzeShape([]*Value{Num(1), Str("a"), Bool(true), Null()})
	if shape != shapeInlinePrimitive {
		t.Errorf("analyzeShape(primitives) = %v, want shapeInlinePrimitive", shape)
	}
}

func TestAnalyzeShapeTabularUniform(t *testing.T) {
	elems := []*Value{
		Obj(Entry{Key: "id", Value: Num(1)}, Entry{Key: "name", Value: Str("Alice")}),
		Obj(Entry{Key: "id", Value: Num(2)}, Entry{Key: "name", Value: Str("Bob")}),
	}
	shape, fields := analyzeShape(elems)
	if shape != shapeTabularUniform {
		t.Fatalf("analyzeShape(uniform objs) = %v, want shapeTabularUniform", shape)
	}
	if !reflect.DeepEqual(fields, []string{"id", "name"}) {
		t.Errorf("fields = %v, want [id name]", fields)
	}
}

func TestAnalyzeShapeListOnFieldMismatch(t *testing.T) {
	elems := []*Value{
		Obj(Entry{Key: "id", Value: Num(1)}),
		Obj(Entry{Key: "name", Value: Str("Bob")}),
	}
	shape, _ := analyzeShape(elems)
	if shape != shapeList {
		t.Errorf("analyzeShape(mismatched objs) = %v, want shapeList", shape)
	}
}

func TestAnalyzeShapeListOnNestedValue(t *testing.T) {
	elems := []*Value{
		Obj(Entry{Key: "id", Value: Num(1)}, Entry{Key: "tags", Value: Arr(Str("a"))}),
		Obj(Entry{Key: "id", Value: Num(2)}, Entry{Key: "tags", Value: Arr(Str("b"))}),
	}
	shape, _ := analyzeShape(elems)
	if shape != shapeList {
		t.Errorf("analyzeShape(objs with nested array field) = %v, want shapeList (tabular cells must be scalar)", shape)
	}
}

func TestAnalyzeShapeListOnMixedKinds(t *testing.T) {
	elems := []*Value{Num(1), Obj(Entry{Key: "a", Value: Num(1)})}
	shape, _ := analyzeShape(elems)
	if shape != shapeList {
		t.Errorf("analyzeShape(mixed primitive+object) = %v, want shapeList", shape)
	}
}
