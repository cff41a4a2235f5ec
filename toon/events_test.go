package toon

import (
	"context"
	"testing"
)

func TestEventDecoderFlatObject(t *testing.T) {
	d, err := NewEventDecoder("name: Alice\nage: 30", DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	var kinds []EventKind
	for {
		ev, ok, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
	}
	want := []EventKind{EventStartObject, EventKey, EventPrimitive, EventKey, EventPrimitive, EventEndObject}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestEventDecoderNestedObjectOrder(t *testing.T) {
	d, err := NewEventDecoder("user:\n  name: Alice", DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	var kinds []EventKind
	for {
		ev, ok, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
	}
	want := []EventKind{EventStartObject, EventKey, EventStartObject, EventKey, EventPrimitive, EventEndObject, EventEndObject}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestEventDecoderTabularArrayOrder(t *testing.T) {
	input := "users[2]{id,name}:\n  1,Alice\n  2,Bob"
	d, err := NewEventDecoder(input, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	var kinds []EventKind
	for {
		ev, ok, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
	}
	want := []EventKind{
		EventStartObject, EventKey, EventStartArray,
		EventStartObject, EventKey, EventPrimitive, EventKey, EventPrimitive, EventEndObject,
		EventStartObject, EventKey, EventPrimitive, EventKey, EventPrimitive, EventEndObject,
		EventEndArray, EventEndObject,
	}
	if len(kinds) != len(want) {
		t.Fatalf("len(kinds) = %d (%v), want %d (%v)", len(kinds), kinds, len(want), want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestEventDecoderStopsEarlyWithoutDecodingRest(t *testing.T) {
	input := "a: 1\nb: 2\nc: 3"
	d, err := NewEventDecoder(input, DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	ev, ok, err := d.Next()
	if err != nil || !ok || ev.Kind != EventStartObject {
		t.Fatalf("first Next() = %v, %v, %v, want StartObject", ev, ok, err)
	}
	ev, ok, err = d.Next()
	if err != nil || !ok {
		t.Fatalf("second Next() = %v, %v, %v", ev, ok, err)
	}
	if ev.Kind != EventKey || ev.Key != "a" {
		t.Fatalf("second event = %+v, want key \"a\"", ev)
	}
	// Nothing requires the caller to drain the rest; stopping here must
	// not panic or otherwise require further decode work.
}

func TestEventsToValueMatchesEagerDecode(t *testing.T) {
	inputs := []string{
		"name: Alice\nage: 30",
		"user:\n  name: Alice\n  age: 30",
		"users[2]{id,name}:\n  1,Alice\n  2,Bob",
		"tags[3]: a,b,c",
		"items[3]:\n  - 1\n  - two\n  - true",
	}
	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			eager, err := Decode(in, DefaultDecodeOptions())
			if err != nil {
				t.Fatal(err)
			}
			d, err := NewEventDecoder(in, DefaultDecodeOptions())
			if err != nil {
				t.Fatal(err)
			}
			lazy, err := EventsToValue(d)
			if err != nil {
				t.Fatal(err)
			}
			eagerJSON := ToAny(eager)
			lazyJSON := ToAny(lazy)
			if !valuesEqual(eagerJSON, lazyJSON) {
				t.Errorf("lazy decode %#v != eager decode %#v", lazyJSON, eagerJSON)
			}
		})
	}
}

func valuesEqual(a, b any) bool {
	switch av := a.(type) {
	case map[string]any:
		bv, ok := b.(map[string]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for k, v := range av {
			if !valuesEqual(v, bv[k]) {
				return false
			}
		}
		return true
	case []any:
		bv, ok := b.([]any)
		if !ok || len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !valuesEqual(av[i], bv[i]) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

func TestDecodeEventsAsyncDeliversSameEvents(t *testing.T) {
	input := "name: Alice\nage: 30"
	ch := DecodeEventsAsync(context.Background(), input, DefaultDecodeOptions())

	var kinds []EventKind
	for item := range ch {
		if item.Err != nil {
			t.Fatal(item.Err)
		}
		kinds = append(kinds, item.Event.Kind)
	}
	want := []EventKind{EventStartObject, EventKey, EventPrimitive, EventKey, EventPrimitive, EventEndObject}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
}

func TestDecodeEventsAsyncCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	input := "a: 1\nb: 2\nc: 3"
	ch := DecodeEventsAsync(ctx, input, DefaultDecodeOptions())
	for range ch {
		// draining must terminate even though ctx is already canceled
	}
}

func TestEventDecoderStrictLengthMismatch(t *testing.T) {
	d, err := NewEventDecoder("tags[3]: a,b", DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	var lastErr error
	for {
		_, ok, err := d.Next()
		if err != nil {
			lastErr = err
			break
		}
		if !ok {
			break
		}
	}
	if lastErr == nil {
		t.Fatal("expected a LengthMismatch error from the lazy decoder")
	}
}

func TestEventDecoderBareKeyWithoutNestedBlockIsNull(t *testing.T) {
	d, err := NewEventDecoder("a:\nb: 1", DefaultDecodeOptions())
	if err != nil {
		t.Fatal(err)
	}
	var kinds []EventKind
	var values []*Value
	for {
		ev, ok, err := d.Next()
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		kinds = append(kinds, ev.Kind)
		values = append(values, ev.Value)
	}
	want := []EventKind{EventStartObject, EventKey, EventPrimitive, EventKey, EventPrimitive, EventEndObject}
	if len(kinds) != len(want) {
		t.Fatalf("kinds = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("kinds[%d] = %v, want %v", i, kinds[i], want[i])
		}
	}
	if values[2] == nil || values[2].Kind() != KindNull {
		t.Errorf("value for bare key a: = %v, want Null", values[2])
	}
}

func TestEventDecoderStrictBadNumber(t *testing.T) {
	opts := DefaultDecodeOptions()
	opts.Strict = true
	d, err := NewEventDecoder("key: 1e99999", opts)
	if err != nil {
		t.Fatal(err)
	}
	var lastErr error
	for {
		_, ok, err := d.Next()
		if err != nil {
			lastErr = err
			break
		}
		if !ok {
			break
		}
	}
	terr, ok := lastErr.(*Error)
	if !ok || terr.Code != ErrBadNumber {
		t.Errorf("err = %v, want BadNumber", lastErr)
	}
}
