package toon

import "testing"

func TestScanLinesSkipsBlankAndComputesDepth(t *testing.T) {
	lines, err := scanLines("a: 1\n\n  b: 2\n", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2 (blank line skipped)", len(lines))
	}
	if lines[0].Depth != 0 || lines[1].Depth != 1 {
		t.Errorf("depths = %d,%d, want 0,1", lines[0].Depth, lines[1].Depth)
	}
	if lines[1].LineNo != 3 {
		t.Errorf("LineNo = %d, want 3 (line numbers count blank lines)", lines[1].LineNo)
	}
}

func TestScanLinesStrictRejectsTabs(t *testing.T) {
	_, err := scanLines("a:\n\tb: 1", 2, true)
	if err == nil {
		t.Fatal("expected TabsNotAllowed error")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Code != ErrTabsNotAllowed {
		t.Errorf("err = %v, want TabsNotAllowed", err)
	}
}

func TestScanLinesStrictRejectsOddIndent(t *testing.T) {
	_, err := scanLines("a:\n   b: 1", 2, true)
	if err == nil {
		t.Fatal("expected IndentNotMultiple error")
	}
	terr, ok := err.(*Error)
	if !ok || terr.Code != ErrIndentNotMultiple {
		t.Errorf("err = %v, want IndentNotMultiple", err)
	}
}

func TestCursorAdvanceIsImmutable(t *testing.T) {
	lines, err := scanLines("a: 1\nb: 2", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	c0 := newCursor(lines)
	c1 := c0.Advance()

	first, ok := c0.Peek()
	if !ok || first.Content != "a: 1" {
		t.Errorf("c0.Peek() = %+v, want a: 1 (advancing c1 must not mutate c0)", first)
	}
	second, ok := c1.Peek()
	if !ok || second.Content != "b: 2" {
		t.Errorf("c1.Peek() = %+v, want b: 2", second)
	}
}

func TestCursorHasMoreAtDepth(t *testing.T) {
	lines, err := scanLines("a: 1\n  b: 2\nc: 3", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	c := newCursor(lines).Advance()
	if !c.HasMoreAtDepth(1) {
		t.Error("expected a line at depth 1")
	}
	c = c.Advance()
	if c.HasMoreAtDepth(1) {
		t.Error("next line is at depth 0, should not report depth 1")
	}
	if !c.HasMoreAtDepth(0) {
		t.Error("expected a line at depth 0")
	}
}

func TestCursorAtEnd(t *testing.T) {
	lines, err := scanLines("a: 1", 2, true)
	if err != nil {
		t.Fatal(err)
	}
	c := newCursor(lines)
	if c.AtEnd() {
		t.Error("fresh cursor over non-empty lines should not be at end")
	}
	c = c.Advance()
	if !c.AtEnd() {
		t.Error("cursor advanced past the last line should be at end")
	}
}
