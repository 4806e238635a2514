package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.PixelSize(); w != 8 || h != 8 {
		t.Fatalf("pixel size = %dx%d, want 8x8", w, h)
	}

	c.Set(0, 0)
	c.Set(3, 7)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("top-left dot = %U", c.Grid[0][0])
	}
	if c.Grid[1][1] != 0x2880 {
		t.Errorf("bottom-right dot = %U", c.Grid[1][1])
	}
	if !c.IsSet(3, 7) || c.IsSet(2, 7) {
		t.Error("IsSet disagrees with Set")
	}

	c.Clear()
	if c.IsSet(0, 0) || c.IsSet(3, 7) {
		t.Error("expected empty canvas after Clear")
	}
}

func TestCanvasIgnoresOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {4, 0}, {0, 8}} {
		c.Set(p[0], p[1])
	}
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Errorf("out-of-bounds points drawn:\n%s", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 19, 11)
	if !c.IsSet(0, 0) || !c.IsSet(19, 11) {
		t.Error("line endpoints not set")
	}

	c.Clear()
	c.DrawLine(5, 4, 5, 4)
	if !c.IsSet(5, 4) {
		t.Error("degenerate line should set one point")
	}
}

func TestCanvasDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(20, 20, 10)

	for _, p := range [][2]int{{30, 20}, {10, 20}, {20, 30}, {20, 10}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("expected (%d, %d) on the circle", p[0], p[1])
		}
	}
	if c.IsSet(20, 20) {
		t.Error("centre should stay empty")
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 || len([]rune(lines[0])) != 3 {
		t.Errorf("unexpected layout %q", lines)
	}
}
