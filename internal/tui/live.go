// Package tui prints a plain-text view of a headless run as it progresses.
package tui

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/framehold/internal/sim"
	"golang.org/x/time/rate"
)

const (
	width       = 64
	height      = 20
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer is a sim.Observer that redraws at most frameRate times per
// second of wall-clock time.
type LiveRenderer struct {
	out      io.Writer
	scenario string
	limiter  *rate.Limiter
	canvas   [][]rune
	frames   int
}

func NewLiveRenderer(out io.Writer, scenario string, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	if frameRate <= 0 {
		frameRate = 20
	}
	return &LiveRenderer{
		out:      out,
		scenario: scenario,
		limiter:  rate.NewLimiter(rate.Limit(frameRate), 1),
		canvas:   canvas,
	}
}

func (r *LiveRenderer) OnTick(s sim.Sample) {
	if !r.limiter.Allow() {
		return
	}
	r.Render(s)
}

func (r *LiveRenderer) Frames() int { return r.frames }

// Render draws one frame regardless of the frame rate.
func (r *LiveRenderer) Render(s sim.Sample) {
	r.clear()
	if s.Vessel != 0 {
		r.drawVessel(s)
	}
	r.render(s)
	r.frames++
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// drawVessel puts the vessel on a ring around the body centre. Terminal
// cells are about twice as tall as wide, so x is stretched.
func (r *LiveRenderer) drawVessel(s sim.Sample) {
	cx, cy := width/2, height/2
	ring := float64(height/2 - 2)

	for i := 0; i < 48; i++ {
		a := 2 * math.Pi * float64(i) / 48
		r.set(cx+int(math.Round(2*ring*math.Cos(a))), cy-int(math.Round(ring*math.Sin(a))), '.')
	}

	lon := math.Atan2(s.Relative.Y(), s.Relative.X())
	vx := cx + int(math.Round(2*ring*math.Cos(lon)))
	vy := cy - int(math.Round(ring*math.Sin(lon)))
	r.line(cx, cy, vx, vy, ':')

	fwd := s.Held.Rotate(mgl64.Vec3{1, 0, 0})
	if l := math.Hypot(fwd.X(), fwd.Y()); l > 1e-9 {
		hx := vx + int(math.Round(8*fwd.X()/l))
		hy := vy - int(math.Round(4*fwd.Y()/l))
		r.line(vx, vy, hx, hy, '-')
		r.set(hx, hy, '>')
	}

	r.set(cx, cy, '+')
	r.set(vx, vy, 'O')
}

func (r *LiveRenderer) render(s sim.Sample) {
	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  t=%.2fs  tick=%d\n", r.scenario, s.Time, s.Tick)
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	state := "idle"
	if s.Working {
		state = "CORRECTING"
	}
	fmt.Fprintf(&b, "  vessel=%d %s mode=%s hold=%t %s drift=%.6f deg\n",
		s.Vessel, s.Situation, s.Icon, s.Hold, state, s.DriftDeg)

	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() { fmt.Fprint(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Fprint(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
