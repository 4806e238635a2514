package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/framehold/internal/sim"
)

type Point struct{ X, Y float64 }

// DriftPoints maps samples to (time, drift) pairs.
func DriftPoints(samples []sim.Sample) []Point {
	pts := make([]Point, len(samples))
	for i, s := range samples {
		pts[i] = Point{s.Time, s.DriftDeg}
	}
	return pts
}

// TrackPoints maps samples to the reference position around the body,
// seen from above.
func TrackPoints(samples []sim.Sample) []Point {
	pts := make([]Point, 0, len(samples))
	for _, s := range samples {
		if s.Vessel == 0 {
			continue
		}
		pts = append(pts, Point{s.Relative.X(), s.Relative.Y()})
	}
	return pts
}

// PolylineSVG renders points as a single path scaled to width x height with
// a 10% margin. It writes nothing for fewer than two points.
func PolylineSVG(w io.Writer, points []Point, width, height int, stroke string) error {
	if len(points) < 2 {
		return nil
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, stroke)

	for i, p := range points {
		x := (p.X - minX) / rangeX * float64(width)
		y := float64(height) - (p.Y-minY)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString("\"/>\n</svg>\n")
	_, err := io.WriteString(w, sb.String())
	return err
}
