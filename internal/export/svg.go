// Package export renders stored trajectories to SVG.
package export

import (
	"fmt"
	"strings"
)

// Point is a projected 2D trajectory sample.
type Point struct {
	X, Y float64
}

var strokePalette = []string{
	"#00ff00", "#00ccff", "#ff6600", "#ff00cc", "#ffee00", "#9966ff",
}

// OrbitsToSVG renders one polyline per body trajectory on a shared, padded
// viewport. Tracks shorter than two points are skipped.
func OrbitsToSVG(tracks [][]Point, width, height int) string {
	minX, maxX, minY, maxY, ok := bounds(tracks)
	if !ok {
		return ""
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
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height))

	for i, track := range tracks {
		if len(track) < 2 {
			continue
		}
		color := strokePalette[i%len(strokePalette)]
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, color))

		for j, p := range track {
			x := (p.X - minX) / rangeX * float64(width)
			y := float64(height) - (p.Y-minY)/rangeY*float64(height)
			if j == 0 {
				sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
			} else {
				sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
			}
		}
		sb.WriteString("\"/>\n")
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func bounds(tracks [][]Point) (minX, maxX, minY, maxY float64, ok bool) {
	for _, track := range tracks {
		for _, p := range track {
			if !ok {
				minX, maxX, minY, maxY = p.X, p.X, p.Y, p.Y
				ok = true
				continue
			}
			if p.X < minX {
				minX = p.X
			}
			if p.X > maxX {
				maxX = p.X
			}
			if p.Y < minY {
				minY = p.Y
			}
			if p.Y > maxY {
				maxY = p.Y
			}
		}
	}
	return
}
