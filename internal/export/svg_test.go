package export

import (
	"strings"
	"testing"
)

func TestOrbitsToSVG(t *testing.T) {
	tracks := [][]Point{
		{{0, 0}, {10, 0}, {10, 10}},
		{{-5, -5}, {5, 5}},
	}

	svg := OrbitsToSVG(tracks, 800, 600)

	if !strings.HasPrefix(svg, `<?xml version="1.0"`) {
		t.Error("missing XML declaration")
	}
	if !strings.Contains(svg, `width="800" height="600"`) {
		t.Error("viewport dimensions not applied")
	}
	if got := strings.Count(svg, "<path"); got != 2 {
		t.Errorf("rendered %d paths, want 2", got)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("document not closed")
	}
}

func TestOrbitsToSVGSkipsShortTracks(t *testing.T) {
	tracks := [][]Point{
		{{0, 0}},                 // too short to draw
		{{0, 0}, {1, 1}, {2, 0}}, // drawn
	}

	svg := OrbitsToSVG(tracks, 400, 400)
	if got := strings.Count(svg, "<path"); got != 1 {
		t.Errorf("rendered %d paths, want 1", got)
	}
}

func TestOrbitsToSVGEmpty(t *testing.T) {
	if svg := OrbitsToSVG(nil, 400, 400); svg != "" {
		t.Errorf("empty input produced %q", svg)
	}
}

func TestOrbitsToSVGDegenerateRange(t *testing.T) {
	// All points identical: the zero range must not divide by zero.
	tracks := [][]Point{{{3, 3}, {3, 3}}}

	svg := OrbitsToSVG(tracks, 400, 400)
	if !strings.Contains(svg, "<path") {
		t.Error("degenerate track not rendered")
	}
	if strings.Contains(svg, "NaN") {
		t.Error("output contains NaN coordinates")
	}
}
