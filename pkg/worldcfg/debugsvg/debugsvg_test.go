package debugsvg

import (
	"bytes"
	"testing"
)

func TestRenderHeightMapProducesSVG(t *testing.T) {
	size := 8
	height := make([]float32, size*size)
	for i := range height {
		height[i] = float32(i) / float32(len(height))
	}
	out, err := RenderHeightMap(height, size, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(out, []byte("<svg")) {
		t.Fatalf("expected SVG output, got %q", out)
	}
}

func TestRenderHeightMapRejectsLengthMismatch(t *testing.T) {
	_, err := RenderHeightMap(make([]float32, 4), 8, DefaultOptions())
	if err == nil {
		t.Fatalf("expected error for mismatched raster length")
	}
}

func TestRenderRiverOverlayProducesSVG(t *testing.T) {
	size := 4
	height := make([]float32, size*size)
	river := make([]uint8, size*size)
	river[0] = 1
	out, err := RenderRiverOverlay(height, river, size, Options{CellSize: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.Contains(out, []byte("rgb(40,90,220)")) {
		t.Fatalf("expected river color to appear in output")
	}
}
