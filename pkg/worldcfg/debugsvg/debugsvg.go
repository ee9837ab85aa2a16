// Package debugsvg renders already-materialized super-chunk rasters to SVG
// for operators debugging a world. It is never on the chunk request hot
// path; it is invoked only by an explicit CLI flag.
package debugsvg

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
)

// Options configures the rendered canvas.
type Options struct {
	CellSize int // pixels per raster cell; rasters are downsampled to fit
	MaxCells int // cap on rows/columns actually rendered (performance)
}

// DefaultOptions returns a canvas sized for a quick visual sanity check
// rather than pixel-perfect 512x512 output.
func DefaultOptions() Options {
	return Options{CellSize: 2, MaxCells: 256}
}

// RenderHeightMap draws a grayscale height raster (values in [0,1]).
func RenderHeightMap(height []float32, size int, opts Options) ([]byte, error) {
	if len(height) != size*size {
		return nil, fmt.Errorf("debugsvg: height raster length %d does not match size %d", len(height), size)
	}
	return render(size, opts, func(x, z int) string {
		v := height[z*size+x]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		gray := int(v * 255)
		return fmt.Sprintf("fill:rgb(%d,%d,%d)", gray, gray, gray)
	})
}

// RenderBiomeMap draws a biome raster, coloring each distinct biome index
// deterministically.
func RenderBiomeMap(biome []uint8, size int, opts Options) ([]byte, error) {
	if len(biome) != size*size {
		return nil, fmt.Errorf("debugsvg: biome raster length %d does not match size %d", len(biome), size)
	}
	return render(size, opts, func(x, z int) string {
		return biomeColor(biome[z*size+x])
	})
}

// RenderRiverOverlay draws height as grayscale with river cells highlighted
// in blue, the most common operator visual check for carving correctness.
func RenderRiverOverlay(height []float32, river []uint8, size int, opts Options) ([]byte, error) {
	if len(height) != size*size || len(river) != size*size {
		return nil, fmt.Errorf("debugsvg: raster length mismatch for size %d", size)
	}
	return render(size, opts, func(x, z int) string {
		idx := z*size + x
		if river[idx] != 0 {
			return "fill:rgb(40,90,220)"
		}
		v := height[idx]
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		gray := int(v * 200)
		return fmt.Sprintf("fill:rgb(%d,%d,%d)", gray, gray, gray)
	})
}

func render(size int, opts Options, cellStyle func(x, z int) string) ([]byte, error) {
	if opts.CellSize <= 0 {
		opts.CellSize = 2
	}
	cells := size
	if opts.MaxCells > 0 && opts.MaxCells < cells {
		cells = opts.MaxCells
	}
	stride := size / cells
	if stride <= 0 {
		stride = 1
	}

	dim := cells * opts.CellSize
	buf := new(bytes.Buffer)
	canvas := svg.New(buf)
	canvas.Start(dim, dim)
	canvas.Rect(0, 0, dim, dim, "fill:#000")

	for row := 0; row < cells; row++ {
		z := row * stride
		if z >= size {
			z = size - 1
		}
		for col := 0; col < cells; col++ {
			x := col * stride
			if x >= size {
				x = size - 1
			}
			canvas.Rect(col*opts.CellSize, row*opts.CellSize, opts.CellSize, opts.CellSize, cellStyle(x, z))
		}
	}

	canvas.End()
	return buf.Bytes(), nil
}

func biomeColor(b uint8) string {
	palette := []string{
		"#3d5c3a", "#c2b280", "#6b8e4e", "#e8e4c9",
		"#4a6b8a", "#8a4a4a", "#a0a0a0", "#2f4f2f",
	}
	return "fill:" + palette[int(b)%len(palette)]
}
