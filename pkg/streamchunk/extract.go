package streamchunk

import "github.com/dshills/svdagen/pkg/superchunk"

// Size is the voxel chunk's edge length.
const Size = 32

// SuperChunksPerAxis is how many chunk columns one super chunk spans along
// each horizontal axis.
const SuperChunksPerAxis = 16

// HMax is the denormalization factor applied to a [0,1] height sample.
const HMax = 256

// SeaLevel is half of HMax.
const SeaLevel = HMax / 2

// WaterMaterial is the material id used to fill below sea level and river
// channels.
const WaterMaterial uint16 = 6

// DefaultSolidMaterial is substituted when the super chunk's block raster
// carries material id 0 (air) at a column that should be solid.
const DefaultSolidMaterial uint16 = 1

// SuperChunkCoords resolves the super chunk owning chunk column (cx, cz)
// using floor division.
func SuperChunkCoords(cx, cz int) (sx, sz int) {
	return floorDiv(cx, SuperChunksPerAxis), floorDiv(cz, SuperChunksPerAxis)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// wrapIndex maps a global column coordinate into the super chunk's 512-wide
// raster index, clamping at the edge on overflow (modulo 512, clamped at 511).
func wrapIndex(global int) int {
	idx := global % superchunk.Size
	if idx < 0 {
		idx += superchunk.Size
	}
	if idx >= superchunk.Size {
		idx = superchunk.Size - 1
	}
	return idx
}

// ExtractGrid materializes the 32^3 material grid for chunk (cx, cy, cz)
// from the owning super chunk's rasters, following the documented vertical
// fill rule.
func ExtractGrid(sc *superchunk.SuperChunk, cx, cy, cz int) []uint16 {
	grid := make([]uint16, Size*Size*Size)

	for z := 0; z < Size; z++ {
		globalZ := cz*Size + z
		rz := wrapIndex(globalZ)
		for x := 0; x < Size; x++ {
			globalX := cx*Size + x
			rx := wrapIndex(globalX)

			rasterIdx := rz*superchunk.Size + rx
			h := float64(sc.HeightMap[rasterIdx]) * HMax
			block := sc.BlockMap[rasterIdx]
			river := sc.RiverMap[rasterIdx] > 0

			for y := 0; y < Size; y++ {
				worldY := float64(cy*Size + y)
				idx := (z*Size+y)*Size + x

				switch {
				case worldY < h:
					m := block
					if m == 0 {
						m = DefaultSolidMaterial
					}
					grid[idx] = m
				case worldY < SeaLevel:
					grid[idx] = WaterMaterial
				case river && worldY < h+5:
					grid[idx] = WaterMaterial
				default:
					grid[idx] = 0
				}
			}
		}
	}

	return grid
}
