package superchunk

import (
	"fmt"
	"sort"

	"github.com/dshills/svdagen/pkg/rng"
)

const (
	peakThreshold = 0.7
	sinkThreshold = 0.3
	targetProb    = 0.3
	maxPathSteps  = 1000
	channelDepth  = 0.002
)

type cell struct{ x, z int }

// carveRivers mutates height and river in place, implementing the
// peak-to-sink greedy-descent algorithm. worldSeed/worldID/sx/sz/peak-index
// seed a deterministic per-peak RNG so target selection is reproducible
// without a process-wide random source.
func carveRivers(height []float32, river []uint8, worldSeed uint64, worldID string, sx, sz int) {
	peaks := findPeaks(height)
	sinks := findSinks(height)
	if len(sinks) == 0 {
		return
	}

	for i, p := range peaks {
		seedName := fmt.Sprintf("river:%s:%d:%d:%d", worldID, sx, sz, i)
		r := rng.NewRNG(worldSeed, seedName, nil)
		if r.Float64() >= targetProb {
			continue
		}
		target := nearestSink(p, sinks)
		path := descend(height, p, target)
		carvePath(height, river, path)
	}
}

// findPeaks returns interior cells whose height is >= peakThreshold and
// strictly exceeds all 8 neighbors, sorted by (z, x) for deterministic
// processing order.
func findPeaks(height []float32) []cell {
	var peaks []cell
	for z := 1; z < Size-1; z++ {
		for x := 1; x < Size-1; x++ {
			h := height[z*Size+x]
			if h < peakThreshold {
				continue
			}
			if isStrictLocalMax(height, x, z, h) {
				peaks = append(peaks, cell{x, z})
			}
		}
	}
	sort.Slice(peaks, func(i, j int) bool {
		if peaks[i].z != peaks[j].z {
			return peaks[i].z < peaks[j].z
		}
		return peaks[i].x < peaks[j].x
	})
	return peaks
}

func isStrictLocalMax(height []float32, x, z int, h float32) bool {
	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			if height[(z+dz)*Size+(x+dx)] >= h {
				return false
			}
		}
	}
	return true
}

// findSinks returns every cell with height below sinkThreshold.
func findSinks(height []float32) []cell {
	var sinks []cell
	for z := 0; z < Size; z++ {
		for x := 0; x < Size; x++ {
			if height[z*Size+x] < sinkThreshold {
				sinks = append(sinks, cell{x, z})
			}
		}
	}
	return sinks
}

func nearestSink(from cell, sinks []cell) cell {
	best := sinks[0]
	bestDist := manhattan(from, best)
	for _, s := range sinks[1:] {
		d := manhattan(from, s)
		if d < bestDist {
			bestDist = d
			best = s
		}
	}
	return best
}

func manhattan(a, b cell) int {
	dx := a.x - b.x
	if dx < 0 {
		dx = -dx
	}
	dz := a.z - b.z
	if dz < 0 {
		dz = -dz
	}
	return dx + dz
}

// descend performs greedy steepest-descent on the 8-neighborhood from start
// toward target, terminating at a local pit, at target, or after
// maxPathSteps. Not a true shortest-cost search, matching the documented
// behavior of the system this carving rule is derived from.
func descend(height []float32, start, target cell) []cell {
	visited := map[cell]bool{start: true}
	path := []cell{start}
	current := start

	for steps := 0; steps < maxPathSteps; steps++ {
		if current == target {
			break
		}
		next, ok := lowestUnvisitedNeighbor(height, current, visited)
		if !ok || height[next.z*Size+next.x] >= height[current.z*Size+current.x] {
			break // local pit: no unvisited neighbor is strictly lower
		}
		visited[next] = true
		path = append(path, next)
		current = next
	}
	return path
}

func lowestUnvisitedNeighbor(height []float32, c cell, visited map[cell]bool) (cell, bool) {
	found := false
	var best cell
	var bestHeight float32

	for dz := -1; dz <= 1; dz++ {
		for dx := -1; dx <= 1; dx++ {
			if dx == 0 && dz == 0 {
				continue
			}
			nx, nz := c.x+dx, c.z+dz
			if nx < 0 || nx >= Size || nz < 0 || nz >= Size {
				continue
			}
			n := cell{nx, nz}
			if visited[n] {
				continue
			}
			h := height[nz*Size+nx]
			if !found || h < bestHeight {
				found = true
				best = n
				bestHeight = h
			}
		}
	}
	return best, found
}

// carvePath marks every cell on path as river and lowers its height by
// channelDepth in normalized [0,1] space, saturating at 0. Later rivers
// observe earlier carved channels because height is mutated in place.
func carvePath(height []float32, river []uint8, path []cell) {
	for _, c := range path {
		idx := c.z*Size + c.x
		river[idx] = 1
		h := height[idx] - channelDepth
		if h < 0 {
			h = 0
		}
		height[idx] = h
	}
}
