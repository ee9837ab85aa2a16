// Package superchunk generates and caches 512x512 regional rasters: height,
// biome, block/material, and river. For a given region it runs the
// configured node graph once at 512x512 resolution, extracts the four
// sink rasters, carves rivers across the full extent, and persists the
// result under the two-tier cache.
package superchunk
