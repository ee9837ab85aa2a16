// Package streamchunk builds the 32-cubed voxel slab for one chunk
// coordinate, extracting its column data from the owning super chunk,
// materializing voxels by the documented vertical fill rule, and
// constructing the material and opaque SVDAGs that are encoded into the
// binary container format.
package streamchunk
