// Package svdag builds a Sparse Voxel Directed Acyclic Graph over a cubic
// grid of material ids and encodes/decodes the packed binary container used
// to stream it to rendering clients.
//
// An octree is built top-down over the grid; structurally identical
// subtrees (same mask and child-index tuple, or the same leaf block id) are
// deduplicated into a single node, turning the tree into a DAG. The packed
// node stream mixes interior entries ([tag=0, mask, child_idx...]) and leaf
// entries ([tag=1, leaf_index]) in one array so that a root index always
// resolves against the same stream regardless of whether the chunk is
// uniform.
package svdag
