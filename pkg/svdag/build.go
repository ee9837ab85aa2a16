package svdag

import (
	"fmt"
	"strconv"
	"strings"
)

// builder accumulates the node stream and leaf array while deduplicating
// structurally identical subtrees.
type builder struct {
	grid Grid

	nodes  []uint32
	leaves []uint32

	leafIndexByValue map[uint32]int    // block id -> leaf slot
	leafNodeOffset   map[int]uint32    // leaf slot -> its [tag=1, leafIndex] entry offset
	interiorOffset   map[string]uint32 // (mask, children...) key -> entry offset
}

// Build constructs the SVDAG for grid. size must be a power of two; grid.Size
// must equal size.
func Build(grid Grid, size int) (*DAG, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("svdag: size %d must be a power of two", size)
	}
	if grid.Size != size {
		return nil, fmt.Errorf("svdag: grid size %d does not match requested size %d", grid.Size, size)
	}

	b := &builder{
		grid:             grid,
		leafIndexByValue: make(map[uint32]int),
		leafNodeOffset:   make(map[int]uint32),
		interiorOffset:   make(map[string]uint32),
	}

	root, err := b.buildNode(0, 0, 0, size)
	if err != nil {
		return nil, err
	}

	return &DAG{Nodes: b.nodes, Leaves: b.leaves, Root: root}, nil
}

// leafIndexFor returns the deduplicated leaf slot for value, allocating one
// on first use.
func (b *builder) leafIndexFor(value uint32) int {
	if idx, ok := b.leafIndexByValue[value]; ok {
		return idx
	}
	idx := len(b.leaves)
	b.leaves = append(b.leaves, value)
	b.leafIndexByValue[value] = idx
	return idx
}

// leafNodeFor returns the (deduplicated) node-stream offset of the
// [tag=1, leafIndex] entry for value, appending one on first use.
func (b *builder) leafNodeFor(value uint32) uint32 {
	leafIdx := b.leafIndexFor(value)
	if off, ok := b.leafNodeOffset[leafIdx]; ok {
		return off
	}
	off := uint32(len(b.nodes))
	b.nodes = append(b.nodes, NodeTagLeaf, uint32(leafIdx))
	b.leafNodeOffset[leafIdx] = off
	return off
}

// octantOffset returns the local (dx, dy, dz) origin offset for octant o
// under the convention bit0=+x, bit1=+y, bit2=+z.
func octantOffset(o, half int) (dx, dy, dz int) {
	if o&1 != 0 {
		dx = half
	}
	if (o>>1)&1 != 0 {
		dy = half
	}
	if (o>>2)&1 != 0 {
		dz = half
	}
	return
}

func (b *builder) buildNode(x, y, z, s int) (uint32, error) {
	if s == 1 {
		value := uint32(b.grid.At(x, y, z))
		return b.leafNodeFor(value), nil
	}

	half := s / 2
	var childOffsets [8]uint32
	for o := 0; o < 8; o++ {
		dx, dy, dz := octantOffset(o, half)
		off, err := b.buildNode(x+dx, y+dy, z+dz, half)
		if err != nil {
			return 0, err
		}
		childOffsets[o] = off
	}

	if allSameLeaf, leafOff := b.allChildrenSameLeaf(childOffsets); allSameLeaf {
		return leafOff, nil
	}

	return b.buildInterior(childOffsets), nil
}

// allChildrenSameLeaf reports whether all 8 children are leaf entries
// carrying the same leaf index, enabling the subtree-uniformity collapse.
func (b *builder) allChildrenSameLeaf(children [8]uint32) (bool, uint32) {
	firstLeafIdx, ok := b.leafIndexIfLeaf(children[0])
	if !ok {
		return false, 0
	}
	for i := 1; i < 8; i++ {
		idx, ok := b.leafIndexIfLeaf(children[i])
		if !ok || idx != firstLeafIdx {
			return false, 0
		}
	}
	return true, children[0]
}

func (b *builder) leafIndexIfLeaf(off uint32) (int, bool) {
	if b.nodes[off] != NodeTagLeaf {
		return 0, false
	}
	return int(b.nodes[off+1]), true
}

// buildInterior constructs (or reuses, via dedup) an interior node entry
// whose mask bit o is set iff children[o]'s subtree is not the global empty
// leaf (block id 0).
func (b *builder) buildInterior(children [8]uint32) uint32 {
	var mask uint32
	participating := make([]uint32, 0, 8)
	for o := 0; o < 8; o++ {
		if b.participates(children[o]) {
			mask |= 1 << uint(o)
			participating = append(participating, children[o])
		}
	}

	key := interiorKey(mask, participating)
	if off, ok := b.interiorOffset[key]; ok {
		return off
	}

	off := uint32(len(b.nodes))
	b.nodes = append(b.nodes, NodeTagInterior, mask)
	b.nodes = append(b.nodes, participating...)
	b.interiorOffset[key] = off
	return off
}

// participates reports whether the child at off should be included in its
// parent's mask: interior subtrees always participate (mask==0 is forbidden
// for interior nodes); leaf subtrees participate unless they carry the
// empty (block id 0) value.
func (b *builder) participates(off uint32) bool {
	if b.nodes[off] != NodeTagLeaf {
		return true
	}
	leafIdx := b.nodes[off+1]
	return b.leaves[leafIdx] != 0
}

func interiorKey(mask uint32, children []uint32) string {
	var sb strings.Builder
	sb.WriteString(strconv.FormatUint(uint64(mask), 16))
	for _, c := range children {
		sb.WriteByte(':')
		sb.WriteString(strconv.FormatUint(uint64(c), 16))
	}
	return sb.String()
}
