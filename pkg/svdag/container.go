package svdag

import (
	"encoding/binary"
	"fmt"

	"github.com/dshills/svdagen/pkg/svdagerr"
)

// Magic is the ASCII "SVDA" container magic number.
const Magic uint32 = 0x41445653

// Version is the current dual-DAG container format version.
const Version uint32 = 2

// HeaderSize is the fixed header length in bytes.
const HeaderSize = 40

// FlagHasOpaque marks bit 0 of the header's flags field.
const FlagHasOpaque uint32 = 1 << 0

// Chunk holds both SVDAGs produced for one 32^3 voxel slab.
type Chunk struct {
	ChunkSize int
	Material  *DAG
	Opaque    *DAG
	HasOpaque bool
}

// Encode serializes chunk to the binary container format: a 40-byte header
// followed by material node words, material leaf words, opaque node
// words, and trailing opaque leaf
// words filling the remainder of the buffer.
func Encode(c *Chunk) []byte {
	matNodes := c.Material.Nodes
	matLeaves := c.Material.Leaves

	var opqNodes, opqLeaves []uint32
	var opqRoot uint32
	flags := uint32(0)
	if c.HasOpaque && c.Opaque != nil {
		opqNodes = c.Opaque.Nodes
		opqLeaves = c.Opaque.Leaves
		opqRoot = c.Opaque.Root
		flags |= FlagHasOpaque
	}

	total := HeaderSize + 4*(len(matNodes)+len(matLeaves)+len(opqNodes)+len(opqLeaves))
	buf := make([]byte, total)

	binary.LittleEndian.PutUint32(buf[0:4], Magic)
	binary.LittleEndian.PutUint32(buf[4:8], Version)
	binary.LittleEndian.PutUint32(buf[8:12], uint32(c.ChunkSize))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(len(matNodes)))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(len(matLeaves)))
	binary.LittleEndian.PutUint32(buf[20:24], c.Material.Root)
	binary.LittleEndian.PutUint32(buf[24:28], flags)
	binary.LittleEndian.PutUint32(buf[28:32], 0) // checksum: reserved
	binary.LittleEndian.PutUint32(buf[32:36], opqRoot)
	binary.LittleEndian.PutUint32(buf[36:40], uint32(len(opqNodes)))

	off := HeaderSize
	off = putWords(buf, off, matNodes)
	off = putWords(buf, off, matLeaves)
	off = putWords(buf, off, opqNodes)
	putWords(buf, off, opqLeaves)

	return buf
}

func putWords(buf []byte, off int, words []uint32) int {
	for _, w := range words {
		binary.LittleEndian.PutUint32(buf[off:off+4], w)
		off += 4
	}
	return off
}

// Decode parses the binary container format, validating the header before
// trusting any length-derived slice. Any structural problem (short buffer,
// bad magic, version mismatch, truncated section) is reported as
// CacheCorruption so callers can quarantine-and-recompute.
func Decode(buf []byte) (*Chunk, error) {
	if len(buf) < HeaderSize {
		return nil, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("buffer too short for header: %d bytes", len(buf)))
	}

	magic := binary.LittleEndian.Uint32(buf[0:4])
	if magic != Magic {
		return nil, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("bad magic 0x%x", magic))
	}
	version := binary.LittleEndian.Uint32(buf[4:8])
	if version != Version {
		return nil, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("unsupported version %d", version))
	}

	chunkSize := binary.LittleEndian.Uint32(buf[8:12])
	matNodeCount := binary.LittleEndian.Uint32(buf[12:16])
	matLeafCount := binary.LittleEndian.Uint32(buf[16:20])
	matRootIdx := binary.LittleEndian.Uint32(buf[20:24])
	flags := binary.LittleEndian.Uint32(buf[24:28])
	opqRootIdx := binary.LittleEndian.Uint32(buf[32:36])
	opqNodeCount := binary.LittleEndian.Uint32(buf[36:40])

	off := HeaderSize
	matNodes, off, err := takeWords(buf, off, int(matNodeCount))
	if err != nil {
		return nil, err
	}
	matLeaves, off, err := takeWords(buf, off, int(matLeafCount))
	if err != nil {
		return nil, err
	}
	opqNodes, off, err := takeWords(buf, off, int(opqNodeCount))
	if err != nil {
		return nil, err
	}

	remaining := len(buf) - off
	if remaining < 0 || remaining%4 != 0 {
		return nil, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("trailing opaque leaf section is not word-aligned: %d bytes remain", remaining))
	}
	opqLeafCount := remaining / 4
	opqLeaves, _, err := takeWords(buf, off, opqLeafCount)
	if err != nil {
		return nil, err
	}

	c := &Chunk{
		ChunkSize: int(chunkSize),
		Material:  &DAG{Nodes: matNodes, Leaves: matLeaves, Root: matRootIdx},
	}
	if flags&FlagHasOpaque != 0 {
		c.HasOpaque = true
		c.Opaque = &DAG{Nodes: opqNodes, Leaves: opqLeaves, Root: opqRootIdx}
	}
	return c, nil
}

func takeWords(buf []byte, off, count int) ([]uint32, int, error) {
	if count < 0 {
		return nil, off, svdagerr.New(svdagerr.ErrCacheCorruption, "negative word count in header")
	}
	end := off + 4*count
	if end > len(buf) {
		return nil, off, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("truncated buffer: need %d bytes at offset %d, have %d", 4*count, off, len(buf)))
	}
	words := make([]uint32, count)
	for i := 0; i < count; i++ {
		words[i] = binary.LittleEndian.Uint32(buf[off : off+4])
		off += 4
	}
	return words, off, nil
}
