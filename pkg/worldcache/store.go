package worldcache

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"github.com/dshills/svdagen/pkg/svdagerr"
)

// Store wires together the on-disk layout, atomic writes, in-memory LRU
// residency caps, and single-flight deduplication that the super-chunk and
// stream-chunk generators share.
type Store struct {
	Root string

	SuperChunks *LRU
	Chunks      *LRU

	superChunkFlight *SingleFlight
	chunkFlight      *SingleFlight
}

// NewStore creates a Store rooted at root, with the given in-memory
// residency caps for each tier.
func NewStore(root string, superChunkCap, chunkCap int) *Store {
	return &Store{
		Root:             root,
		SuperChunks:      NewLRU(superChunkCap),
		Chunks:           NewLRU(chunkCap),
		superChunkFlight: NewSingleFlight(),
		chunkFlight:      NewSingleFlight(),
	}
}

// SuperChunkFlight returns the single-flight group guarding concurrent
// super-chunk generation for the same key.
func (s *Store) SuperChunkFlight() *SingleFlight { return s.superChunkFlight }

// ChunkFlight returns the single-flight group guarding concurrent
// stream-chunk generation for the same key.
func (s *Store) ChunkFlight() *SingleFlight { return s.chunkFlight }

// ReadFile reads path, returning (nil, false, nil) on a plain not-found
// (cache miss, not fatal) and an error for anything
// else.
func ReadFile(path string) ([]byte, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, true, nil
}

// WriteF32Raster serializes a little-endian float32 raster to path
// atomically.
func WriteF32Raster(path string, values []float32) error {
	buf := make([]byte, 4*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(v))
	}
	return WriteFileAtomic(path, buf, 0644)
}

// ReadF32Raster deserializes a little-endian float32 raster, reporting
// CacheCorruption if the byte length is not a multiple of 4.
func ReadF32Raster(path string) ([]float32, bool, error) {
	data, ok, err := ReadFile(path)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(data)%4 != 0 {
		return nil, true, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("%s: length %d is not a multiple of 4", path, len(data)))
	}
	out := make([]float32, len(data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[4*i:]))
	}
	return out, true, nil
}

// WriteU8Raster writes a raw byte raster atomically.
func WriteU8Raster(path string, values []uint8) error {
	return WriteFileAtomic(path, values, 0644)
}

// ReadU8Raster reads a raw byte raster.
func ReadU8Raster(path string) ([]uint8, bool, error) {
	return ReadFile(path)
}

// WriteU16Raster serializes a little-endian uint16 raster atomically.
func WriteU16Raster(path string, values []uint16) error {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], v)
	}
	return WriteFileAtomic(path, buf, 0644)
}

// ReadU16Raster deserializes a little-endian uint16 raster, reporting
// CacheCorruption if the byte length is odd.
func ReadU16Raster(path string) ([]uint16, bool, error) {
	data, ok, err := ReadFile(path)
	if err != nil || !ok {
		return nil, ok, err
	}
	if len(data)%2 != 0 {
		return nil, true, svdagerr.New(svdagerr.ErrCacheCorruption, fmt.Sprintf("%s: length %d is not a multiple of 2", path, len(data)))
	}
	out := make([]uint16, len(data)/2)
	for i := range out {
		out[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return out, true, nil
}
