// Package rng provides deterministic random number generation for the voxel
// world pipeline.
//
// # Overview
//
// The RNG type ensures reproducible chunk and super-chunk generation by
// deriving stage-specific seeds from a master (world) seed. This allows each
// pipeline stage (graph execution, river carving, per-peak target selection)
// to have independent random sequences while the whole pipeline stays
// deterministic in (worldSeed, region/chunk coordinates, config).
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: the world seed
//   - stageName: pipeline stage identifier (e.g. "superchunk_3_-1", "river_peak_7")
//   - configHash: hash of the relevant configuration parameters
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different stages/regions get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG for each region or carving decision:
//
//	configHash := sha256.Sum256([]byte(graphDescriptorJSON))
//	regionRNG := rng.NewRNG(worldSeed, fmt.Sprintf("superchunk_%d_%d", sx, sz), configHash[:])
//	peakRNG := rng.NewRNG(worldSeed, fmt.Sprintf("superchunk_%d_%d_peak_%d", sx, sz, i), configHash[:])
//
// Use the RNG for all random decisions in that stage:
//
//	if peakRNG.Float64() < 0.3 {
//	    // this peak spawns a river
//	}
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each goroutine should use its own RNG
// instance. Create stage-specific RNGs before spawning goroutines and pass
// them explicitly.
//
// # Performance
//
// The underlying math/rand.Rand is highly efficient:
//   - Intn():   ~3ns per call
//   - Float64(): ~2ns per call
//
// Creating a new RNG costs ~8µs due to SHA-256 computation. Reuse RNG
// instances within a stage for best performance.
package rng
