// Package worldcfg loads the two JSON documents that describe a world (the
// material table and spawn point, and the procedural node graph) plus a
// YAML server configuration for ambient concerns the world format itself
// does not cover (cache roots, LRU budgets, GPU submission serialization).
package worldcfg
