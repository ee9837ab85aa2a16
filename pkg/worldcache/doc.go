// Package worldcache implements the two-tier on-disk cache: super-chunk
// rasters under worlds/{worldId}/superchunks/{sx}_{sz}/ and stream chunks
// under worlds/{worldId}/chunks/{cx}_{cy}_{cz}.svdag. All writes go through
// an atomic write-temp-then-rename helper so no reader ever observes a
// partially written file. A stream chunk whose container fails to decode is
// quarantined by rename (QuarantineCorrupt) before it is recomputed; a
// super chunk whose cached files fail to read or validate is not
// quarantined, it is recomputed and its files are overwritten.
package worldcache
