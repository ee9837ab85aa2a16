package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dshills/svdagen/pkg/portgraph"
	"github.com/dshills/svdagen/pkg/streamchunk"
	"github.com/dshills/svdagen/pkg/superchunk"
	"github.com/dshills/svdagen/pkg/svdag"
	"github.com/dshills/svdagen/pkg/worldcache"
	"github.com/dshills/svdagen/pkg/worldcfg"
	"github.com/dshills/svdagen/pkg/worldcfg/debugsvg"
)

const version = "1.0.0"

// chunkCoords collects repeated -chunk cx,cy,cz flags.
type chunkCoords [][3]int

func (c *chunkCoords) String() string {
	if c == nil {
		return ""
	}
	parts := make([]string, len(*c))
	for i, v := range *c {
		parts[i] = fmt.Sprintf("%d,%d,%d", v[0], v[1], v[2])
	}
	return strings.Join(parts, " ")
}

func (c *chunkCoords) Set(value string) error {
	coord, err := parseTriple(value)
	if err != nil {
		return fmt.Errorf("invalid -chunk value %q: %w", value, err)
	}
	*c = append(*c, coord)
	return nil
}

func parseTriple(value string) ([3]int, error) {
	fields := strings.Split(value, ",")
	if len(fields) != 3 {
		return [3]int{}, fmt.Errorf("expected cx,cy,cz")
	}
	var out [3]int
	for i, f := range fields {
		n, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return [3]int{}, fmt.Errorf("field %d: %w", i, err)
		}
		out[i] = n
	}
	return out, nil
}

func parsePair(value string) (int, int, error) {
	fields := strings.Split(value, ",")
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("expected sx,sz")
	}
	sx, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("field 0: %w", err)
	}
	sz, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("field 1: %w", err)
	}
	return sx, sz, nil
}

var (
	worldDir       string
	chunks         chunkCoords
	superChunkFlag string
	manifestFlag   bool
	invalidateFlag string
	debugSVGFlag   bool
	outputDir      string
	verbose        bool
	versionF       bool
	help           bool
)

func init() {
	flag.StringVar(&worldDir, "world", "", "Path to the world directory (required)")
	flag.Var(&chunks, "chunk", "Stream chunk coordinates cx,cy,cz (repeatable)")
	flag.StringVar(&superChunkFlag, "superchunk", "", "Super chunk coordinates sx,sz")
	flag.BoolVar(&manifestFlag, "manifest", false, "Print the GET-manifest JSON and exit")
	flag.StringVar(&invalidateFlag, "invalidate", "", "Invalidate a cache entry: chunk:cx,cy,cz or superchunk:sx,sz")
	flag.BoolVar(&debugSVGFlag, "debug-svg", false, "Render debug SVGs for the requested super chunk")
	flag.StringVar(&outputDir, "output", ".", "Output directory for -debug-svg")
	flag.BoolVar(&verbose, "verbose", false, "Enable verbose output")
	flag.BoolVar(&versionF, "version", false, "Print version and exit")
	flag.BoolVar(&help, "help", false, "Show help message")
}

func main() {
	flag.Parse()

	if versionF {
		fmt.Printf("svdagen version %s\n", version)
		os.Exit(0)
	}
	if help {
		printHelp()
		os.Exit(0)
	}
	if worldDir == "" {
		fmt.Fprintln(os.Stderr, "Error: -world flag is required")
		printUsage()
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	worldDir = filepath.Clean(worldDir)
	worldID := filepath.Base(worldDir)

	serverCfg, err := loadServerConfig(worldDir)
	if err != nil {
		return fmt.Errorf("loading server config: %w", err)
	}

	worldCfg, err := loadWorldConfig(worldDir)
	if err != nil {
		return fmt.Errorf("loading world config: %w", err)
	}

	graph, err := loadGraphDescriptor(worldDir)
	if err != nil {
		return fmt.Errorf("loading graph descriptor: %w", err)
	}

	if verbose {
		fmt.Printf("World %q, seed=%d, cache root=%s\n", worldID, worldCfg.Seed, serverCfg.CacheRoot)
	}

	store := worldcache.NewStore(serverCfg.CacheRoot, serverCfg.SuperChunkLRUEntries, serverCfg.StreamChunkLRUEntries)
	registry := portgraph.NewDefaultRegistry()
	scGen := superchunk.NewGenerator(store, registry)
	chunkGen := streamchunk.NewGenerator(store, scGen, worldCfg)

	if manifestFlag {
		return printManifest(worldID, worldCfg)
	}

	if invalidateFlag != "" {
		return runInvalidate(store, worldID)
	}

	if superChunkFlag != "" {
		if err := runSuperChunk(scGen, worldID, worldCfg.Seed, graph); err != nil {
			return err
		}
	}

	if len(chunks) > 0 {
		if err := runChunks(chunkGen, worldID, worldCfg.Seed, graph); err != nil {
			return err
		}
	}

	if superChunkFlag == "" && len(chunks) == 0 && invalidateFlag == "" {
		fmt.Fprintln(os.Stderr, "Error: nothing to do; supply -chunk, -superchunk, -manifest, or -invalidate")
		printUsage()
		os.Exit(1)
	}

	return nil
}

func loadServerConfig(worldDir string) (*worldcfg.ServerConfig, error) {
	path := filepath.Join(worldDir, "server.yaml")
	if _, err := os.Stat(path); err != nil {
		cfg := worldcfg.DefaultServerConfig()
		cfg.CacheRoot = filepath.Join(worldDir, "cache")
		return cfg, nil
	}
	return worldcfg.LoadServerConfig(path)
}

func loadWorldConfig(worldDir string) (*worldcfg.WorldConfig, error) {
	path := filepath.Join(worldDir, "world.json")
	if _, err := os.Stat(path); err != nil {
		return worldcfg.DefaultWorldConfig(0), nil
	}
	return worldcfg.LoadWorldConfig(path)
}

func loadGraphDescriptor(worldDir string) (*portgraph.Graph, error) {
	path := filepath.Join(worldDir, "graph.json")
	if _, err := os.Stat(path); err != nil {
		return worldcfg.DefaultGraphDescriptor(), nil
	}
	return worldcfg.LoadGraphDescriptor(path)
}

func printManifest(worldID string, cfg *worldcfg.WorldConfig) error {
	manifest := map[string]interface{}{
		"worldId":        worldID,
		"seed":           cfg.Seed,
		"chunkSize":      streamchunk.Size,
		"superChunkSize": superchunk.Size,
		"materials":      cfg.Materials,
		"spawnPoint":     cfg.SpawnPoint,
		"version":        svdag.Version,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func runInvalidate(store *worldcache.Store, worldID string) error {
	kind, coords, ok := strings.Cut(invalidateFlag, ":")
	if !ok {
		return fmt.Errorf("invalid -invalidate value %q: expected kind:coords", invalidateFlag)
	}

	switch kind {
	case "chunk":
		c, err := parseTriple(coords)
		if err != nil {
			return fmt.Errorf("invalid chunk coords: %w", err)
		}
		key := worldcache.ChunkKey(worldID, c[0], c[1], c[2])
		store.Chunks.Remove(key)
		path := worldcache.ChunkPath(store.Root, worldID, c[0], c[1], c[2])
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", path, err)
		}
		if verbose {
			fmt.Printf("Invalidated chunk (%d,%d,%d)\n", c[0], c[1], c[2])
		}
	case "superchunk":
		sx, sz, err := parsePair(coords)
		if err != nil {
			return fmt.Errorf("invalid superchunk coords: %w", err)
		}
		key := worldcache.SuperChunkKey(worldID, sx, sz)
		store.SuperChunks.Remove(key)
		dir := worldcache.SuperChunkDir(store.Root, worldID, sx, sz)
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("removing %s: %w", dir, err)
		}
		if verbose {
			fmt.Printf("Invalidated super chunk (%d,%d)\n", sx, sz)
		}
	default:
		return fmt.Errorf("invalid -invalidate kind %q: must be chunk or superchunk", kind)
	}
	return nil
}

func runSuperChunk(gen *superchunk.Generator, worldID string, seed uint64, graph *portgraph.Graph) error {
	sx, sz, err := parsePair(superChunkFlag)
	if err != nil {
		return fmt.Errorf("invalid -superchunk value %q: %w", superChunkFlag, err)
	}

	start := time.Now()
	sc, err := gen.Generate(worldID, sx, sz, graph, seed)
	if err != nil {
		return fmt.Errorf("generating super chunk (%d,%d): %w", sx, sz, err)
	}
	if verbose {
		fmt.Printf("Generated super chunk (%d,%d) in %v\n", sx, sz, time.Since(start))
	}

	if debugSVGFlag {
		return writeDebugSVGs(sc, sx, sz)
	}
	return nil
}

func writeDebugSVGs(sc *superchunk.SuperChunk, sx, sz int) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := debugsvg.DefaultOptions()
	base := fmt.Sprintf("superchunk_%d_%d", sx, sz)

	heightSVG, err := debugsvg.RenderHeightMap(sc.HeightMap, superchunk.Size, opts)
	if err != nil {
		return fmt.Errorf("rendering height map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, base+"_height.svg"), heightSVG, 0644); err != nil {
		return fmt.Errorf("writing height svg: %w", err)
	}

	biomeSVG, err := debugsvg.RenderBiomeMap(sc.BiomeMap, superchunk.Size, opts)
	if err != nil {
		return fmt.Errorf("rendering biome map: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, base+"_biome.svg"), biomeSVG, 0644); err != nil {
		return fmt.Errorf("writing biome svg: %w", err)
	}

	riverSVG, err := debugsvg.RenderRiverOverlay(sc.HeightMap, sc.RiverMap, superchunk.Size, opts)
	if err != nil {
		return fmt.Errorf("rendering river overlay: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outputDir, base+"_river.svg"), riverSVG, 0644); err != nil {
		return fmt.Errorf("writing river svg: %w", err)
	}

	if verbose {
		fmt.Printf("Wrote debug SVGs to %s\n", outputDir)
	}
	return nil
}

func runChunks(gen *streamchunk.Generator, worldID string, seed uint64, graph *portgraph.Graph) error {
	var wg sync.WaitGroup
	errs := make([]error, len(chunks))

	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c [3]int) {
			defer wg.Done()
			start := time.Now()
			sc, err := gen.Generate(worldID, c[0], c[1], c[2], graph, seed)
			if err != nil {
				errs[i] = fmt.Errorf("generating chunk (%d,%d,%d): %w", c[0], c[1], c[2], err)
				return
			}
			if verbose {
				fmt.Printf("Generated chunk (%d,%d,%d) in %v (%d material nodes)\n",
					c[0], c[1], c[2], time.Since(start), len(sc.Container.Material.Nodes))
			}
		}(i, c)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: svdagen -world <dir> [-chunk cx,cy,cz]... [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'svdagen -help' for detailed help")
}

func printHelp() {
	fmt.Printf("svdagen version %s\n\n", version)
	fmt.Println("A command-line driver for the voxel world chunk-streaming core.")
	fmt.Println("\nUsage:")
	fmt.Println("  svdagen -world <dir> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -world string")
	fmt.Println("        Path to the world directory (holds world.json, graph.json, server.yaml)")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -chunk cx,cy,cz")
	fmt.Println("        Generate the stream chunk at these coordinates (repeatable)")
	fmt.Println("  -superchunk sx,sz")
	fmt.Println("        Generate the super chunk at these coordinates")
	fmt.Println("  -manifest")
	fmt.Println("        Print the GET-manifest JSON and exit")
	fmt.Println("  -invalidate string")
	fmt.Println("        Invalidate a cache entry: chunk:cx,cy,cz or superchunk:sx,sz")
	fmt.Println("  -debug-svg")
	fmt.Println("        Render debug SVGs for the requested super chunk (with -superchunk)")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for -debug-svg (default: current directory)")
	fmt.Println("  -verbose")
	fmt.Println("        Enable verbose output")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Generate a single stream chunk")
	fmt.Println("  svdagen -world ./worlds/overworld -chunk 0,4,0")
	fmt.Println("\n  # Generate several chunks concurrently, verbosely")
	fmt.Println("  svdagen -world ./worlds/overworld -chunk 0,4,0 -chunk 1,4,0 -verbose")
	fmt.Println("\n  # Render debug SVGs for a super chunk")
	fmt.Println("  svdagen -world ./worlds/overworld -superchunk 0,0 -debug-svg -output ./out")
	fmt.Println("\n  # Print the GET manifest")
	fmt.Println("  svdagen -world ./worlds/overworld -manifest")
	fmt.Println("\nWorld Directory:")
	fmt.Println("  world.json    - seed, material table, spawn point")
	fmt.Println("  graph.json    - node graph descriptor")
	fmt.Println("  server.yaml   - optional: cache root, LRU budgets (ambient)")
}
