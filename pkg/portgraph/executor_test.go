package portgraph

import (
	"errors"
	"testing"

	"github.com/dshills/svdagen/pkg/svdagerr"
	"pgregory.net/rapid"
)

func TestTopoSortOrdersProducersBeforeConsumers(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDesc{{ID: "a", Type: "constant"}, {ID: "b", Type: "normalize"}, {ID: "c", Type: "passthrough"}},
		Connections: []Connection{
			{From: "a", Output: "out", To: "b", Input: "in"},
			{From: "b", Output: "out", To: "c", Input: "in"},
		},
	}

	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	pos := make(map[string]int, len(order))
	for i, id := range order {
		pos[id] = i
	}
	if pos["a"] >= pos["b"] || pos["b"] >= pos["c"] {
		t.Fatalf("expected order a < b < c, got %v", order)
	}
}

func TestTopoSortDetectsCycle(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDesc{{ID: "A", Type: "passthrough"}, {ID: "B", Type: "passthrough"}},
		Connections: []Connection{
			{From: "A", Output: "out", To: "B", Input: "in"},
			{From: "B", Output: "out", To: "A", Input: "in"},
		},
	}

	_, err := TopoSort(g)
	if !errors.Is(err, svdagerr.ErrCycle) {
		t.Fatalf("expected ErrCycle, got %v", err)
	}
}

func TestExecuteEmptyGraph(t *testing.T) {
	g := &Graph{}
	reg := NewDefaultRegistry()
	results, err := Execute(g, reg, ExecParams{Resolution: 4, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected no results for empty graph, got %d", len(results))
	}
}

func TestExecutePropagatesOutputsToInputs(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDesc{
			{ID: "src", Type: "constant", Params: map[string]interface{}{"value": 0.5}},
			{ID: "dst", Type: "passthrough"},
		},
		Connections: []Connection{
			{From: "src", Output: "out", To: "dst", Input: "in"},
		},
	}

	reg := NewDefaultRegistry()
	results, err := Execute(g, reg, ExecParams{Resolution: 4, Seed: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, ok := results["dst"]["out"].(F32Raster)
	if !ok {
		t.Fatalf("expected dst.out to be an F32Raster")
	}
	for _, v := range out.Data {
		if v != 0.5 {
			t.Fatalf("expected constant-propagated value 0.5, got %v", v)
		}
	}
}

func TestExecuteMissingOptionalInputIsTolerated(t *testing.T) {
	g := &Graph{Nodes: []NodeDesc{{ID: "only", Type: "passthrough"}}}
	reg := NewDefaultRegistry()

	results, err := Execute(g, reg, ExecParams{Resolution: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := results["only"]["out"]; ok {
		t.Fatalf("expected no output when optional input is absent")
	}
}

func TestExecuteUnknownKindIsSkippedNotFatal(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDesc{
			{ID: "mystery", Type: "does_not_exist"},
			{ID: "dst", Type: "passthrough"},
		},
		Connections: []Connection{
			{From: "mystery", Output: "out", To: "dst", Input: "in"},
		},
	}
	reg := NewDefaultRegistry()

	results, err := Execute(g, reg, ExecParams{Resolution: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := results["dst"]["out"]; ok {
		t.Fatalf("expected dst to have no 'out' since its producer was skipped")
	}
}

func TestExtractSinksExplicitBeatsFallback(t *testing.T) {
	g := &Graph{
		Nodes: []NodeDesc{
			{ID: "raw", Type: "constant", Params: map[string]interface{}{"value": 0.9}},
			{ID: "norm", Type: "normalize"},
			{ID: "hs", Type: "height_sink"},
		},
		Connections: []Connection{
			{From: "raw", Output: "out", To: "norm", Input: "in"},
			{From: "raw", Output: "out", To: "hs", Input: "in"},
		},
	}
	reg := NewDefaultRegistry()
	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := Execute(g, reg, ExecParams{Resolution: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	height, _, _, _, err := ExtractSinks(g, reg, order, results, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, v := range height.Data {
		if v != 0.9 {
			t.Fatalf("expected explicit height_sink (raw constant 0.9) to win over normalize fallback, got %v", v)
		}
	}
}

func TestExtractSinksMissingHeightFails(t *testing.T) {
	g := &Graph{Nodes: []NodeDesc{{ID: "c", Type: "constant"}}}
	reg := NewDefaultRegistry()
	order, err := TopoSort(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	results, err := Execute(g, reg, ExecParams{Resolution: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, _, _, _, err = ExtractSinks(g, reg, order, results, 4)
	if !errors.Is(err, svdagerr.ErrMissingOutput) {
		t.Fatalf("expected ErrMissingOutput for a populated graph with no height candidate, got %v", err)
	}
}

func TestExtractSinksEmptyGraphDefaultsHeight(t *testing.T) {
	g := &Graph{}
	reg := NewDefaultRegistry()
	height, biome, block, water, err := ExtractSinks(g, reg, nil, Results{}, 4)
	if err != nil {
		t.Fatalf("expected empty graph to default height rather than fail, got: %v", err)
	}
	if len(height.Data) != 16 {
		t.Fatalf("expected height raster sized to resolution^2, got %d", len(height.Data))
	}
	for _, v := range height.Data {
		if v != 0 {
			t.Fatalf("expected zero-filled default height for empty graph, got %v", v)
		}
	}
	if len(biome.Data) != 16 || len(block.Data) != 16 || len(water.Data) != 16 {
		t.Fatalf("expected defaulted rasters sized to resolution^2")
	}
}

func TestExtractSinksDefaultsBiomeAndBlock(t *testing.T) {
	g := &Graph{
		Nodes:       []NodeDesc{{ID: "hs", Type: "height_sink"}, {ID: "c", Type: "constant"}},
		Connections: []Connection{{From: "c", Output: "out", To: "hs", Input: "in"}},
	}
	reg := NewDefaultRegistry()
	order, _ := TopoSort(g)
	results, err := Execute(g, reg, ExecParams{Resolution: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, biome, block, water, err := ExtractSinks(g, reg, order, results, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(biome.Data) != 16 || len(block.Data) != 16 || len(water.Data) != 16 {
		t.Fatalf("expected defaulted rasters sized to resolution^2")
	}
	for _, v := range biome.Data {
		if v != 0 {
			t.Fatalf("expected zero-filled default biome")
		}
	}
}

// TestTopoSortRandomDAGsAreValid uses rapid to generate random acyclic
// graphs and checks that every edge places its producer before its consumer.
func TestTopoSortRandomDAGsAreValid(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(1, 12).Draw(rt, "n")
		g := &Graph{}
		for i := 0; i < n; i++ {
			g.Nodes = append(g.Nodes, NodeDesc{ID: nodeName(i), Type: "passthrough"})
		}
		// Only allow edges from lower index to higher index: guarantees a DAG.
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rapid.Bool().Draw(rt, "edge") {
					g.Connections = append(g.Connections, Connection{From: nodeName(i), Output: "out", To: nodeName(j), Input: "in"})
				}
			}
		}

		order, err := TopoSort(g)
		if err != nil {
			rt.Fatalf("unexpected error on acyclic graph: %v", err)
		}
		pos := make(map[string]int, len(order))
		for idx, id := range order {
			pos[id] = idx
		}
		for _, c := range g.Connections {
			if pos[c.From] >= pos[c.To] {
				rt.Fatalf("edge %s->%s violates topological order: %v", c.From, c.To, order)
			}
		}
	})
}

func nodeName(i int) string {
	return string(rune('a' + i))
}
