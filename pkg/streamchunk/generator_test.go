package streamchunk

import (
	"testing"

	"github.com/dshills/svdagen/pkg/portgraph"
	"github.com/dshills/svdagen/pkg/superchunk"
	"github.com/dshills/svdagen/pkg/svdag"
	"github.com/dshills/svdagen/pkg/worldcache"
	"github.com/dshills/svdagen/pkg/worldcfg"
)

func flatHeightGraph(value float64) *portgraph.Graph {
	return &portgraph.Graph{
		Nodes: []portgraph.NodeDesc{
			{ID: "h", Type: "constant", Params: map[string]interface{}{"value": value}},
			{ID: "sink", Type: "height_sink"},
		},
		Connections: []portgraph.Connection{
			{From: "h", Output: "out", To: "sink", Input: "in"},
		},
	}
}

func newTestGenerator(root string) *Generator {
	store := worldcache.NewStore(root, 8, 8)
	scGen := superchunk.NewGenerator(store, portgraph.NewDefaultRegistry())
	return NewGenerator(store, scGen, worldcfg.DefaultWorldConfig(1))
}

func TestGenerateProducesValidContainer(t *testing.T) {
	gen := newTestGenerator(t.TempDir())
	sc, err := gen.Generate("w1", 0, 4, 0, flatHeightGraph(0.5), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	matReport := svdag.Validate(sc.Container.Material)
	if !matReport.Passed {
		t.Fatalf("invalid material DAG: %s", svdag.Summary(matReport))
	}
	opqReport := svdag.Validate(sc.Container.Opaque)
	if !opqReport.Passed {
		t.Fatalf("invalid opaque DAG: %s", svdag.Summary(opqReport))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	root1, root2 := t.TempDir(), t.TempDir()
	gen1 := newTestGenerator(root1)
	gen2 := newTestGenerator(root2)

	sc1, err := gen1.Generate("w1", 0, 4, 0, flatHeightGraph(0.6), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sc2, err := gen2.Generate("w1", 0, 4, 0, flatHeightGraph(0.6), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(sc1.Container.Material.Nodes) != len(sc2.Container.Material.Nodes) {
		t.Fatalf("material node counts differ between independent generations")
	}
	for i := range sc1.Container.Material.Nodes {
		if sc1.Container.Material.Nodes[i] != sc2.Container.Material.Nodes[i] {
			t.Fatalf("material node %d differs between independent generations", i)
		}
	}
}

func TestGenerateServesFromCacheAcrossProcesses(t *testing.T) {
	root := t.TempDir()
	gen1 := newTestGenerator(root)
	first, err := gen1.Generate("w1", 1, 4, 1, flatHeightGraph(0.5), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	gen2 := newTestGenerator(root)
	second, err := gen2.Generate("w1", 1, 4, 1, flatHeightGraph(0.5), 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(first.Container.Material.Nodes) != len(second.Container.Material.Nodes) {
		t.Fatalf("expected disk-cached chunk to match freshly computed chunk")
	}
}
