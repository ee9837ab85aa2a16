package portgraph

import (
	"fmt"
	"log"
	"sort"

	"github.com/dshills/svdagen/pkg/svdagerr"
)

// ExecParams carries the region-scoped parameters the executor merges into
// every node's params: {resolution, seed, offsetX, offsetZ}.
type ExecParams struct {
	Resolution int
	Seed       uint64
	OffsetX    int
	OffsetZ    int
}

func (p ExecParams) asParams() Params {
	return Params{
		"resolution": p.Resolution,
		"seed":       p.Seed,
		"offsetX":    p.OffsetX,
		"offsetZ":    p.OffsetZ,
	}
}

// Results maps node id to the output bundle it produced.
type Results map[string]PortBundle

const (
	colorUnseen = iota
	colorOnStack
	colorDone
)

// TopoSort returns the graph's nodes in an order where every edge u -> v
// places u (the producer) before v (the consumer). Ties between
// independent nodes are broken by sorted node id for reproducibility, but
// callers must not depend on that tie-break remaining stable.
func TopoSort(g *Graph) ([]string, error) {
	adjOut := g.outgoing()

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	sort.Strings(ids)

	color := make(map[string]int, len(ids))
	var postorder []string

	for _, id := range ids {
		if color[id] != colorUnseen {
			continue
		}
		if err := dfsVisit(id, adjOut, color, &postorder); err != nil {
			return nil, err
		}
	}

	order := make([]string, len(postorder))
	for i, id := range postorder {
		order[len(postorder)-1-i] = id
	}
	return order, nil
}

type dfsFrame struct {
	id       string
	idx      int
	children []string
}

func newDFSFrame(id string, adjOut map[string][]Connection) dfsFrame {
	conns := adjOut[id]
	seen := make(map[string]bool, len(conns))
	children := make([]string, 0, len(conns))
	for _, c := range conns {
		if !seen[c.To] {
			seen[c.To] = true
			children = append(children, c.To)
		}
	}
	sort.Strings(children)
	return dfsFrame{id: id, children: children}
}

// dfsVisit runs an iterative three-color DFS from start, avoiding recursion
// stack blowup on pathological graphs while remaining equivalent to a
// recursive on-stack-marker visitor.
func dfsVisit(start string, adjOut map[string][]Connection, color map[string]int, postorder *[]string) error {
	stack := []dfsFrame{newDFSFrame(start, adjOut)}
	color[start] = colorOnStack

	for len(stack) > 0 {
		top := &stack[len(stack)-1]

		if top.idx >= len(top.children) {
			color[top.id] = colorDone
			*postorder = append(*postorder, top.id)
			stack = stack[:len(stack)-1]
			continue
		}

		child := top.children[top.idx]
		top.idx++

		switch color[child] {
		case colorOnStack:
			return svdagerr.New(svdagerr.ErrCycle, fmt.Sprintf("node %q", child))
		case colorUnseen:
			color[child] = colorOnStack
			stack = append(stack, newDFSFrame(child, adjOut))
		case colorDone:
			// Already fully processed via another path; nothing to do.
		}
	}
	return nil
}

// Execute runs graph against registry in topological order, piping each
// node's declared output ports into the input ports of its consumers.
func Execute(g *Graph, registry *Registry, params ExecParams) (Results, error) {
	order, err := TopoSort(g)
	if err != nil {
		return nil, err
	}

	nodesByID := g.byID()
	incoming := g.incoming()
	results := make(Results, len(order))
	globalParams := params.asParams()

	for _, id := range order {
		desc, ok := nodesByID[id]
		if !ok {
			// Referenced only via a dangling connection; nothing to execute.
			continue
		}

		node, ok := registry.New(desc.Type)
		if !ok {
			log.Printf("portgraph: unknown node kind %q for node %q; skipping (downstream inputs will be absent)", desc.Type, id)
			continue
		}

		inputs := gatherInputs(id, incoming, results)
		mergedParams := mergeParams(globalParams, desc.Params)

		out, err := node.Process(inputs, mergedParams)
		if err != nil {
			return nil, fmt.Errorf("node %q (kind=%s): %w", id, desc.Type, err)
		}
		results[id] = out
	}

	return results, nil
}

func gatherInputs(id string, incoming map[string][]Connection, results Results) PortBundle {
	bundle := make(PortBundle)
	for _, c := range incoming[id] {
		srcOut, ok := results[c.From]
		if !ok {
			continue // source produced nothing at all (unknown kind, etc).
		}
		v, ok := srcOut[c.Output]
		if !ok {
			continue // source produced no such output port; input stays absent.
		}
		bundle[c.Input] = v
	}
	return bundle
}

func mergeParams(global Params, nodeParams map[string]interface{}) Params {
	merged := make(Params, len(global)+len(nodeParams))
	for k, v := range global {
		merged[k] = v
	}
	for k, v := range nodeParams {
		merged[k] = v
	}
	return merged
}
