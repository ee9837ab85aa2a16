// Package portgraph implements the node-graph execution engine: a registry
// of node kinds, a graph descriptor of nodes and typed port connections, and
// a topologically-ordered executor that pipes producer outputs into consumer
// inputs.
//
// A node graph describes procedural world generation as a DAG: each node
// consumes zero or more typed input ports and produces zero or more typed
// output ports. The engine never interprets what a node computes -- that is
// left to registered node kinds (noise, biome classification, erosion, and
// so on), which are external collaborators from the core's point of view.
package portgraph
