package svdag

import (
	"fmt"
	"strings"
)

// Report is a human-readable account of which DAG invariants hold: an
// overall Passed flag plus a list of human-readable problems.
type Report struct {
	Passed bool
	Errors []string
}

// Summary renders a short human-readable report.
func Summary(r *Report) string {
	var b strings.Builder
	b.WriteString("=== SVDAG Validation Report ===\n\n")
	if r.Passed {
		b.WriteString("Status: PASSED\n")
		return b.String()
	}
	b.WriteString("Status: FAILED\n")
	for _, e := range r.Errors {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	return b.String()
}

// Validate walks every entry in dag.Nodes and checks the structural
// invariants:
//   - every interior node has a non-zero mask
//   - popcount(mask) equals the number of stored child indices
//   - every child index is a valid offset into the node stream
//   - every leaf index is within leaf bounds
//   - no two interior entries share an identical (mask, children) tuple
func Validate(dag *DAG) *Report {
	r := &Report{Passed: true}
	seenInterior := make(map[string]uint32)

	off := uint32(0)
	for int(off) < len(dag.Nodes) {
		tag, mask, children, leafIdx, err := dag.EntryAt(off)
		if err != nil {
			r.Passed = false
			r.Errors = append(r.Errors, err.Error())
			break
		}

		switch tag {
		case NodeTagLeaf:
			if int(leafIdx) >= len(dag.Leaves) {
				r.Passed = false
				r.Errors = append(r.Errors, fmt.Sprintf("leaf entry at %d: leafIndex %d >= leafCount %d", off, leafIdx, len(dag.Leaves)))
			}
			off += 2

		case NodeTagInterior:
			if mask == 0 {
				r.Passed = false
				r.Errors = append(r.Errors, fmt.Sprintf("interior entry at %d: mask must not be zero", off))
			}
			if popcount8(mask) != len(children) {
				r.Passed = false
				r.Errors = append(r.Errors, fmt.Sprintf("interior entry at %d: popcount(mask)=%d but %d children stored", off, popcount8(mask), len(children)))
			}
			for _, c := range children {
				if int(c) >= len(dag.Nodes) {
					r.Passed = false
					r.Errors = append(r.Errors, fmt.Sprintf("interior entry at %d: child index %d out of range", off, c))
				}
			}

			key := interiorKey(mask, children)
			if prior, exists := seenInterior[key]; exists {
				r.Passed = false
				r.Errors = append(r.Errors, fmt.Sprintf("interior entries at %d and %d share identical (mask, children)", prior, off))
			} else {
				seenInterior[key] = off
			}

			off += uint32(2 + len(children))

		default:
			r.Passed = false
			r.Errors = append(r.Errors, fmt.Sprintf("entry at %d: unknown tag %d", off, tag))
			return r
		}
	}

	if int(dag.Root) >= len(dag.Nodes) {
		r.Passed = false
		r.Errors = append(r.Errors, fmt.Sprintf("root index %d out of range [0, %d)", dag.Root, len(dag.Nodes)))
	}

	return r
}
