// Package layout assigns 2-D positions to abstract graph nodes using a
// layered hierarchical placement. It knows nothing about the lineage
// domain: callers pass opaque ids with declared dimensions and directed
// edges, and get back one position per input id.
package layout

import "context"

// Direction controls which way the layer axis runs. Up places edge targets
// (parents) above their sources, so dependency arrows point upward toward
// ancestors; Down inverts that; Left and Right run the layer axis
// horizontally.
type Direction string

const (
	DirectionUp    Direction = "up"
	DirectionDown  Direction = "down"
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Node is one abstract node to place.
type Node struct {
	ID     string
	Width  float64
	Height float64
}

// Edge is a directed edge between two node ids. The target is treated as
// the source's parent for layering purposes.
type Edge struct {
	ID     string
	Source string
	Target string
}

// Options carries the layout parameters.
type Options struct {
	Direction    Direction
	NodeSpacing  float64
	LayerSpacing float64
}

// Position is the computed placement of one node. X and Y address the
// node's top-left corner.
type Position struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Layout computes a collision-free position for every input node.
//
// The contract is total coverage: every input id appears in the output
// exactly once (duplicated input ids are collapsed to their first
// occurrence). Edges whose endpoints are not in the node set are ignored.
// Disconnected nodes are placed in the root layer rather than failing the
// pass. The only error conditions are context cancellation.
func Layout(ctx context.Context, nodes []Node, edges []Edge, opts Options) ([]Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}
	if opts.Direction == "" {
		opts.Direction = DirectionUp
	}

	byID := make(map[string]Node, len(nodes))
	order := make([]string, 0, len(nodes))
	for _, n := range nodes {
		if _, ok := byID[n.ID]; ok {
			continue
		}
		byID[n.ID] = n
		order = append(order, n.ID)
	}

	layers := assignLayers(order, byID, edges)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	placed := placeLayers(layers, byID, opts)

	// Emit in input order so output is deterministic for callers.
	positions := make([]Position, 0, len(order))
	for _, id := range order {
		positions = append(positions, placed[id])
	}
	return positions, nil
}
