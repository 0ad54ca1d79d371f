package render

import (
	"context"

	"datadetox/pkg/layout"
	"datadetox/pkg/lineage"
	"datadetox/pkg/logger"
)

const (
	gridColumns    = 3
	gridCellWidth  = 340.0
	gridCellHeight = 360.0
)

// Graph is the final positioned output handed to the rendering surface.
type Graph struct {
	Nodes     []Node `json:"nodes"`
	Edges     []Edge `json:"edges"`
	QueriedID string `json:"queried_model_id,omitempty"`
}

// LayoutFunc computes positions for the given nodes and edges. It matches
// layout.Layout and exists so tests can substitute a failing or recording
// engine.
type LayoutFunc func(ctx context.Context, nodes []layout.Node, edges []layout.Edge, opts layout.Options) ([]layout.Position, error)

// Builder runs the full reconcile, annotate, present, layout pipeline on
// raw lineage payloads.
type Builder struct {
	direction layout.Direction
	layoutFn  LayoutFunc
}

// BuilderParams configures a Builder. Zero values select the layered
// engine and the upward flow direction (ancestors above descendants).
type BuilderParams struct {
	Direction layout.Direction
	LayoutFn  LayoutFunc
}

// NewBuilder creates a Builder with the given parameters.
func NewBuilder(params BuilderParams) *Builder {
	direction := params.Direction
	if direction == "" {
		direction = layout.DirectionUp
	}
	layoutFn := params.LayoutFn
	if layoutFn == nil {
		layoutFn = layout.Layout
	}
	return &Builder{
		direction: direction,
		layoutFn:  layoutFn,
	}
}

// Build turns one lineage payload into a positioned render graph. It never
// fails: malformed input degrades through the reconciliation fallbacks,
// and a layout engine failure falls back to deterministic grid placement.
// The result is always renderable, possibly with no nodes or no edges.
func (b *Builder) Build(ctx context.Context, data lineage.GraphData, risk *lineage.RiskContext) Graph {
	rec := lineage.Reconcile(data.Nodes.Nodes, data.Relationships.Relationships, data.QueriedModelID)
	annotations := lineage.MergeDatasets(rec.Nodes, data.Relationships.Relationships, risk)
	nodes, edges := Present(rec, annotations)

	if len(nodes) == 0 {
		return Graph{Nodes: []Node{}, Edges: []Edge{}, QueriedID: rec.QueriedID}
	}

	nodes = b.position(ctx, nodes, edges)

	// Authoritative final pass: layout is allowed to drop nodes it cannot
	// place, so edges are validated once more against the node set that
	// actually came back.
	edges = ValidEdges(nodes, edges)

	return Graph{Nodes: nodes, Edges: edges, QueriedID: rec.QueriedID}
}

func (b *Builder) position(ctx context.Context, nodes []Node, edges []Edge) []Node {
	layoutNodes := make([]layout.Node, 0, len(nodes))
	for _, n := range nodes {
		layoutNodes = append(layoutNodes, layout.Node{ID: n.ID, Width: n.Width, Height: n.Height})
	}
	layoutEdges := make([]layout.Edge, 0, len(edges))
	for _, e := range edges {
		layoutEdges = append(layoutEdges, layout.Edge{ID: e.ID, Source: e.Source, Target: e.Target})
	}

	nodeSpacing, layerSpacing := Spacing(len(nodes))
	positions, err := b.layoutFn(ctx, layoutNodes, layoutEdges, layout.Options{
		Direction:    b.direction,
		NodeSpacing:  nodeSpacing,
		LayerSpacing: layerSpacing,
	})
	if err != nil {
		logger.Warn("Layout engine failed, using grid fallback", "err", err, "nodes", len(nodes))
		return gridFallback(nodes)
	}

	byID := make(map[string]layout.Position, len(positions))
	for _, p := range positions {
		byID[p.ID] = p
	}

	positioned := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		p, ok := byID[n.ID]
		if !ok {
			// The engine broke its total-coverage contract for this node.
			logger.Warn("Layout dropped a node", "id", n.ID)
			continue
		}
		n.X = p.X
		n.Y = p.Y
		positioned = append(positioned, n)
	}
	return positioned
}

// gridFallback places node i at column i mod 3, row i div 3 with a fixed
// cell size. Deterministic and always succeeds.
func gridFallback(nodes []Node) []Node {
	placed := make([]Node, 0, len(nodes))
	for i, n := range nodes {
		n.X = float64(i%gridColumns) * gridCellWidth
		n.Y = float64(i/gridColumns) * gridCellHeight
		placed = append(placed, n)
	}
	return placed
}
