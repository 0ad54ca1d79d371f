package render

import (
	"context"
	"errors"
	"testing"

	"datadetox/pkg/layout"
	"datadetox/pkg/lineage"
)

func lineagePayload() lineage.GraphData {
	child := lineage.Entity{ModelID: "org/child", PipelineTag: "text-generation"}
	parent := lineage.Entity{ModelID: "org/parent"}
	c4 := lineage.Entity{DatasetID: "c4", URL: "https://example.org/c4"}

	return lineage.GraphData{
		Nodes: lineage.NodeList{Nodes: []lineage.Entity{child, parent}},
		Relationships: lineage.RelationshipList{Relationships: []lineage.Relationship{
			{Source: child, Relationship: "FINE_TUNED_FROM", Target: parent},
			{Source: child, Relationship: "TRAINED_ON", Target: c4},
		}},
		QueriedModelID: "org/child",
	}
}

func TestBuilder_BuildFullPipeline(t *testing.T) {
	builder := NewBuilder(BuilderParams{})

	graph := builder.Build(context.Background(), lineagePayload(), nil)

	if len(graph.Nodes) != 2 {
		t.Fatalf("expected 2 nodes, got %d: %v", len(graph.Nodes), graph.Nodes)
	}
	if graph.QueriedID != "org/child" {
		t.Fatalf("unexpected queried id: %q", graph.QueriedID)
	}

	byID := make(map[string]Node)
	for _, n := range graph.Nodes {
		byID[n.ID] = n
	}

	child := byID["org/child"]
	if !child.Highlighted {
		t.Fatalf("queried node not highlighted: %+v", child)
	}
	if len(child.Datasets) != 1 || child.Datasets[0].ID != "c4" {
		t.Fatalf("unexpected dataset annotations: %v", child.Datasets)
	}
	if child.Height != NodeBaseHeight+35 {
		t.Fatalf("unexpected child height: %v", child.Height)
	}

	parent := byID["org/parent"]
	if parent.Highlighted {
		t.Fatalf("parent should not be highlighted")
	}
	if parent.Height != NodeBaseHeight {
		t.Fatalf("unexpected parent height: %v", parent.Height)
	}

	// Ancestors sit above descendants in the default upward flow.
	if !(parent.Y < child.Y) {
		t.Fatalf("parent should be above child: parent.Y=%v child.Y=%v", parent.Y, child.Y)
	}

	if len(graph.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", graph.Edges)
	}
	edge := graph.Edges[0]
	if edge.Source != "org/child" || edge.Target != "org/parent" {
		t.Fatalf("unexpected edge endpoints: %+v", edge)
	}
	if edge.Label != "fine tuned from" {
		t.Fatalf("unexpected edge label: %q", edge.Label)
	}
}

func TestBuilder_EmptyPayloadYieldsRenderableGraph(t *testing.T) {
	builder := NewBuilder(BuilderParams{})

	graph := builder.Build(context.Background(), lineage.GraphData{}, nil)

	if graph.Nodes == nil || graph.Edges == nil {
		t.Fatalf("empty graph must carry non-nil slices: %+v", graph)
	}
	if len(graph.Nodes) != 0 || len(graph.Edges) != 0 {
		t.Fatalf("expected empty graph, got %+v", graph)
	}
}

func TestBuilder_GridFallbackOnLayoutFailure(t *testing.T) {
	failing := func(ctx context.Context, nodes []layout.Node, edges []layout.Edge, opts layout.Options) ([]layout.Position, error) {
		return nil, errors.New("engine exploded")
	}
	builder := NewBuilder(BuilderParams{LayoutFn: failing})

	graph := builder.Build(context.Background(), lineagePayload(), nil)

	if len(graph.Nodes) != 2 {
		t.Fatalf("fallback must place every node, got %d", len(graph.Nodes))
	}
	for i, n := range graph.Nodes {
		wantX := float64(i%3) * 340
		wantY := float64(i/3) * 360
		if n.X != wantX || n.Y != wantY {
			t.Fatalf("node %d at (%v, %v), want (%v, %v)", i, n.X, n.Y, wantX, wantY)
		}
	}
	// Edges survive because the fallback keeps the full node set.
	if len(graph.Edges) != 1 {
		t.Fatalf("expected 1 edge after fallback, got %v", graph.Edges)
	}
}

func TestBuilder_DropsNodesTheEngineLostAndRevalidatesEdges(t *testing.T) {
	partial := func(ctx context.Context, nodes []layout.Node, edges []layout.Edge, opts layout.Options) ([]layout.Position, error) {
		// Violates the total-coverage contract: only the first node
		// comes back.
		return []layout.Position{{ID: nodes[0].ID}}, nil
	}
	builder := NewBuilder(BuilderParams{LayoutFn: partial})

	graph := builder.Build(context.Background(), lineagePayload(), nil)

	if len(graph.Nodes) != 1 {
		t.Fatalf("expected 1 surviving node, got %v", graph.Nodes)
	}
	if len(graph.Edges) != 0 {
		t.Fatalf("edges to dropped nodes must be pruned, got %v", graph.Edges)
	}
}
