// Package render turns a reconciled, annotated lineage graph into
// positioned, display-ready nodes and edges. It owns node sizing,
// highlighting, edge validation, and the adaptive spacing handed to the
// layout engine.
package render

import (
	"strings"

	"datadetox/pkg/lineage"
)

const (
	// NodeWidth is the fixed display width of every node.
	NodeWidth = 280.0
	// NodeBaseHeight is the display height of a node with no dataset
	// annotations.
	NodeBaseHeight = 200.0
	// heightPerDataset is added per annotation, up to maxSizedDatasets.
	// All annotations beyond that are still attached, they just scroll.
	heightPerDataset = 35.0
	maxSizedDatasets = 3

	baseNodeSpacing  = 110.0
	baseLayerSpacing = 130.0
)

// Node is a display-ready lineage node. X and Y are filled in by layout.
type Node struct {
	ID          string               `json:"id"`
	X           float64              `json:"x"`
	Y           float64              `json:"y"`
	Width       float64              `json:"width"`
	Height      float64              `json:"height"`
	Highlighted bool                 `json:"highlighted"`
	Downloads   *int64               `json:"downloads,omitempty"`
	Likes       *int64               `json:"likes,omitempty"`
	PipelineTag string               `json:"pipeline_tag,omitempty"`
	URL         string               `json:"url,omitempty"`
	Datasets    []lineage.Annotation `json:"datasets"`
}

// Edge is a display-ready lineage edge with a normalized label.
type Edge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Present converts reconciled entities and their annotations into render
// nodes and edges. Exactly the node matching queriedID is highlighted; a
// queriedID matching nothing highlights nothing. Positions are zero until
// layout runs.
func Present(rec lineage.Reconciled, annotations map[string][]lineage.Annotation) ([]Node, []Edge) {
	nodes := make([]Node, 0, len(rec.Nodes))
	for _, entity := range rec.Nodes {
		id := entity.Identity()
		datasets := annotations[id]
		nodes = append(nodes, Node{
			ID:          id,
			Width:       NodeWidth,
			Height:      nodeHeight(len(datasets)),
			Highlighted: id == rec.QueriedID,
			Downloads:   entity.Downloads,
			Likes:       entity.Likes,
			PipelineTag: entity.PipelineTag,
			URL:         entity.URL,
			Datasets:    datasets,
		})
	}

	edges := make([]Edge, 0, len(rec.Edges))
	for _, e := range rec.Edges {
		edges = append(edges, Edge{
			ID:     edgeID(e.Source, e.Target),
			Source: e.Source,
			Target: e.Target,
			Label:  NormalizeLabel(e.Label),
		})
	}

	return nodes, ValidEdges(nodes, edges)
}

func nodeHeight(annotationCount int) float64 {
	if annotationCount > maxSizedDatasets {
		annotationCount = maxSizedDatasets
	}
	return NodeBaseHeight + heightPerDataset*float64(annotationCount)
}

func edgeID(source, target string) string {
	return source + "->" + target
}

// NormalizeLabel turns a raw relationship label like FINE_TUNED_FROM into
// display form ("fine tuned from").
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.ReplaceAll(label, "_", " "))
}

// ValidEdges drops every edge whose source or target is missing from the
// node set. It is the single edge-integrity guard for the whole pipeline:
// reconciliation output is checked at build time and re-checked against
// whatever node set layout actually returns, because the two sides of that
// asynchronous boundary can diverge. Idempotent: a second pass over its
// own output changes nothing.
func ValidEdges(nodes []Node, edges []Edge) []Edge {
	ids := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		ids[n.ID] = true
	}

	valid := make([]Edge, 0, len(edges))
	for _, e := range edges {
		if ids[e.Source] && ids[e.Target] {
			valid = append(valid, e)
		}
	}
	return valid
}

// Spacing computes the adaptive node and layer spacing for a graph of n
// nodes. Graphs of up to 8 nodes use tight constant spacing; larger graphs
// scale out, capped at 1.4x so very large graphs do not sprawl.
func Spacing(n int) (nodeSpacing, layerSpacing float64) {
	if n < 1 {
		n = 1
	}
	densityScale := float64(n) / 8
	if densityScale < 1.0 {
		densityScale = 1.0
	}
	if densityScale > 1.4 {
		densityScale = 1.4
	}
	return baseNodeSpacing * densityScale, baseLayerSpacing * densityScale
}
