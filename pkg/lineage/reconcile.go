package lineage

// Edge is a validated model-to-model lineage edge. Both Source and Target
// are guaranteed to be identities present in the node set returned
// alongside it.
type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label"`
}

// Reconciled is the output of Reconcile: a consistent node set, edges with
// no dangling endpoints, and the identity to highlight.
type Reconciled struct {
	Nodes     []Entity
	Edges     []Edge
	QueriedID string
}

// Reconcile unifies a partial node list and a relationship list into one
// consistent graph. The declared node list is routinely incomplete relative
// to the relationships, so endpoints missing from it are recovered from the
// relationship's embedded snapshots rather than rejected.
//
// The returned nodes are the models that participate in at least one
// model-to-model relationship. When no such relationship exists at all,
// every known model is returned instead, so a lone queried model still
// renders. Empty input yields an empty result, not an error.
func Reconcile(entities []Entity, relationships []Relationship, queriedID string) Reconciled {
	byID := make(map[string]Entity, len(entities))
	order := make([]string, 0, len(entities))

	insert := func(e Entity) {
		id := e.Identity()
		if _, ok := byID[id]; !ok {
			order = append(order, id)
		}
		byID[id] = e
	}

	for _, e := range entities {
		insert(e)
	}

	// Recover endpoints the declared node list is missing.
	for _, rel := range relationships {
		for _, e := range []Entity{rel.Source, rel.Target} {
			if _, ok := byID[e.Identity()]; !ok {
				insert(e)
			}
		}
	}

	// Identities touched by at least one model-to-model relationship.
	connected := make(map[string]bool)
	for _, rel := range relationships {
		if rel.Source.IsModel() && rel.Target.IsModel() {
			connected[rel.Source.Identity()] = true
			connected[rel.Target.Identity()] = true
		}
	}

	var nodes []Entity
	for _, id := range order {
		e := byID[id]
		if e.IsModel() && connected[id] {
			nodes = append(nodes, e)
		}
	}
	if len(nodes) == 0 {
		for _, id := range order {
			if e := byID[id]; e.IsModel() {
				nodes = append(nodes, e)
			}
		}
	}

	nodeIDs := make(map[string]bool, len(nodes))
	for _, n := range nodes {
		nodeIDs[n.Identity()] = true
	}

	var edges []Edge
	seen := make(map[string]bool)
	for _, rel := range relationships {
		if !rel.Source.IsModel() || !rel.Target.IsModel() {
			continue
		}
		src, tgt := rel.Source.Identity(), rel.Target.Identity()
		if !nodeIDs[src] || !nodeIDs[tgt] {
			continue
		}
		key := src + "->" + tgt
		if seen[key] {
			// Duplicate pairs keep the first label; later labels are dropped.
			continue
		}
		seen[key] = true
		edges = append(edges, Edge{Source: src, Target: tgt, Label: rel.Relationship})
	}

	if queriedID == "" && len(nodes) > 0 {
		queriedID = nodes[0].Identity()
	}

	return Reconciled{Nodes: nodes, Edges: edges, QueriedID: queriedID}
}
