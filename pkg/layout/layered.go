package layout

// assignLayers groups node ids into layers using BFS from the root set.
// A node's parent is the target of its outgoing edge, so roots are the
// nodes with no outgoing edge. When every node has an outgoing edge (a
// cycle), the first input node seeds the root layer; the visited guard
// keeps the walk from looping. Nodes unreachable from the roots join
// layer 0, so disconnected components are placed instead of failing.
func assignLayers(order []string, byID map[string]Node, edges []Edge) [][]string {
	hasParent := make(map[string]bool)
	children := make(map[string][]string)
	for _, e := range edges {
		if _, ok := byID[e.Source]; !ok {
			continue
		}
		if _, ok := byID[e.Target]; !ok {
			continue
		}
		hasParent[e.Source] = true
		children[e.Target] = append(children[e.Target], e.Source)
	}

	var roots []string
	for _, id := range order {
		if !hasParent[id] {
			roots = append(roots, id)
		}
	}
	if len(roots) == 0 {
		roots = []string{order[0]}
	}

	layers := [][]string{roots}
	visited := make(map[string]bool, len(order))
	for _, r := range roots {
		visited[r] = true
	}

	for {
		var nextLayer []string
		currentLayer := layers[len(layers)-1]

		for _, nodeID := range currentLayer {
			for _, childID := range children[nodeID] {
				if !visited[childID] {
					visited[childID] = true
					nextLayer = append(nextLayer, childID)
				}
			}
		}

		if len(nextLayer) == 0 {
			break
		}
		layers = append(layers, nextLayer)
	}

	for _, id := range order {
		if !visited[id] {
			visited[id] = true
			layers[0] = append(layers[0], id)
		}
	}

	return layers
}

// placeLayers converts the layer assignment into concrete coordinates.
// Layers advance along the direction's main axis; within a layer, nodes
// pack along the cross axis and the whole layer is centered on it.
func placeLayers(layers [][]string, byID map[string]Node, opts Options) map[string]Position {
	horizontal := opts.Direction == DirectionLeft || opts.Direction == DirectionRight

	crossExtent := func(n Node) float64 {
		if horizontal {
			return n.Height
		}
		return n.Width
	}
	mainExtent := func(n Node) float64 {
		if horizontal {
			return n.Width
		}
		return n.Height
	}

	type placement struct {
		main  float64
		cross float64
	}
	placedAt := make(map[string]placement, len(byID))

	mainOffset := 0.0
	totalMain := 0.0
	for _, layer := range layers {
		layerThickness := 0.0
		layerCross := 0.0
		for i, id := range layer {
			n := byID[id]
			if i > 0 {
				layerCross += opts.NodeSpacing
			}
			placedAt[id] = placement{main: mainOffset, cross: layerCross}
			layerCross += crossExtent(n)
			if mainExtent(n) > layerThickness {
				layerThickness = mainExtent(n)
			}
		}

		// Center the layer on the cross axis.
		shift := layerCross / 2
		for _, id := range layer {
			p := placedAt[id]
			p.cross -= shift
			placedAt[id] = p
		}

		mainOffset += layerThickness + opts.LayerSpacing
		totalMain = mainOffset - opts.LayerSpacing
	}

	positions := make(map[string]Position, len(byID))
	for id, p := range placedAt {
		n := byID[id]
		main, cross := p.main, p.cross

		// Down and Left mirror the main axis so layer 0 ends up on the
		// far side.
		if opts.Direction == DirectionDown || opts.Direction == DirectionLeft {
			main = totalMain - main - mainExtent(n)
		}

		if horizontal {
			positions[id] = Position{ID: id, X: main, Y: cross}
		} else {
			positions[id] = Position{ID: id, X: cross, Y: main}
		}
	}
	return positions
}
