package packer

type (
	skylineNode struct {
		x     int
		y     int
		width int
	}
	// skyline tracks the top edge of everything placed so far as a list of
	// horizontal segments covering [0, binWidth).
	skyline struct {
		binWidth int
		nodes    []skylineNode
	}
	box struct {
		id     int
		width  int
		height int
	}
	placement struct {
		box
		x int
		y int
	}
)

func newSkyline(binWidth int) *skyline {
	return &skyline{
		binWidth: binWidth,
		nodes:    []skylineNode{{x: 0, y: 0, width: binWidth}},
	}
}

// fit returns the lowest y at which a box of the given width rests when its
// left edge is at node i.
func (r *skyline) fit(i int, width int) (int, bool) {
	x := r.nodes[i].x
	if x+width > r.binWidth {
		return 0, false
	}
	y := 0
	remaining := width
	for j := i; remaining > 0; j++ {
		if r.nodes[j].y > y {
			y = r.nodes[j].y
		}
		remaining -= r.nodes[j].width
	}
	return y, true
}

// insert places b where its top edge is lowest, leftmost on ties.
func (r *skyline) insert(b box) placement {
	bestIndex, bestTop, bestX, bestY := -1, 0, 0, 0
	for i, node := range r.nodes {
		y, ok := r.fit(i, b.width)
		if !ok {
			continue
		}
		top := y + b.height
		if bestIndex < 0 || top < bestTop || (top == bestTop && node.x < bestX) {
			bestIndex, bestTop, bestX, bestY = i, top, node.x, y
		}
	}
	r.add(bestIndex, skylineNode{x: bestX, y: bestTop, width: b.width})
	return placement{box: b, x: bestX, y: bestY}
}

func (r *skyline) add(index int, node skylineNode) {
	old := r.nodes
	nodes := append(old[:index:index], node)
	end := node.x + node.width
	for _, next := range old[index:] {
		if next.x+next.width <= end {
			continue
		}
		if next.x < end {
			next.width -= end - next.x
			next.x = end
		}
		nodes = append(nodes, next)
	}

	merged := nodes[:1]
	for _, next := range nodes[1:] {
		last := &merged[len(merged)-1]
		if last.y == next.y {
			last.width += next.width
			continue
		}
		merged = append(merged, next)
	}
	r.nodes = merged
}
