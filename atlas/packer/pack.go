package packer

import (
	"math"
	"sort"

	"atlas-repacker/ds"
	"github.com/samber/lo"
)

type (
	ordering func(b box) int
	attempt  struct {
		placements []placement
		width      int
		height     int
	}
)

// widthSteps is the number of candidate bin widths tried between the
// narrowest and widest useful bin.
const widthSteps = 16

var orderings = []ordering{
	func(b box) int { return b.height },
	func(b box) int { return b.width },
	func(b box) int { return b.width * b.height },
	func(b box) int { return b.width + b.height },
}

// Pack places rects. spacing is added to every rect before packing and
// removed from the reported sizes afterwards so neighbours keep a gutter.
// The bounding size includes the gutter of the last row and column.
func Pack(rects []Rect, spacing uint32) (Result, error) {
	for _, rect := range rects {
		if rect.Width == 0 || rect.Height == 0 {
			return Result{}, InvalidRectError{ID: rect.ID, Width: rect.Width, Height: rect.Height}
		}
	}
	if len(rects) == 0 {
		return Result{Placements: []PackedRect{}}, nil
	}

	boxes := lo.Map(rects, func(rect Rect, _ int) box {
		return box{
			id:     rect.ID,
			width:  int(rect.Width) + int(spacing),
			height: int(rect.Height) + int(spacing),
		}
	})

	var best *attempt
	for _, order := range orderings {
		sorted := sortBoxes(boxes, order)
		for _, binWidth := range candidateWidths(boxes) {
			current := packInto(sorted, binWidth)
			if best == nil || current.width*current.height < best.width*best.height {
				best = &current
			}
		}
	}

	placements := lo.Map(best.placements, func(p placement, _ int) PackedRect {
		return PackedRect{
			ID:     p.id,
			X:      uint32(p.x),
			Y:      uint32(p.y),
			Width:  uint32(p.width) - spacing,
			Height: uint32(p.height) - spacing,
		}
	})
	sort.SliceStable(placements, func(i, j int) bool {
		return placements[i].ID < placements[j].ID
	})
	return Result{
		Placements: placements,
		Width:      uint32(best.width),
		Height:     uint32(best.height),
	}, nil
}

// sortBoxes orders boxes by key, largest first, ties by id.
func sortBoxes(boxes []box, key ordering) []box {
	sorted := ds.ShallowCopy(boxes)
	sort.SliceStable(sorted, func(i, j int) bool {
		ki, kj := key(sorted[i]), key(sorted[j])
		if ki != kj {
			return ki > kj
		}
		return sorted[i].id < sorted[j].id
	})
	return sorted
}

func candidateWidths(boxes []box) []int {
	widest := lo.Max(lo.Map(boxes, func(b box, _ int) int { return b.width }))
	totalWidth := lo.SumBy(boxes, func(b box) int { return b.width })
	totalArea := lo.SumBy(boxes, func(b box) int { return b.width * b.height })

	lower := int(math.Ceil(math.Sqrt(float64(totalArea))))
	if lower < widest {
		lower = widest
	}
	upper := totalWidth
	if upper < lower {
		upper = lower
	}
	step := (upper - lower) / widthSteps
	if step < 1 {
		step = 1
	}
	widths := ds.MakeRange(lower, upper, step)
	return lo.Uniq(append(widths, upper))
}

func packInto(boxes []box, binWidth int) attempt {
	line := newSkyline(binWidth)
	result := attempt{placements: make([]placement, 0, len(boxes))}
	for _, b := range boxes {
		p := line.insert(b)
		result.placements = append(result.placements, p)
		if right := p.x + p.width; right > result.width {
			result.width = right
		}
		if bottom := p.y + p.height; bottom > result.height {
			result.height = bottom
		}
	}
	return result
}
