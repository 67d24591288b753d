package packer

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func checkLayout(t *testing.T, result Result) {
	t.Helper()
	for i, p := range result.Placements {
		assert.LessOrEqual(t, p.Right(), result.Width, "placement %d", p.ID)
		assert.LessOrEqual(t, p.Bottom(), result.Height, "placement %d", p.ID)
		for _, q := range result.Placements[i+1:] {
			assert.False(t, p.Overlaps(q), "%v overlaps %v", p, q)
		}
	}
}

func generateRects(n int) []Rect {
	rects := make([]Rect, 0, n)
	seed := uint32(7)
	for i := 0; i < n; i++ {
		seed = seed*1103515245 + 12345
		width := 1 + (seed>>16)%48
		seed = seed*1103515245 + 12345
		height := 1 + (seed>>16)%48
		rects = append(rects, Rect{ID: i, Width: width, Height: height})
	}
	return rects
}

func TestPackSpacing(t *testing.T) {
	result, err := Pack([]Rect{
		{ID: 0, Width: 10, Height: 10},
		{ID: 1, Width: 20, Height: 5},
	}, 2)
	require.NoError(t, err)
	require.Len(t, result.Placements, 2)

	assert.Equal(t, 0, result.Placements[0].ID)
	assert.Equal(t, uint32(10), result.Placements[0].Width)
	assert.Equal(t, uint32(10), result.Placements[0].Height)
	assert.Equal(t, 1, result.Placements[1].ID)
	assert.Equal(t, uint32(20), result.Placements[1].Width)
	assert.Equal(t, uint32(5), result.Placements[1].Height)
	checkLayout(t, result)
}

func TestPackSquares(t *testing.T) {
	rects := []Rect{
		{ID: 0, Width: 10, Height: 10},
		{ID: 1, Width: 10, Height: 10},
		{ID: 2, Width: 10, Height: 10},
		{ID: 3, Width: 10, Height: 10},
	}
	result, err := Pack(rects, 0)
	require.NoError(t, err)
	assert.Equal(t, uint32(20), result.Width)
	assert.Equal(t, uint32(20), result.Height)
	assert.Equal(t, []PackedRect{
		{ID: 0, X: 0, Y: 0, Width: 10, Height: 10},
		{ID: 1, X: 10, Y: 0, Width: 10, Height: 10},
		{ID: 2, X: 0, Y: 10, Width: 10, Height: 10},
		{ID: 3, X: 10, Y: 10, Width: 10, Height: 10},
	}, result.Placements)
}

func TestPackMany(t *testing.T) {
	rects := generateRects(200)
	result, err := Pack(rects, 2)
	require.NoError(t, err)
	require.Len(t, result.Placements, len(rects))
	checkLayout(t, result)

	area := uint64(0)
	for i, p := range result.Placements {
		assert.Equal(t, i, p.ID)
		assert.Equal(t, rects[i].Width, p.Width)
		assert.Equal(t, rects[i].Height, p.Height)
		area += uint64(p.Width+2) * uint64(p.Height+2)
	}
	assert.LessOrEqual(t, uint64(result.Width)*uint64(result.Height), area*2)

	again, err := Pack(rects, 2)
	require.NoError(t, err)
	assert.Equal(t, result, again)
}

func TestPackSingle(t *testing.T) {
	result, err := Pack([]Rect{{ID: 5, Width: 7, Height: 3}}, 0)
	require.NoError(t, err)
	assert.Equal(t, Result{
		Placements: []PackedRect{{ID: 5, Width: 7, Height: 3}},
		Width:      7,
		Height:     3,
	}, result)
}

func TestPackInvalid(t *testing.T) {
	_, err := Pack([]Rect{
		{ID: 0, Width: 10, Height: 10},
		{ID: 1, Width: 0, Height: 5},
	}, 0)
	var invalid InvalidRectError
	require.True(t, errors.As(err, &invalid))
	assert.Equal(t, InvalidRectError{ID: 1, Width: 0, Height: 5}, invalid)

	result, err := Pack(nil, 4)
	require.NoError(t, err)
	assert.Empty(t, result.Placements)
	assert.Zero(t, result.Width)
}

func TestSkylineAdd(t *testing.T) {
	line := newSkyline(30)
	line.insert(box{id: 0, width: 10, height: 5})
	line.insert(box{id: 1, width: 10, height: 5})
	assert.Equal(t, []skylineNode{{x: 0, y: 5, width: 20}, {x: 20, y: 0, width: 10}}, line.nodes)

	p := line.insert(box{id: 2, width: 15, height: 2})
	assert.Equal(t, 0, p.x)
	assert.Equal(t, 5, p.y)
}
