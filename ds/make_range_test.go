package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMakeRange(t *testing.T) {
	assert.Equal(t, []int{0, 1, 2}, MakeRange(0, 3, 1))
	assert.Equal(t, []uint32{0, 2, 4}, MakeRange[uint32](0, 5, 2))
	assert.Equal(t, []int{}, MakeRange(3, 3, 1))
}
