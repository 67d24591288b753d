package ds

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShallowCopy(t *testing.T) {
	original := []int{1, 2, 3}
	copied := ShallowCopy(original)
	copied[0] = 9

	assert.Equal(t, []int{1, 2, 3}, original)
	assert.Equal(t, []int{9, 2, 3}, copied)
}

func TestRepeat(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0}, Repeat(3, byte(0)))
	assert.Empty(t, Repeat(0, "x"))
}
