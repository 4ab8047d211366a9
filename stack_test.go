package thirdvm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStackPushPop(t *testing.T) {
	var s Stack
	s.Push(1)
	s.Push(2)
	v, err := s.Pop(DataStackUnderflowError{})
	require.NoError(t, err)
	assert.Equal(t, uint32(2), v)
	assert.Equal(t, 1, s.Len())
}

func TestStackUnderflow(t *testing.T) {
	var s Stack
	_, err := s.Pop(DataStackUnderflowError{})
	assert.Equal(t, DataStackUnderflowError{}, err)
}

func TestStackClear(t *testing.T) {
	var s Stack
	s.Push(1)
	s.Push(2)
	s.Clear()
	assert.Equal(t, 0, s.Len())
}
