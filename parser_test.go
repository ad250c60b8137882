package bfcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCanonicalShapes(t *testing.T) {
	nodes, err := Parse([]byte(">+<-.,[+]"))
	require.NoError(t, err)

	require.Len(t, nodes, 7)
	assert.Equal(t, KindIncPointer, nodes[0].Kind)
	assert.Equal(t, 1, nodes[0].Amount)
	assert.Equal(t, KindIncData, nodes[1].Kind)
	assert.Equal(t, 0, nodes[1].Offset)
	assert.Equal(t, 1, nodes[1].Amount)
	assert.Equal(t, KindDecPointer, nodes[2].Kind)
	assert.Equal(t, KindDecData, nodes[3].Kind)
	assert.Equal(t, KindOutput, nodes[4].Kind)
	assert.Equal(t, OutputCell, nodes[4].OutKind)
	assert.Equal(t, 0, nodes[4].Offset)
	assert.Equal(t, KindInput, nodes[5].Kind)

	loop := nodes[6]
	assert.Equal(t, KindLoop, loop.Kind)
	assert.Equal(t, 1, loop.ID)
	require.Len(t, loop.Body, 1)
	assert.Equal(t, KindIncData, loop.Body[0].Kind)
}

func TestParseSkipsNonCommandBytes(t *testing.T) {
	nodes, err := Parse([]byte("+ this is a comment\n- ok"))
	require.NoError(t, err)
	require.Len(t, nodes, 2)
	assert.Equal(t, KindIncData, nodes[0].Kind)
	assert.Equal(t, KindDecData, nodes[1].Kind)
}

func TestParseLoopIDsAssignedOnClose(t *testing.T) {
	// outer closes last, so it gets the higher id despite opening first.
	nodes, err := Parse([]byte("[[+]]"))
	require.NoError(t, err)
	require.Len(t, nodes, 1)

	outer := nodes[0]
	require.Len(t, outer.Body, 1)
	inner := outer.Body[0]

	assert.Equal(t, 1, inner.ID)
	assert.Equal(t, 2, outer.ID)
}

func TestParseUnmatchedOpen(t *testing.T) {
	_, err := Parse([]byte("[+"))
	assert.ErrorIs(t, err, ErrUnmatchedOpen)
}

func TestParseUnmatchedClose(t *testing.T) {
	_, err := Parse([]byte("+]"))
	assert.ErrorIs(t, err, ErrUnmatchedClose)
}

func TestParseEmptySource(t *testing.T) {
	nodes, err := Parse(nil)
	require.NoError(t, err)
	assert.Empty(t, nodes)
}
