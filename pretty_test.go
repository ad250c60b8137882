package bfcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrettyPrintCanonicalTokens(t *testing.T) {
	nodes := mustParse(t, ">+<-.,")
	got := PrettyPrint(nodes)
	assert.Equal(t, ">\n+\n<\n-\n.\n,\n", got)
}

func TestPrettyPrintLoopIndentation(t *testing.T) {
	nodes := mustParse(t, "[[+]]")
	got := PrettyPrint(nodes)
	assert.Equal(t, "[\n  [\n    +\n  ]\n]\n", got)
}

func TestPrettyPrintOptimizedShapes(t *testing.T) {
	nodes := mustParse(t, "+++[->+++<]")
	out := Optimize(nodes, 3)
	got := PrettyPrint(out)

	require.Contains(t, got, "(0+3)")
	require.Contains(t, got, "(1+=(0*3))")
	require.Contains(t, got, "(0=0)")
}

func TestPrettyPrintScan(t *testing.T) {
	nodes := mustParse(t, "[>>]")
	out := Optimize(nodes, 3)
	got := PrettyPrint(out)
	assert.Equal(t, "[(>2)]\n", got)
}
