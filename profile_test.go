package bfcc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileClassifiesLoopsAndCounts(t *testing.T) {
	// A simple loop (zeroing [-]) and a non-simple loop (reads Input).
	nodes, err := Parse([]byte("+++[-]++[,>]"))
	require.NoError(t, err)
	nodes = Optimize(nodes, 1) // keep loops intact; don't let Pass C erase them

	var out bytes.Buffer
	ip := NewInterpreter(strings.NewReader("x"), &bytes.Buffer{})
	require.NoError(t, ip.Run(nodes))

	require.NoError(t, Profile(&out, nodes))
	text := out.String()

	assert.Contains(t, text, "Simple loop at index")
	assert.Contains(t, text, "Non-simple loop at index")
}

func TestProfileLineFormat(t *testing.T) {
	nodes, err := Parse([]byte("+"))
	require.NoError(t, err)

	var out bytes.Buffer
	ip := NewInterpreter(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, ip.Run(nodes))
	require.NoError(t, Profile(&out, nodes))

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 1)
	assert.Regexp(t, `^\s*0 : IncData\(0, 1\) : 1$`, lines[0])
}
