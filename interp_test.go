package bfcc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runProgram(t *testing.T, src string, level int, stdin string) string {
	t.Helper()
	nodes, err := Parse([]byte(src))
	require.NoError(t, err)
	nodes = Optimize(nodes, level)

	var out bytes.Buffer
	ip := NewInterpreter(strings.NewReader(stdin), &out)
	require.NoError(t, ip.Run(nodes))
	return out.String()
}

func TestInterpreterHelloAtEachLevel(t *testing.T) {
	const hello = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++."
	for level := 0; level <= 3; level++ {
		assert.Equal(t, "Hello", runProgram(t, hello, level, ""), "level %d", level)
	}
}

func TestInterpreterSimpleLoopMultiply(t *testing.T) {
	nodes, err := Parse([]byte("+++++[->+++<]"))
	require.NoError(t, err)
	nodes = Optimize(nodes, 3)

	ip := NewInterpreter(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, ip.Run(nodes))
	assert.Equal(t, byte(0), ip.tape[ip.pointer])
	assert.Equal(t, byte(15), ip.tape[ip.pointer+1])
}

func TestInterpreterFoldZeroLoop(t *testing.T) {
	nodes, err := Parse([]byte("++++++++++++++++++++++++++++++++++++++++++++[-]"))
	require.NoError(t, err)
	nodes = Optimize(nodes, 2)

	ip := NewInterpreter(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, ip.Run(nodes))
	assert.Equal(t, byte(0), ip.tape[ip.pointer])
}

func TestInterpreterInputEOFWrites0xFF(t *testing.T) {
	out := runProgram(t, ",.", 1, "")
	require.Len(t, out, 1)
	assert.Equal(t, byte(0xFF), out[0])
}

func TestInterpreterScanRight(t *testing.T) {
	nodes, err := Parse([]byte(">+>+>+>+>+[>]"))
	require.NoError(t, err)
	nodes = Optimize(nodes, 3)

	ip := NewInterpreter(strings.NewReader(""), &bytes.Buffer{})
	require.NoError(t, ip.Run(nodes))
	// Cells P0+1..P0+5 hold 1, so the scan stops on the first zero at P0+6.
	assert.Equal(t, InitialPointer+6, ip.pointer)
}

func TestInterpreterLevelsAgree(t *testing.T) {
	const src = "+++[->+++<]>++[-<+>]<."
	var outs []string
	for level := 0; level <= 3; level++ {
		outs = append(outs, runProgram(t, src, level, ""))
	}
	for _, o := range outs[1:] {
		assert.Equal(t, outs[0], o)
	}
}
