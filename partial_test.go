package bfcc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runBoth executes src both directly and through PartialEval first, and
// returns the output of each run so the caller can assert that partial
// evaluation preserves observable output. It compares nothing itself, and
// the final tapes are not compared.
func runBoth(t *testing.T, src string, level int, stdin string) (direct, residual string) {
	t.Helper()
	nodes := mustParse(t, src)
	nodes = Optimize(nodes, level)

	var directOut bytes.Buffer
	ip1 := NewInterpreter(strings.NewReader(stdin), &directOut)
	require.NoError(t, ip1.Run(cloneTree(nodes)))

	peNodes := PartialEval(cloneTree(nodes))
	var residualOut bytes.Buffer
	ip2 := NewInterpreter(strings.NewReader(stdin), &residualOut)
	require.NoError(t, ip2.Run(peNodes))

	return directOut.String(), residualOut.String()
}

func cloneTree(nodes []*Node) []*Node {
	out := make([]*Node, len(nodes))
	for i, n := range nodes {
		cp := n.CloneShallow()
		if n.Kind == KindLoop {
			cp.Body = cloneTree(n.Body)
		}
		out[i] = cp
	}
	return out
}

func TestPartialEvalFullyStaticProgram(t *testing.T) {
	const hello = "++++++++[>++++[>++>+++>+++>+<<<<-]>+>+>->>+[<]<-]>>.>---.+++++++..+++."
	direct, residual := runBoth(t, hello, 1, "")
	assert.Equal(t, "Hello", direct)
	assert.Equal(t, direct, residual)
}

func TestPartialEvalFoldsConstantOutputToConst(t *testing.T) {
	nodes := mustParse(t, "+++++.")
	out := PartialEval(nodes)
	require.Len(t, out, 1)
	assert.Equal(t, KindOutput, out[0].Kind)
	assert.Equal(t, OutputConst, out[0].OutKind)
	assert.Equal(t, uint8(5), out[0].Value)
}

func TestPartialEvalResidualizesInputAndDependentOutput(t *testing.T) {
	nodes := mustParse(t, "+,.")
	out := PartialEval(nodes)

	// The IncData before the Input folds away entirely (nothing observes
	// it at compile time); Input and the cell-dependent Output must
	// survive as residual nodes operating on the real tape.
	require.GreaterOrEqual(t, len(out), 2)
	last := out[len(out)-1]
	assert.Equal(t, KindOutput, last.Kind)
	assert.Equal(t, OutputCell, last.OutKind)
}

func TestPartialEvalSoundnessOnLoopWithUnknownGuard(t *testing.T) {
	direct, residual := runBoth(t, ",[.-]", 1, "\x03")
	assert.Equal(t, direct, residual)
}

func TestPartialEvalUnbalancedLoopAborts(t *testing.T) {
	nodes := mustParse(t, ",[>]")
	out := PartialEval(nodes)
	// Input is residual, and the trailing Loop moves the pointer without
	// returning it to where it started, so it is unbalanced and must be
	// spliced unchanged rather than widened.
	var sawLoop bool
	for _, n := range out {
		if n.Kind == KindLoop {
			sawLoop = true
		}
	}
	assert.True(t, sawLoop)
}
