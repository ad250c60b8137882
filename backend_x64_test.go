package bfcc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestX64GeneratorEmitsPrologueAndEpilogue(t *testing.T) {
	nodes := mustParse(t, "+")
	text := NewX64Generator().Generate(nodes)

	assert.Contains(t, text, "main:")
	assert.Contains(t, text, "%r12")
	assert.Contains(t, text, "addb $1, 0(%r12)")
	assert.Contains(t, text, "ret")
}

func TestX64GeneratorLoopLabels(t *testing.T) {
	nodes := mustParse(t, "[-]")
	text := NewX64Generator().Generate(nodes)

	assert.Contains(t, text, "loop1:")
	assert.Contains(t, text, "loop1_cond:")
	assert.Contains(t, text, "loop1_end:")
}

func TestX64GeneratorScanEmitsSIMDMaskForStride2(t *testing.T) {
	nodes := mustParse(t, "[>>]")
	out := Optimize(nodes, 3)
	text := NewX64Generator().Generate(out)

	assert.Contains(t, text, "mask_skip2:")
	assert.Contains(t, text, "vpcmpeqb")
	assert.Contains(t, text, "bsf")
}

func TestX64GeneratorScanStride1UsesSIMDWithoutMask(t *testing.T) {
	nodes := mustParse(t, "[>]")
	out := Optimize(nodes, 3)
	text := NewX64Generator().Generate(out)

	assert.False(t, strings.Contains(text, "mask_skip"))
	assert.Contains(t, text, "vpcmpeqb")
}

func TestX64GeneratorIOCallsLibc(t *testing.T) {
	nodes := mustParse(t, ".,")
	text := NewX64Generator().Generate(nodes)
	assert.Contains(t, text, "call putchar@PLT")
	assert.Contains(t, text, "call getchar@PLT")
}
