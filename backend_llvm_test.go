package bfcc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLLVMGeneratorEmitsModuleShape(t *testing.T) {
	nodes := mustParse(t, "+.")
	text := NewLLVMGenerator().Generate(nodes)

	assert.Contains(t, text, "define i32 @main()")
	assert.Contains(t, text, "declare i32 @putchar(i32)")
	assert.Contains(t, text, "declare i32 @getchar()")
	assert.Contains(t, text, "ret i32 0")
}

func TestLLVMGeneratorLoopBasicBlocks(t *testing.T) {
	nodes := mustParse(t, "[-]")
	text := NewLLVMGenerator().Generate(nodes)

	assert.Contains(t, text, "loop1_cond:")
	assert.Contains(t, text, "loop1_body:")
	assert.Contains(t, text, "loop1_end:")
}

func TestLLVMGeneratorScanLowersToLoopNotIntrinsic(t *testing.T) {
	nodes := mustParse(t, "[>>]")
	out := Optimize(nodes, 3)
	text := NewLLVMGenerator().Generate(out)

	// Scans rely on the autovectorizer, so they still look like an
	// ordinary loop in the emitted IR rather than a hand-written
	// vector loop.
	assert.Contains(t, text, "loop1_cond:")
	assert.Contains(t, text, "getelementptr i8, i8* %t")
}
