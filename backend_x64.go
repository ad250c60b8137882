package bfcc

import (
	"fmt"
	"strings"
)

// X64Generator emits textual AT&T-syntax x86-64 assembly for an IR tree.
// It only gets as far as producing the .s text: handing that text to an
// external assembler and linker is a separate concern this package doesn't
// own. The struct-per-method emission style and the two callee-saved
// registers for pointer/scratch mirror lcox74/bfcc's X86_64Generator
// (internal/codegen/linux/x86_64.go), adapted from raw machine-code bytes
// to textual instructions so fixups become ordinary assembler labels
// instead of a patch-list.
type X64Generator struct {
	b        strings.Builder
	data     strings.Builder
	labelSeq int
	needSIMD map[int]bool // skip widths that need a .data mask emitted
}

// NewX64Generator returns an empty generator.
func NewX64Generator() *X64Generator {
	return &X64Generator{needSIMD: make(map[int]bool)}
}

// Generate returns the full assembly file text for nodes.
func (g *X64Generator) Generate(nodes []*Node) string {
	g.collectSIMDMasks(nodes)

	g.emitHeader()
	g.emitDataSection()
	g.line(".section .text")
	g.line(".globl main")
	g.label("main")
	g.emitPrologue()
	g.emitBlock(nodes)
	g.emitEpilogue()
	return g.b.String()
}

func (g *X64Generator) line(format string, args ...any) {
	fmt.Fprintf(&g.b, format+"\n", args...)
}

func (g *X64Generator) label(name string) {
	fmt.Fprintf(&g.b, "%s:\n", name)
}

func (g *X64Generator) nextLabel() int {
	g.labelSeq++
	return g.labelSeq
}

func (g *X64Generator) emitHeader() {
	g.line("# generated by bfcc; AT&T syntax, callee-saved %%r12 = tape")
	g.line("# pointer, %%r13b = scratch byte")
}

// collectSIMDMasks scans the tree for Scan nodes whose skip is 2 or 4 (the
// widths the AVX2 templates handle) so Generate only emits the masks
// actually referenced.
func (g *X64Generator) collectSIMDMasks(nodes []*Node) {
	for _, n := range nodes {
		if n.Kind == KindScan && (n.Skip == 2 || n.Skip == 4) {
			g.needSIMD[n.Skip] = true
		}
		if n.Kind == KindLoop {
			g.collectSIMDMasks(n.Body)
		}
	}
}

func (g *X64Generator) emitDataSection() {
	g.line(".section .data")
	g.line(".align 32")
	if g.needSIMD[2] {
		g.line("mask_skip2:")
		g.line("  .byte 0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0")
		g.line("  .byte 0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0")
		g.line("mask_skip2_reverse:")
		g.line("  .byte 0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff")
		g.line("  .byte 0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff,0,0xff")
	}
	if g.needSIMD[4] {
		g.line("mask_skip4:")
		g.line("  .byte 0xff,0,0,0,0xff,0,0,0,0xff,0,0,0,0xff,0,0,0")
		g.line("  .byte 0xff,0,0,0,0xff,0,0,0,0xff,0,0,0,0xff,0,0,0")
		g.line("mask_skip4_reverse:")
		g.line("  .byte 0,0,0,0xff,0,0,0,0xff,0,0,0,0xff,0,0,0,0xff")
		g.line("  .byte 0,0,0,0xff,0,0,0,0xff,0,0,0,0xff,0,0,0,0xff")
	}
}

func (g *X64Generator) emitPrologue() {
	g.line("  push %%r12")
	g.line("  push %%r13")
	g.line("  sub $%d, %%rsp", TapeSize)
	g.line("  mov %%rsp, %%r12")
	g.line("  add $%d, %%r12  # P0 = T/2", InitialPointer)
}

func (g *X64Generator) emitEpilogue() {
	g.line("  add $%d, %%rsp", TapeSize)
	g.line("  pop %%r13")
	g.line("  pop %%r12")
	g.line("  xor %%eax, %%eax")
	g.line("  ret")
}

func (g *X64Generator) emitBlock(nodes []*Node) {
	for _, n := range nodes {
		g.emitNode(n)
	}
}

func (g *X64Generator) emitNode(n *Node) {
	switch n.Kind {
	case KindIncPointer:
		g.line("  add $%d, %%r12", n.Amount)
	case KindDecPointer:
		g.line("  sub $%d, %%r12", n.Amount)
	case KindIncData:
		g.line("  addb $%d, %d(%%r12)", n.Amount, n.Offset)
	case KindDecData:
		g.line("  subb $%d, %d(%%r12)", n.Amount, n.Offset)
	case KindSetData:
		g.line("  movb $%d, %d(%%r12)", n.Value, n.Offset)
	case KindOutput:
		g.emitOutput(n)
	case KindInput:
		g.emitInput(n)
	case KindAddOffsetData:
		g.emitOffsetData(n, false)
	case KindSubOffsetData:
		g.emitOffsetData(n, true)
	case KindScan:
		g.emitScan(n)
	case KindLoop:
		g.emitLoop(n)
	}
}

func (g *X64Generator) emitOutput(n *Node) {
	if n.OutKind == OutputConst {
		g.line("  movl $%d, %%edi", n.Value)
	} else {
		g.line("  movzbl %d(%%r12), %%edi", n.Offset)
	}
	g.line("  call putchar@PLT")
}

func (g *X64Generator) emitInput(n *Node) {
	g.line("  call getchar@PLT")
	g.line("  cmp $-1, %%eax        # EOF -> 0xFF")
	g.line("  jne 1f")
	g.line("  mov $0xff, %%eax")
	g.line("1:")
	g.line("  movb %%al, %d(%%r12)", n.Offset)
}

func (g *X64Generator) emitOffsetData(n *Node, subtract bool) {
	g.line("  movb %d(%%r12), %%r13b", n.SrcOffset)
	if n.Inverted {
		g.line("  negb %%r13b")
	}
	if n.Multiplier != 1 {
		g.line("  imul $%d, %%r13, %%r13  # byte-widened multiplier", n.Multiplier)
	}
	if subtract {
		g.line("  subb %%r13b, %d(%%r12)", n.DestOffset)
	} else {
		g.line("  addb %%r13b, %d(%%r12)", n.DestOffset)
	}
}

// emitLoop emits the condition/body/end label triple every Loop lowers to,
// labelled loopN/loopN_end for readability in generated listings.
func (g *X64Generator) emitLoop(n *Node) {
	id := n.ID
	g.line("  jmp loop%d_cond", id)
	g.label(fmt.Sprintf("loop%d", id))
	g.emitBlock(n.Body)
	g.label(fmt.Sprintf("loop%d_cond", id))
	g.line("  cmpb $0, (%%r12)")
	g.line("  jne loop%d", id)
	g.label(fmt.Sprintf("loop%d_end", id))
}

// emitScan lowers a Scan to an AVX2 SIMD template for skip 1 (no mask) and
// for skip 2 and 4 (using the mask tables in .data), or to a scalar byte
// loop for any other skip. The SIMD templates use bsf/bsr to find the first
// zero byte once ymm0 reports one in the 32-byte window.
func (g *X64Generator) emitScan(n *Node) {
	switch n.Skip {
	case 1:
		g.emitScanSIMD1(n)
	case 2, 4:
		g.emitScanSIMDStrided(n)
	default:
		g.emitScanScalar(n)
	}
}

func (g *X64Generator) emitScanScalar(n *Node) {
	id := g.nextLabel()
	step := n.Skip
	if n.Direction == DirLeft {
		step = -step
	}
	g.label(fmt.Sprintf("scan%d", id))
	g.line("  cmpb $0, (%%r12)")
	g.line("  je scan%d_end", id)
	if step > 0 {
		g.line("  add $%d, %%r12", step)
	} else {
		g.line("  sub $%d, %%r12", -step)
	}
	g.line("  jmp scan%d", id)
	g.label(fmt.Sprintf("scan%d_end", id))
}

// emitScanSIMD1 loads 32 contiguous bytes at a time (stride 1 scans touch
// every cell), looks for any nonzero-compare-to-zero mismatch with
// vpcmpeqb, and uses bsf/bsr on the resulting mask to land the pointer
// exactly on the first zero byte.
func (g *X64Generator) emitScanSIMD1(n *Node) {
	id := g.nextLabel()
	g.line("  vpxor %%ymm1, %%ymm1, %%ymm1")
	g.label(fmt.Sprintf("scan%d_block", id))
	if n.Direction == DirRight {
		g.line("  vmovdqu (%%r12), %%ymm0")
	} else {
		g.line("  vmovdqu -31(%%r12), %%ymm0")
	}
	g.line("  vpcmpeqb %%ymm1, %%ymm0, %%ymm0")
	g.line("  vpmovmskb %%ymm0, %%eax")
	g.line("  test %%eax, %%eax")
	g.line("  jnz scan%d_found", id)
	if n.Direction == DirRight {
		g.line("  add $32, %%r12")
	} else {
		g.line("  sub $32, %%r12")
	}
	g.line("  jmp scan%d_block", id)
	g.label(fmt.Sprintf("scan%d_found", id))
	if n.Direction == DirRight {
		g.line("  bsf %%eax, %%eax")
		g.line("  add %%rax, %%r12")
	} else {
		g.line("  bsr %%eax, %%eax")
		g.line("  sub $31, %%rax")
		g.line("  neg %%rax")
		g.line("  sub %%rax, %%r12")
	}
}

// emitScanSIMDStrided handles skip 2 and skip 4: the mask tables zero out
// every lane the stride doesn't actually visit, so the same compare/mask
// idiom as emitScanSIMD1 still lands on the first visited zero byte.
func (g *X64Generator) emitScanSIMDStrided(n *Node) {
	id := g.nextLabel()
	maskName := fmt.Sprintf("mask_skip%d", n.Skip)
	if n.Direction == DirLeft {
		maskName += "_reverse"
	}
	g.line("  vpxor %%ymm1, %%ymm1, %%ymm1")
	g.line("  vmovdqa %s(%%rip), %%ymm2", maskName)
	g.label(fmt.Sprintf("scan%d_block", id))
	if n.Direction == DirRight {
		g.line("  vmovdqu (%%r12), %%ymm0")
	} else {
		g.line("  vmovdqu -31(%%r12), %%ymm0")
	}
	g.line("  vpcmpeqb %%ymm1, %%ymm0, %%ymm0")
	g.line("  vpand %%ymm2, %%ymm0, %%ymm0")
	g.line("  vpmovmskb %%ymm0, %%eax")
	g.line("  test %%eax, %%eax")
	g.line("  jnz scan%d_found", id)
	if n.Direction == DirRight {
		g.line("  add $32, %%r12")
	} else {
		g.line("  sub $32, %%r12")
	}
	g.line("  jmp scan%d_block", id)
	g.label(fmt.Sprintf("scan%d_found", id))
	if n.Direction == DirRight {
		g.line("  bsf %%eax, %%eax")
		g.line("  add %%rax, %%r12")
	} else {
		g.line("  bsr %%eax, %%eax")
		g.line("  sub $31, %%rax")
		g.line("  neg %%rax")
		g.line("  sub %%rax, %%r12")
	}
}
