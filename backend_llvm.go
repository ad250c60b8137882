package bfcc

import (
	"fmt"
	"strings"
)

// LLVMGenerator emits textual LLVM IR for an IR tree. Like X64Generator, it
// stops at producing the .ll text — driving an actual LLVM API binding to
// lower, optimize or JIT that text is out of scope here. Scans are lowered
// to a plain conditional-branch loop rather than a hand-written vector
// loop, trusting LLVM's autovectorizer rather than special-casing Scan.
type LLVMGenerator struct {
	b       strings.Builder
	tempSeq int
}

// NewLLVMGenerator returns an empty generator.
func NewLLVMGenerator() *LLVMGenerator {
	return &LLVMGenerator{}
}

func (g *LLVMGenerator) line(format string, args ...any) {
	fmt.Fprintf(&g.b, format+"\n", args...)
}

func (g *LLVMGenerator) temp() string {
	g.tempSeq++
	return fmt.Sprintf("%%t%d", g.tempSeq)
}

// Generate returns the full module text for nodes.
func (g *LLVMGenerator) Generate(nodes []*Node) string {
	g.emitHeader()
	g.line("define i32 @main() {")
	g.line("entry:")
	g.line("  %%tape = alloca [%d x i8]", TapeSize)
	g.line("  %%p = alloca i8*")
	g.line("  %%p0 = getelementptr [%d x i8], [%d x i8]* %%tape, i64 0, i64 %d", TapeSize, TapeSize, InitialPointer)
	g.line("  store i8* %%p0, i8** %%p")
	g.emitBlock(nodes)
	g.line("  ret i32 0")
	g.line("}")
	return g.b.String()
}

func (g *LLVMGenerator) emitHeader() {
	g.line("; generated by bfcc --llvm")
	g.line("declare i32 @getchar()")
	g.line("declare i32 @putchar(i32)")
	g.line("")
}

func (g *LLVMGenerator) loadPointer() string {
	t := g.temp()
	g.line("  %s = load i8*, i8** %%p", t)
	return t
}

func (g *LLVMGenerator) storePointer(v string) {
	g.line("  store i8* %s, i8** %%p", v)
}

func (g *LLVMGenerator) cellAddr(offset int) string {
	p := g.loadPointer()
	addr := g.temp()
	g.line("  %s = getelementptr i8, i8* %s, i64 %d", addr, p, offset)
	return addr
}

func (g *LLVMGenerator) loadCell(offset int) string {
	addr := g.cellAddr(offset)
	v := g.temp()
	g.line("  %s = load i8, i8* %s", v, addr)
	return v
}

func (g *LLVMGenerator) storeCell(offset int, v string) {
	addr := g.cellAddr(offset)
	g.line("  store i8 %s, i8* %s", v, addr)
}

func (g *LLVMGenerator) emitBlock(nodes []*Node) {
	for _, n := range nodes {
		g.emitNode(n)
	}
}

func (g *LLVMGenerator) emitNode(n *Node) {
	switch n.Kind {
	case KindIncPointer, KindDecPointer:
		p := g.loadPointer()
		delta := n.Amount
		if n.Kind == KindDecPointer {
			delta = -delta
		}
		np := g.temp()
		g.line("  %s = getelementptr i8, i8* %s, i64 %d", np, p, delta)
		g.storePointer(np)

	case KindIncData, KindDecData:
		v := g.loadCell(n.Offset)
		r := g.temp()
		if n.Kind == KindIncData {
			g.line("  %s = add i8 %s, %d", r, v, n.Amount)
		} else {
			g.line("  %s = sub i8 %s, %d", r, v, n.Amount)
		}
		g.storeCell(n.Offset, r)

	case KindSetData:
		g.storeCell(n.Offset, fmt.Sprintf("%d", n.Value))

	case KindOutput:
		var byteVal string
		if n.OutKind == OutputConst {
			byteVal = fmt.Sprintf("%d", n.Value)
		} else {
			byteVal = g.loadCell(n.Offset)
		}
		ext := g.temp()
		g.line("  %s = zext i8 %s to i32", ext, byteVal)
		g.line("  call i32 @putchar(i32 %s)", ext)

	case KindInput:
		raw := g.temp()
		g.line("  %s = call i32 @getchar()", raw)
		isEOF := g.temp()
		g.line("  %s = icmp eq i32 %s, -1", isEOF, raw)
		byteVal := g.temp()
		g.line("  %s = trunc i32 %s to i8", byteVal, raw)
		final := g.temp()
		g.line("  %s = select i1 %s, i8 -1, i8 %s", final, isEOF, byteVal)
		g.storeCell(n.Offset, final)

	case KindAddOffsetData, KindSubOffsetData:
		src := g.loadCell(n.SrcOffset)
		contribution := src
		if n.Inverted {
			neg := g.temp()
			g.line("  %s = sub i8 0, %s", neg, src)
			contribution = neg
		}
		if n.Multiplier != 1 {
			scaled := g.temp()
			g.line("  %s = mul i8 %s, %d", scaled, contribution, n.Multiplier)
			contribution = scaled
		}
		dst := g.loadCell(n.DestOffset)
		r := g.temp()
		if n.Kind == KindAddOffsetData {
			g.line("  %s = add i8 %s, %s", r, dst, contribution)
		} else {
			g.line("  %s = sub i8 %s, %s", r, dst, contribution)
		}
		g.storeCell(n.DestOffset, r)

	case KindScan:
		g.emitScanAsLoop(n)

	case KindLoop:
		g.emitLoop(n)
	}
}

// emitScanAsLoop lowers a Scan to the same cond/body/end shape as a general
// Loop whose only body statement is a pointer move, relying on LLVM's
// autovectorizer to find the SIMD form the x86-64 backend hand-writes.
func (g *LLVMGenerator) emitScanAsLoop(n *Node) {
	var step *Node
	if n.Direction == DirRight {
		step = IncPointer(n.Skip)
	} else {
		step = DecPointer(n.Skip)
	}
	g.emitLoop(LoopNode(n.ID, []*Node{step}))
}

func (g *LLVMGenerator) emitLoop(n *Node) {
	id := n.ID
	condLabel := fmt.Sprintf("loop%d_cond", id)
	bodyLabel := fmt.Sprintf("loop%d_body", id)
	endLabel := fmt.Sprintf("loop%d_end", id)

	g.line("  br label %%%s", condLabel)
	g.line("%s:", condLabel)
	v := g.loadCell(0)
	isZero := g.temp()
	g.line("  %s = icmp eq i8 %s, 0", isZero, v)
	g.line("  br i1 %s, label %%%s, label %%%s", isZero, endLabel, bodyLabel)
	g.line("%s:", bodyLabel)
	g.emitBlock(n.Body)
	g.line("  br label %%%s", condLabel)
	g.line("%s:", endLabel)
}
