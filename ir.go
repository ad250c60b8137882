// Package bfcc implements an optimizing ahead-of-time compiler and a
// reference interpreter for a minimal eight-token tape-machine language
// (the "brainfuck" family): > < + - . , [ ].
//
// The pipeline is: Parse -> Optimize -> (optional) PartialEval -> {Interpreter |
// backend}. See ir.go for the intermediate representation all stages share.
package bfcc

// Kind tags the variant fields a Node carries. Node is a flat struct rather
// than a Go interface hierarchy so that the Optimizer and PartialEvaluator
// can rewrite nodes in place without type assertions on every visit — the
// same tradeoff a stack-machine instruction type makes by reusing generic
// Arg/Val/Name fields across unrelated opcodes.
type Kind int

const (
	KindIncPointer Kind = iota
	KindDecPointer
	KindIncData
	KindDecData
	KindSetData
	KindScan
	KindAddOffsetData
	KindSubOffsetData
	KindOutput
	KindInput
	KindLoop
)

func (k Kind) String() string {
	switch k {
	case KindIncPointer:
		return "IncPointer"
	case KindDecPointer:
		return "DecPointer"
	case KindIncData:
		return "IncData"
	case KindDecData:
		return "DecData"
	case KindSetData:
		return "SetData"
	case KindScan:
		return "Scan"
	case KindAddOffsetData:
		return "AddOffsetData"
	case KindSubOffsetData:
		return "SubOffsetData"
	case KindOutput:
		return "Output"
	case KindInput:
		return "Input"
	case KindLoop:
		return "Loop"
	default:
		return "Unknown"
	}
}

// Direction is the pointer-motion direction of a Scan.
type Direction int

const (
	DirRight Direction = iota
	DirLeft
)

func (d Direction) String() string {
	if d == DirLeft {
		return "Left"
	}
	return "Right"
}

// OutputKind selects what an Output node emits.
type OutputKind int

const (
	OutputCell OutputKind = iota
	OutputConst
)

// Node is a single IR instruction. Only the fields relevant to Kind are
// meaningful; the rest are zero. Loop is the only node with children.
//
// Field reuse by Kind:
//
//	IncPointer/DecPointer:    Amount (>=1)
//	IncData/DecData:          Offset, Amount (1..255)
//	SetData:                  Offset, Value
//	Scan:                     ID, Direction, Skip
//	AddOffsetData/SubOffsetData: DestOffset, SrcOffset, Multiplier, Inverted
//	Output:                   OutKind, Offset (OutputCell) or Value (OutputConst)
//	Input:                    Offset
//	Loop:                     ID, Body
type Node struct {
	Kind Kind

	Amount int
	Offset int
	Value  uint8

	Direction Direction
	Skip      int

	DestOffset int
	SrcOffset  int
	Multiplier int
	Inverted   bool

	OutKind OutputKind

	ID   int
	Body []*Node

	// Count is incremented once per execution by the Interpreter for every
	// kind except Loop, which uses StartCount/EndCount instead. Mutated only
	// by the Interpreter; every other stage treats it as read-only or
	// resets it to zero on replacement.
	Count      uint64
	StartCount uint64
	EndCount   uint64
}

// IncPointer returns a canonical `p += amount` node.
func IncPointer(amount int) *Node { return &Node{Kind: KindIncPointer, Amount: amount} }

// DecPointer returns a canonical `p -= amount` node.
func DecPointer(amount int) *Node { return &Node{Kind: KindDecPointer, Amount: amount} }

// IncData returns a canonical `tape[p+offset] += amount` node.
func IncData(offset int, amount uint8) *Node {
	return &Node{Kind: KindIncData, Offset: offset, Amount: int(amount)}
}

// DecData returns a canonical `tape[p+offset] -= amount` node.
func DecData(offset int, amount uint8) *Node {
	return &Node{Kind: KindDecData, Offset: offset, Amount: int(amount)}
}

// SetDataNode returns a `tape[p+offset] = value` node.
func SetDataNode(offset int, value uint8) *Node {
	return &Node{Kind: KindSetData, Offset: offset, Value: value}
}

// ScanNode returns a `while tape[p] != 0: p += dir*skip` node, preserving id
// for label generation in backends.
func ScanNode(id int, dir Direction, skip int) *Node {
	return &Node{Kind: KindScan, ID: id, Direction: dir, Skip: skip}
}

// AddOffsetDataNode returns `tape[p+dst] += f(tape[p+src])*mult` where f is
// identity (inverted=false) or two's-complement negation (inverted=true).
func AddOffsetDataNode(dst, src, mult int, inverted bool) *Node {
	return &Node{Kind: KindAddOffsetData, DestOffset: dst, SrcOffset: src, Multiplier: mult, Inverted: inverted}
}

// SubOffsetDataNode returns the subtracting counterpart of AddOffsetDataNode.
func SubOffsetDataNode(dst, src, mult int, inverted bool) *Node {
	return &Node{Kind: KindSubOffsetData, DestOffset: dst, SrcOffset: src, Multiplier: mult, Inverted: inverted}
}

// OutputCellNode emits the byte at tape[p+offset].
func OutputCellNode(offset int) *Node {
	return &Node{Kind: KindOutput, OutKind: OutputCell, Offset: offset}
}

// OutputConstNode emits a byte known at compile time.
func OutputConstNode(v uint8) *Node {
	return &Node{Kind: KindOutput, OutKind: OutputConst, Value: v}
}

// InputNode reads one byte into tape[p+offset]; EOF stores 0xFF.
func InputNode(offset int) *Node {
	return &Node{Kind: KindInput, Offset: offset}
}

// LoopNode returns a `while tape[p] != 0: body` node with the given id.
func LoopNode(id int, body []*Node) *Node {
	return &Node{Kind: KindLoop, ID: id, Body: body}
}

// ResetCounters zeroes the profiling counters of a single node (not its
// Body). CloneShallow uses it so a copy never inherits a stale count from
// the node it copies.
func (n *Node) ResetCounters() {
	n.Count = 0
	n.StartCount = 0
	n.EndCount = 0
}

// CloneShallow returns a copy of n with a fresh (but aliased-body) Body
// slice header and zeroed counters. The tests use it to copy a tree so each
// run starts from nodes with zeroed counters.
func (n *Node) CloneShallow() *Node {
	cp := *n
	cp.ResetCounters()
	return &cp
}
