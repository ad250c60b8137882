package bfcc

import (
	"bufio"
	"io"
)

// TapeSize and InitialPointer fix the reference interpreter's tape model:
// a 2^20-byte tape with the pointer starting in the middle, so a program
// can move either direction without an explicit bounds check on every
// access.
const (
	TapeSize       = 1 << 20
	InitialPointer = TapeSize / 2
)

// Interpreter tree-walks an IR program against a flat byte tape, mutating
// each visited Node's profiling counters as it goes. Calling Run again
// continues on the same tape and pointer, and the counters keep
// accumulating — callers that want a clean profile should call
// ResetCounters on every node of the tree first.
type Interpreter struct {
	tape    [TapeSize]byte
	pointer int

	in  *bufio.Reader
	out io.Writer
}

// NewInterpreter builds an Interpreter reading from in and writing to out.
func NewInterpreter(in io.Reader, out io.Writer) *Interpreter {
	return &Interpreter{
		pointer: InitialPointer,
		in:      bufio.NewReader(in),
		out:     out,
	}
}

// Run executes nodes in order against the interpreter's tape.
func (ip *Interpreter) Run(nodes []*Node) error {
	return ip.exec(nodes)
}

func (ip *Interpreter) exec(nodes []*Node) error {
	for _, n := range nodes {
		if err := ip.step(n); err != nil {
			return err
		}
	}
	return nil
}

func (ip *Interpreter) step(n *Node) error {
	switch n.Kind {
	case KindIncPointer:
		ip.pointer += n.Amount
		n.Count++

	case KindDecPointer:
		ip.pointer -= n.Amount
		n.Count++

	case KindIncData:
		ip.tape[ip.pointer+n.Offset] += byte(n.Amount)
		n.Count++

	case KindDecData:
		ip.tape[ip.pointer+n.Offset] -= byte(n.Amount)
		n.Count++

	case KindSetData:
		ip.tape[ip.pointer+n.Offset] = n.Value
		n.Count++

	case KindScan:
		step := n.Skip
		if n.Direction == DirLeft {
			step = -step
		}
		for ip.tape[ip.pointer] != 0 {
			ip.pointer += step
		}
		n.Count++

	case KindAddOffsetData:
		ip.applyOffsetData(n, false)
		n.Count++

	case KindSubOffsetData:
		ip.applyOffsetData(n, true)
		n.Count++

	case KindOutput:
		var b byte
		if n.OutKind == OutputConst {
			b = n.Value
		} else {
			b = ip.tape[ip.pointer+n.Offset]
		}
		if _, err := ip.out.Write([]byte{b}); err != nil {
			return err
		}
		n.Count++

	case KindInput:
		b, err := ip.in.ReadByte()
		if err == io.EOF {
			b = 0xFF
		} else if err != nil {
			return err
		}
		ip.tape[ip.pointer+n.Offset] = b
		n.Count++

	case KindLoop:
		for {
			n.StartCount++
			if ip.tape[ip.pointer] == 0 {
				break
			}
			if err := ip.exec(n.Body); err != nil {
				return err
			}
			n.EndCount++
		}
	}
	return nil
}

func (ip *Interpreter) applyOffsetData(n *Node, subtract bool) {
	src := ip.tape[ip.pointer+n.SrcOffset]
	contribution := src * byte(n.Multiplier)
	if n.Inverted {
		contribution = -contribution
	}
	dstAddr := ip.pointer + n.DestOffset
	if subtract {
		ip.tape[dstAddr] -= contribution
	} else {
		ip.tape[dstAddr] += contribution
	}
}
