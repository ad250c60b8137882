package bfcc

import (
	"fmt"
	"io"
	"sort"
)

// loopStat records one Loop node's execution count for the summary lists
// Profile prints after the per-node trace.
type loopStat struct {
	index int
	count uint64
}

// Profile walks nodes in the same pre-order the Interpreter executed them
// in, assigning each node a monotonic index, and writes one
// "%8d : <mnemonic> : %d" line per node to w, followed by two lists (simple
// loops, then non-simple loops) sorted by descending execution count.
// Counters must already be populated by a prior Interpreter.Run.
func Profile(w io.Writer, nodes []*Node) error {
	p := &profiler{w: w}
	if err := p.walk(nodes); err != nil {
		return err
	}
	return p.summarize()
}

type profiler struct {
	w           io.Writer
	index       int
	simpleLoops []loopStat
	otherLoops  []loopStat
}

func (p *profiler) walk(nodes []*Node) error {
	for _, n := range nodes {
		if err := p.visit(n); err != nil {
			return err
		}
	}
	return nil
}

func (p *profiler) visit(n *Node) error {
	idx := p.index
	p.index++

	count := n.Count
	if n.Kind == KindLoop {
		count = n.StartCount
	}

	if _, err := fmt.Fprintf(p.w, "%8d : %s : %d\n", idx, mnemonic(n), count); err != nil {
		return err
	}

	if n.Kind == KindLoop {
		if simple, _ := IsSimpleLoop(n); simple {
			p.simpleLoops = append(p.simpleLoops, loopStat{idx, n.StartCount})
		} else {
			p.otherLoops = append(p.otherLoops, loopStat{idx, n.StartCount})
		}
		return p.walk(n.Body)
	}
	return nil
}

func (p *profiler) summarize() error {
	sort.SliceStable(p.simpleLoops, func(i, j int) bool {
		return p.simpleLoops[i].count > p.simpleLoops[j].count
	})
	sort.SliceStable(p.otherLoops, func(i, j int) bool {
		return p.otherLoops[i].count > p.otherLoops[j].count
	})

	for _, s := range p.simpleLoops {
		if _, err := fmt.Fprintf(p.w, "Simple loop at index %d, executions: %d\n", s.index, s.count); err != nil {
			return err
		}
	}
	for _, s := range p.otherLoops {
		if _, err := fmt.Fprintf(p.w, "Non-simple loop at index %d, executions: %d\n", s.index, s.count); err != nil {
			return err
		}
	}
	return nil
}

// mnemonic formats a single node the way the per-node profile trace shows
// it: the node's kind name followed by its fields, e.g. IncData(0, 1) — a
// different form from PrettyPrint's symbolic tokens.
func mnemonic(n *Node) string {
	switch n.Kind {
	case KindIncPointer:
		return fmt.Sprintf("IncPointer(%d)", n.Amount)
	case KindDecPointer:
		return fmt.Sprintf("DecPointer(%d)", n.Amount)
	case KindIncData:
		return fmt.Sprintf("IncData(%d, %d)", n.Offset, n.Amount)
	case KindDecData:
		return fmt.Sprintf("DecData(%d, %d)", n.Offset, n.Amount)
	case KindSetData:
		return fmt.Sprintf("SetData(%d, %d)", n.Offset, n.Value)
	case KindScan:
		return fmt.Sprintf("Scan(%s, %d)", n.Direction, n.Skip)
	case KindAddOffsetData:
		return fmt.Sprintf("AddOffsetData(%d, %d, %d, %v)", n.DestOffset, n.SrcOffset, n.Multiplier, n.Inverted)
	case KindSubOffsetData:
		return fmt.Sprintf("SubOffsetData(%d, %d, %d, %v)", n.DestOffset, n.SrcOffset, n.Multiplier, n.Inverted)
	case KindOutput:
		if n.OutKind == OutputConst {
			return fmt.Sprintf("OutputConst(%d)", n.Value)
		}
		return fmt.Sprintf("OutputCell(%d)", n.Offset)
	case KindInput:
		return fmt.Sprintf("Input(%d)", n.Offset)
	case KindLoop:
		return fmt.Sprintf("Loop(%d)", n.ID)
	default:
		return "Unknown"
	}
}
