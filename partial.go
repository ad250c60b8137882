package bfcc

import "sort"

// maxUnrollIterations bounds how many concrete iterations PartialEval will
// unroll a Loop whose guard cell is statically known and nonzero. Without a
// cap, a source program like "+[]" (an intentional infinite loop) would hang
// compilation rather than the resulting binary. 2^20 matches the tape size,
// not any theoretical limit.
const maxUnrollIterations = 1 << 20

// abstractValue is a single sparse tape cell in the partial evaluator's
// abstract machine: either a statically known byte, or Top (unknown, the
// cell depends on something only known at runtime).
type abstractValue struct {
	known bool
	value uint8
}

var topValue = abstractValue{known: false}

func known(v uint8) abstractValue { return abstractValue{known: true, value: v} }

// partialState is the abstract interpreter's running state. The tape is a
// sparse map keyed by absolute address (pointer position never resets
// across nested loop bodies, unlike the optimizer's relative-offset
// bookkeeping), so a cell touched deep inside nested loops is addressed the
// same way a top-level cell is.
type partialState struct {
	tape    map[int]abstractValue
	pointer int

	// prevValues records, for every touched address whose real-tape value
	// is known, the byte the real tape holds there: 0 on first touch
	// (abstract interpretation starts against a blank tape), then whatever
	// emitDiffSetDatas last materialized. An address whose cell has gone
	// unknown has no entry. This lets emitDiffSetDatas tell whether a
	// folded value still needs materializing with a SetData or already
	// matches what's on the real tape.
	prevValues map[int]uint8

	// pendingShift is the net pointer movement not yet reflected in a
	// residual IncPointer/DecPointer node. Flushed immediately before any
	// other residual node is appended, so emitted nodes always see the
	// pointer they expect at runtime.
	pendingShift int

	residual []*Node

	// halted is set once the abstract interpreter gives up completely
	// (an unbounded Scan, or a Loop with an unknown guard and an
	// unbounded or unbalanced body). From that point on every remaining
	// node, at every nesting level, is spliced into residual unchanged.
	halted bool
}

func newPartialState() *partialState {
	return &partialState{
		tape:       make(map[int]abstractValue),
		prevValues: make(map[int]uint8),
	}
}

func (s *partialState) touch(addr int) {
	if _, ok := s.prevValues[addr]; !ok {
		if _, seen := s.tape[addr]; !seen {
			s.prevValues[addr] = 0
		}
	}
}

func (s *partialState) get(addr int) abstractValue {
	if v, ok := s.tape[addr]; ok {
		return v
	}
	return known(0)
}

func (s *partialState) set(addr int, v abstractValue) {
	s.tape[addr] = v
	if !v.known {
		delete(s.prevValues, addr)
	}
}

func (s *partialState) flushPointer() {
	switch {
	case s.pendingShift > 0:
		s.residual = append(s.residual, IncPointer(s.pendingShift))
	case s.pendingShift < 0:
		s.residual = append(s.residual, DecPointer(-s.pendingShift))
	}
	s.pendingShift = 0
}

// emitDiffSetDatas materializes every cell whose abstract value is known and
// differs from what the real tape last held there, then updates prevValues
// so a repeated abort later in the same run only emits what changed since.
func (s *partialState) emitDiffSetDatas() {
	addrs := make([]int, 0, len(s.tape))
	for addr, v := range s.tape {
		if !v.known {
			continue
		}
		if prev, ok := s.prevValues[addr]; !ok || prev != v.value {
			addrs = append(addrs, addr)
		}
	}
	sort.Ints(addrs)
	for _, addr := range addrs {
		v := s.tape[addr]
		s.residual = append(s.residual, SetDataNode(addr-s.pointer, v.value))
		s.prevValues[addr] = v.value
	}
}

// abort gives up on folding anything further: it materializes the abstract
// state accumulated so far, splices n in unchanged, and marks the run
// halted so every later node — at any depth — is spliced verbatim too.
func (s *partialState) abort(n *Node) {
	s.flushPointer()
	s.emitDiffSetDatas()
	s.residual = append(s.residual, n)
	s.halted = true
}

func (s *partialState) run(nodes []*Node) {
	for _, n := range nodes {
		if s.halted {
			s.residual = append(s.residual, n)
			continue
		}
		s.step(n)
	}
}

func (s *partialState) step(n *Node) {
	switch n.Kind {
	case KindIncPointer:
		s.pointer += n.Amount
		s.pendingShift += n.Amount

	case KindDecPointer:
		s.pointer -= n.Amount
		s.pendingShift -= n.Amount

	case KindIncData:
		s.stepArith(n, n.Offset, func(v uint8) uint8 { return v + uint8(n.Amount) })

	case KindDecData:
		s.stepArith(n, n.Offset, func(v uint8) uint8 { return v - uint8(n.Amount) })

	case KindSetData:
		addr := s.pointer + n.Offset
		s.touch(addr)
		s.set(addr, known(n.Value))

	case KindInput:
		addr := s.pointer + n.Offset
		s.touch(addr)
		s.set(addr, topValue)
		s.flushPointer()
		s.residual = append(s.residual, n)

	case KindOutput:
		s.stepOutput(n)

	case KindAddOffsetData:
		s.stepOffsetData(n, false)

	case KindSubOffsetData:
		s.stepOffsetData(n, true)

	case KindScan:
		// A Scan's stopping point depends on tape contents the abstract
		// interpreter cannot see in general; there is no footprint to
		// widen, so this always fully aborts.
		log.Debug("partial: aborting at unresolved scan")
		s.abort(n)

	case KindLoop:
		s.stepLoop(n)
	}
}

func (s *partialState) stepArith(n *Node, offset int, apply func(uint8) uint8) {
	addr := s.pointer + offset
	s.touch(addr)
	cur := s.get(addr)
	if cur.known {
		s.set(addr, known(apply(cur.value)))
		return
	}
	s.flushPointer()
	s.residual = append(s.residual, n)
}

func (s *partialState) stepOutput(n *Node) {
	if n.OutKind == OutputConst {
		s.residual = append(s.residual, n)
		return
	}
	addr := s.pointer + n.Offset
	cur := s.get(addr)
	if cur.known {
		s.residual = append(s.residual, OutputConstNode(cur.value))
		return
	}
	s.flushPointer()
	s.residual = append(s.residual, n)
}

func (s *partialState) stepOffsetData(n *Node, subtract bool) {
	dstAddr := s.pointer + n.DestOffset
	srcAddr := s.pointer + n.SrcOffset
	s.touch(dstAddr)
	s.touch(srcAddr)

	src := s.get(srcAddr)
	dst := s.get(dstAddr)
	if src.known && dst.known {
		contribution := src.value * uint8(n.Multiplier)
		if n.Inverted {
			contribution = -contribution
		}
		if subtract {
			s.set(dstAddr, known(dst.value-contribution))
		} else {
			s.set(dstAddr, known(dst.value+contribution))
		}
		return
	}
	s.flushPointer()
	s.emitDiffSetDatas()
	s.residual = append(s.residual, n)
	s.set(dstAddr, topValue)
}

func (s *partialState) stepLoop(n *Node) {
	guard := s.get(s.pointer)

	if guard.known {
		if guard.value == 0 {
			return
		}
		s.unrollKnownLoop(n)
		return
	}

	if delta, footprint, ok := analyzeLoopFootprint(n.Body); ok && delta == 0 {
		for _, off := range footprint {
			s.touch(s.pointer + off)
		}
		s.flushPointer()
		s.emitDiffSetDatas()
		for _, off := range footprint {
			s.set(s.pointer+off, topValue)
		}
		log.WithField("loop", n.ID).Debug("partial: widening balanced loop with unknown guard")
		s.residual = append(s.residual, LoopNode(n.ID, n.Body))
		return
	}

	log.WithField("loop", n.ID).Debug("partial: aborting at unbounded or unbalanced loop")
	s.abort(n)
}

// unrollKnownLoop concretely executes n's body while its guard cell stays
// known and nonzero. If the guard becomes unknown mid-unroll, the state
// accumulated so far is materialized and a fresh Loop carrying the original
// body is spliced in to run the (now unknown) remaining iterations against
// the real tape — which by then matches the abstract state exactly.
func (s *partialState) unrollKnownLoop(n *Node) {
	for i := 0; ; i++ {
		if i >= maxUnrollIterations {
			s.flushPointer()
			s.emitDiffSetDatas()
			s.residual = append(s.residual, LoopNode(n.ID, n.Body))
			return
		}
		cur := s.get(s.pointer)
		if !cur.known {
			s.flushPointer()
			s.emitDiffSetDatas()
			s.residual = append(s.residual, LoopNode(n.ID, n.Body))
			return
		}
		if cur.value == 0 {
			return
		}
		for j, b := range n.Body {
			s.step(b)
			if s.halted {
				// Splice the rest of this iteration, then the loop itself
				// for the remaining iterations on the real tape.
				s.residual = append(s.residual, n.Body[j+1:]...)
				s.residual = append(s.residual, LoopNode(n.ID, n.Body))
				return
			}
		}
	}
}

// analyzeLoopFootprint statically walks a loop body (without executing it)
// to decide whether it is safe to widen rather than abort: the pointer must
// return to where it started (delta==0) and every address it can touch must
// be enumerable ahead of time. A Scan makes the footprint unbounded; a
// nested Loop must itself be balanced and boundable.
func analyzeLoopFootprint(body []*Node) (delta int, footprint []int, ok bool) {
	relPtr := 0
	touched := make(map[int]bool)

	for _, n := range body {
		switch n.Kind {
		case KindIncPointer:
			relPtr += n.Amount
		case KindDecPointer:
			relPtr -= n.Amount
		case KindIncData, KindDecData, KindSetData, KindInput:
			touched[relPtr+n.Offset] = true
		case KindAddOffsetData, KindSubOffsetData:
			touched[relPtr+n.DestOffset] = true
			touched[relPtr+n.SrcOffset] = true
		case KindOutput:
			// reads only, no tape mutation
		case KindScan:
			return 0, nil, false
		case KindLoop:
			subDelta, subFootprint, subOk := analyzeLoopFootprint(n.Body)
			if !subOk || subDelta != 0 {
				return 0, nil, false
			}
			touched[relPtr] = true
			for _, off := range subFootprint {
				touched[relPtr+off] = true
			}
		}
	}

	footprint = make([]int, 0, len(touched))
	for off := range touched {
		footprint = append(footprint, off)
	}
	sort.Ints(footprint)
	return relPtr, footprint, true
}

// PartialEval runs the abstract interpreter over an already-optimized tree
// and returns a residual IR tree: statically determined computation folds
// into SetData/OutputConst nodes, and anything that depends on runtime
// input is left as an equivalent but possibly-narrower program. Safe to run
// even when nothing folds — the residual tree is then observably identical
// to the input.
func PartialEval(nodes []*Node) []*Node {
	s := newPartialState()
	s.run(nodes)
	if !s.halted {
		s.flushPointer()
	}
	return s.residual
}
