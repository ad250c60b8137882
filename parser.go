package bfcc

import "fmt"

// Parse reads raw source bytes and returns the canonical IR tree. Only the
// eight command bytes are meaningful; every other byte is whitespace or
// commentary and is skipped. Loop ids are assigned in a single pass,
// starting at 1, in the order each ']' closes its loop — mirroring
// original_source/src/parser.rs's stack-of-bodies approach.
func Parse(src []byte) ([]*Node, error) {
	var root []*Node
	loopSeq := 0

	// scopes[i] points at the body slice currently being accumulated at
	// nesting depth i; scopes[0] is the program root.
	scopes := []*[]*Node{&root}

	push := func(n *Node) {
		top := scopes[len(scopes)-1]
		*top = append(*top, n)
	}

	for _, c := range src {
		switch c {
		case '>':
			push(IncPointer(1))
		case '<':
			push(DecPointer(1))
		case '+':
			push(IncData(0, 1))
		case '-':
			push(DecData(0, 1))
		case '.':
			push(OutputCellNode(0))
		case ',':
			push(InputNode(0))
		case '[':
			var body []*Node
			scopes = append(scopes, &body)
		case ']':
			if len(scopes) == 1 {
				return nil, fmt.Errorf("parse: %w", ErrUnmatchedClose)
			}
			body := *scopes[len(scopes)-1]
			scopes = scopes[:len(scopes)-1]
			loopSeq++
			push(LoopNode(loopSeq, body))
		default:
			// whitespace / comment byte, ignored
		}
	}

	if len(scopes) != 1 {
		return nil, fmt.Errorf("parse: %w", ErrUnmatchedOpen)
	}

	return root, nil
}
