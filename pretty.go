package bfcc

import (
	"fmt"
	"strings"
)

// PrettyPrint renders an IR tree as a stable, deterministic text form: one
// node per line, loops indented two spaces per nesting level. It exists for
// -P output and for tests, not as a parseable format — Parse
// never reads PrettyPrint's output back in.
func PrettyPrint(nodes []*Node) string {
	var b strings.Builder
	prettyPrintIndent(&b, nodes, 0)
	return b.String()
}

func prettyPrintIndent(b *strings.Builder, nodes []*Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range nodes {
		if n.Kind == KindLoop {
			fmt.Fprintf(b, "%s[\n", indent)
			prettyPrintIndent(b, n.Body, depth+1)
			fmt.Fprintf(b, "%s]\n", indent)
			continue
		}
		fmt.Fprintf(b, "%s%s\n", indent, prettyToken(n))
	}
}

func prettyToken(n *Node) string {
	switch n.Kind {
	case KindIncPointer:
		if n.Amount == 1 {
			return ">"
		}
		return fmt.Sprintf("(>%d)", n.Amount)

	case KindDecPointer:
		if n.Amount == 1 {
			return "<"
		}
		return fmt.Sprintf("(<%d)", n.Amount)

	case KindIncData:
		if n.Offset == 0 && n.Amount == 1 {
			return "+"
		}
		return fmt.Sprintf("(%d+%d)", n.Offset, n.Amount)

	case KindDecData:
		if n.Offset == 0 && n.Amount == 1 {
			return "-"
		}
		return fmt.Sprintf("(%d-%d)", n.Offset, n.Amount)

	case KindSetData:
		return fmt.Sprintf("(%d=%d)", n.Offset, n.Value)

	case KindScan:
		if n.Direction == DirLeft {
			return fmt.Sprintf("[(<%d)]", n.Skip)
		}
		return fmt.Sprintf("[(>%d)]", n.Skip)

	case KindAddOffsetData:
		if n.Inverted {
			return fmt.Sprintf("(%d+=(-(%d*%d)))", n.DestOffset, n.SrcOffset, n.Multiplier)
		}
		return fmt.Sprintf("(%d+=(%d*%d))", n.DestOffset, n.SrcOffset, n.Multiplier)

	case KindSubOffsetData:
		if n.Inverted {
			return fmt.Sprintf("(%d-=(-(%d*%d)))", n.DestOffset, n.SrcOffset, n.Multiplier)
		}
		return fmt.Sprintf("(%d-=(%d*%d))", n.DestOffset, n.SrcOffset, n.Multiplier)

	case KindOutput:
		if n.OutKind == OutputConst {
			return fmt.Sprintf("(.%d)", n.Value)
		}
		if n.Offset == 0 {
			return "."
		}
		return fmt.Sprintf("(%d.)", n.Offset)

	case KindInput:
		if n.Offset == 0 {
			return ","
		}
		return fmt.Sprintf("(%d,)", n.Offset)

	default:
		return "?"
	}
}
