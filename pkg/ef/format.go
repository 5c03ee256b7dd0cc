package ef

import (
	"strconv"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/game"
)

// Format writes the canonical description of a tree: one players line,
// node lines in pre-order, then arrow lines for annotated moves.
// Parsing the result reproduces a structurally identical tree, and
// formatting is idempotent.
func Format(t *game.Tree) string {
	var sb strings.Builder
	sb.WriteString("players ")
	sb.WriteString(strings.Join(t.Players, " "))
	sb.WriteByte('\n')

	t.PreOrder(func(id game.NodeID, depth int) {
		n := t.Node(id)
		sb.WriteString("node ")
		sb.WriteString(n.Name)
		switch n.Kind {
		case game.Decision:
			sb.WriteString(" player ")
			sb.WriteString(n.Owner)
			if n.InfoSet != "" {
				sb.WriteString(" iset ")
				sb.WriteString(n.InfoSet)
			}
			sb.WriteString(" moves")
			for _, e := range n.Children {
				sb.WriteByte(' ')
				sb.WriteString(e.Label)
				sb.WriteByte(':')
				sb.WriteString(t.Node(e.Child).Name)
			}
		case game.Chance:
			sb.WriteString(" chance moves")
			for i, e := range n.Children {
				sb.WriteByte(' ')
				sb.WriteString(e.Label)
				sb.WriteByte(':')
				sb.WriteString(t.Node(e.Child).Name)
				sb.WriteByte(':')
				sb.WriteString(formatNumber(n.Probs[i]))
			}
		case game.Terminal:
			sb.WriteString(" payoffs")
			for _, v := range n.Payoffs {
				sb.WriteByte(' ')
				sb.WriteString(formatNumber(v))
			}
		}
		sb.WriteByte('\n')
	})

	t.PreOrder(func(id game.NodeID, depth int) {
		n := t.Node(id)
		for _, e := range n.Children {
			if e.Arrow == nil {
				continue
			}
			sb.WriteString("arrow ")
			sb.WriteString(n.Name)
			sb.WriteByte(' ')
			sb.WriteString(e.Label)
			sb.WriteByte(' ')
			sb.WriteString(formatNumber(e.Arrow.Pos))
			if e.Arrow.Color != "" {
				sb.WriteByte(' ')
				sb.WriteString(e.Arrow.Color)
			}
			sb.WriteByte('\n')
		}
	})

	return sb.String()
}

// formatNumber renders v with the shortest representation that parses
// back to the same float64.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
