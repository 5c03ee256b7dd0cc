package dot

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
)

// Options configures DOT generation.
type Options struct {
	// ShowNames includes the node name above each label. When false,
	// only the game content (owner, probabilities, payoffs) is shown.
	ShowNames bool
}

// ToDOT converts a validated tree to Graphviz DOT source. Decision
// nodes are circles labelled with their owner, chance nodes grey boxes,
// terminals plain payoff vectors. Members of one information set are
// joined by dashed, rank-neutral edges. Output is deterministic.
func ToDOT(t *game.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph game {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontsize=12];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	t.PreOrder(func(id game.NodeID, depth int) {
		n := t.Node(id)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(nodeAttrs(t, n, opts), ", "))
	})

	buf.WriteString("\n")
	t.PreOrder(func(id game.NodeID, depth int) {
		n := t.Node(id)
		for i, e := range n.Children {
			label := e.Label
			if n.Kind == game.Chance {
				label += " (" + strconv.FormatFloat(n.Probs[i], 'g', -1, 64) + ")"
			}
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", n.Name, t.Node(e.Child).Name, label)
		}
	})

	for _, set := range t.InfoSets {
		if len(set.Members) < 2 {
			continue
		}
		buf.WriteString("\n")
		for i := 1; i < len(set.Members); i++ {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, dir=none, constraint=false];\n",
				t.Node(set.Members[i-1]).Name, t.Node(set.Members[i]).Name)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(t *game.Tree, n *game.Node, opts Options) []string {
	label := nodeLabel(n)
	if opts.ShowNames {
		label = n.Name + "\n" + label
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch n.Kind {
	case game.Decision:
		attrs = append(attrs, "shape=circle")
	case game.Chance:
		attrs = append(attrs, "shape=box", "style=filled", "fillcolor=lightgrey")
	case game.Terminal:
		attrs = append(attrs, "shape=plaintext")
	}
	return attrs
}

func nodeLabel(n *game.Node) string {
	switch n.Kind {
	case game.Decision:
		return n.Owner
	case game.Chance:
		return "chance"
	case game.Terminal:
		parts := make([]string, len(n.Payoffs))
		for i, v := range n.Payoffs {
			parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		return strings.Join(parts, ", ")
	default:
		return n.Name
	}
}

// RenderSVG rasterizes DOT source to SVG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.SVG)
}

// RenderPNG rasterizes DOT source to PNG.
func RenderPNG(ctx context.Context, dot string) ([]byte, error) {
	return render(ctx, dot, graphviz.PNG)
}

func render(ctx context.Context, dot string, format graphviz.Format) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "render %s", format)
	}
	return buf.Bytes(), nil
}
