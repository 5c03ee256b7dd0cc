package tikz

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/game"
	"github.com/gambitproject/draw-tree/pkg/layout"
)

// ElementKind classifies one drawable element of the markup.
type ElementKind int

const (
	// KindEdge is a node's draw command: its coordinate, attached
	// player or payoff labels, and the line up to its parent.
	KindEdge ElementKind = iota
	// KindMoveLabel is the move annotation at an edge midpoint.
	KindMoveLabel
	// KindArrow is a best-response arrowhead on an annotated edge.
	KindArrow
	// KindInfoSet is a dashed connector between set members plus the
	// owner label.
	KindInfoSet
	// KindNode is a node shape, a filled circle for decision nodes or
	// a grey square for chance nodes.
	KindNode
	// KindGrid is the debug coordinate grid under the picture.
	KindGrid
)

func (k ElementKind) String() string {
	switch k {
	case KindEdge:
		return "edge"
	case KindMoveLabel:
		return "move"
	case KindArrow:
		return "arrow"
	case KindInfoSet:
		return "infoset"
	case KindNode:
		return "node"
	case KindGrid:
		return "grid"
	default:
		return "unknown"
	}
}

// Element is one drawing command of the picture. Node is the tree node
// the element belongs to, or [game.NoNode] for information-set
// connectors.
type Element struct {
	Kind   ElementKind
	Node   game.NodeID
	Markup string
}

// Document is the emitted picture: the full tikzpicture markup plus the
// individual elements it was assembled from, in emission order.
type Document struct {
	Markup   string
	Elements []Element
}

// EmitOptions adjusts the picture beyond what the tree itself carries.
type EmitOptions struct {
	// Grid draws a coordinate grid under the picture, for debugging
	// placements.
	Grid bool
}

// stealthTip defines the arrowhead used for best-response arrows. It
// lives in the picture options so edge draws can reference it by name.
const stealthTip = "StealthFill/.tip={Stealth[line width=.7pt,inset=0pt,length=13pt,angle'=30]}"

// Emit renders a validated, laid-out tree as TikZ markup with default
// options. The layout must come from the same tree.
func Emit(t *game.Tree, l *layout.Layout) *Document {
	return EmitWithOptions(t, l, EmitOptions{})
}

// EmitWithOptions renders a validated, laid-out tree as TikZ markup.
// Output is deterministic: pre-order for nodes, edges and arrows,
// declaration order for information sets, shapes last so they cover
// the line ends.
func EmitWithOptions(t *game.Tree, l *layout.Layout, opts EmitOptions) *Document {
	e := emitter{tree: t, layout: l, shared: sharedMembers(t), parents: parents(t)}

	if opts.Grid {
		e.grid()
	}
	t.PreOrder(func(id game.NodeID, depth int) {
		e.edge(id)
	})
	t.PreOrder(func(id game.NodeID, depth int) {
		e.moveLabel(id)
	})
	t.PreOrder(func(id game.NodeID, depth int) {
		e.arrows(id)
	})
	for _, set := range t.InfoSets {
		e.infoSet(set)
	}
	t.PreOrder(func(id game.NodeID, depth int) {
		e.shape(id)
	})

	var b strings.Builder
	b.WriteString("\\begin{tikzpicture}[" + stealthTip + "]\n")
	for _, el := range e.elements {
		b.WriteString(el.Markup)
		b.WriteByte('\n')
	}
	b.WriteString("\\end{tikzpicture}\n")

	return &Document{Markup: b.String(), Elements: e.elements}
}

type emitter struct {
	tree     *game.Tree
	layout   *layout.Layout
	shared   map[game.NodeID]bool // members of multi-node information sets
	parents  []game.NodeID
	elements []Element
}

func parents(t *game.Tree) []game.NodeID {
	out := make([]game.NodeID, t.NodeCount())
	for i := range out {
		out[i] = game.NoNode
	}
	for id := 0; id < t.NodeCount(); id++ {
		for _, e := range t.Node(game.NodeID(id)).Children {
			out[e.Child] = game.NodeID(id)
		}
	}
	return out
}

func (e *emitter) add(kind ElementKind, id game.NodeID, markup string) {
	e.elements = append(e.elements, Element{Kind: kind, Node: id, Markup: markup})
}

// sharedMembers marks nodes whose owner label is printed on the
// information-set connector instead of next to the node.
func sharedMembers(t *game.Tree) map[game.NodeID]bool {
	shared := map[game.NodeID]bool{}
	for _, set := range t.InfoSets {
		if len(set.Members) < 2 {
			continue
		}
		for _, id := range set.Members {
			shared[id] = true
		}
	}
	return shared
}

// edge emits the node's main draw command: its coordinate with any
// attached labels, then the line up to its parent. The root has no
// parent line.
func (e *emitter) edge(id game.NodeID) {
	n := e.tree.Node(id)
	p := e.layout.At(id)

	var b strings.Builder
	b.WriteString("\\draw [line width=\\treethickn] " + coord(p.X, p.Y))

	switch n.Kind {
	case game.Decision:
		if !e.shared[id] {
			side := "right,xshift=\\spx"
			if parent, ok := e.parentOf(id); ok && e.layout.At(parent).X > p.X {
				side = "left,xshift=-\\spx"
			}
			b.WriteString("\n   node[" + side + ",yshift=\\spy] {" + n.Owner + "\\strut}")
		}
	case game.Chance:
		b.WriteString("\n   node[right,xshift=\\spx,yshift=\\spy] {\\small chance\\strut}")
	case game.Terminal:
		for i, v := range n.Payoffs {
			b.WriteString("\n   node[below,yshift=" + fformat(0.1-float64(i)) + "\\paydown] {" + payoff(v) + "\\strut}")
		}
	}

	if parent, ok := e.parentOf(id); ok {
		pp := e.layout.At(parent)
		b.WriteString("\n   -- " + coord(pp.X, pp.Y) + ";")
	} else {
		b.WriteString("\n   ;")
	}
	e.add(KindEdge, id, b.String())
}

// moveLabel annotates the edge from a node to its parent with the move
// name, and for chance edges the branch probability.
func (e *emitter) moveLabel(id game.NodeID) {
	parent, ok := e.parentOf(id)
	if !ok {
		return
	}
	pn := e.tree.Node(parent)
	idx := childIndex(pn, id)
	label := pn.Children[idx].Label

	p := e.layout.At(id)
	pp := e.layout.At(parent)
	mx := (p.X + pp.X) / 2
	my := (p.Y + pp.Y) / 2

	side := "right"
	if p.X < pp.X {
		side = "left"
	}

	text := "$" + label + "$"
	yshift := "\\yup"
	if pn.Kind == game.Chance {
		text += "~($" + fformat(pn.Probs[idx]) + "$)"
		yshift = "\\yfracup"
	}

	e.add(KindMoveLabel, id, fmt.Sprintf("\\draw %s node[%s,yshift=%s] {%s\\strut};",
		coord(mx, my), side, yshift, text))
}

// arrows emits the best-response arrowheads for the node's annotated
// outgoing edges. The tip sits at the arrow position along the edge,
// the tail a hundredth of the edge length behind it.
func (e *emitter) arrows(id game.NodeID) {
	n := e.tree.Node(id)
	from := e.layout.At(id)
	for _, edge := range n.Children {
		if edge.Arrow == nil {
			continue
		}
		to := e.layout.At(edge.Child)
		pos := edge.Arrow.Pos
		xtip := from.X*(1-pos) + to.X*pos
		ytip := from.Y*(1-pos) + to.Y*pos
		xback := from.X*(1.01-pos) + to.X*(pos-0.01)
		yback := from.Y*(1.01-pos) + to.Y*(pos-0.01)

		fill := ""
		if edge.Arrow.Color != "" {
			fill = "[fill=" + edge.Arrow.Color + "]"
		}
		e.add(KindArrow, edge.Child, fmt.Sprintf("\\draw [-{StealthFill%s}] %s -- %s;",
			fill, coord(xback, yback), coord(xtip, ytip)))
	}
}

// grid draws help lines over the picture's extent, rounded outward to
// whole coordinates.
func (e *emitter) grid() {
	minX, maxX, minY, maxY := 0.0, 0.0, 0.0, 0.0
	for _, p := range e.layout.Placements {
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	e.add(KindGrid, game.NoNode, fmt.Sprintf("\\draw [help lines, color=green] %s grid %s;",
		coord(math.Floor(minX), math.Floor(minY-1)),
		coord(math.Ceil(maxX), math.Ceil(maxY))))
}

// infoSet emits the dashed connector through the set members in
// left-to-right order and the owner label at the midpoint of the
// leftmost segment. Singleton sets draw nothing; the owner already
// sits next to the node.
func (e *emitter) infoSet(set game.InformationSet) {
	if len(set.Members) < 2 {
		return
	}
	members := layout.SortedByX(e.layout, set.Members)

	var b strings.Builder
	b.WriteString("\\draw [dashed] ")
	for i, id := range members {
		if i > 0 {
			b.WriteString(" -- ")
		}
		p := e.layout.At(id)
		b.WriteString(coord(p.X, p.Y))
	}
	b.WriteString(";")

	p0 := e.layout.At(members[0])
	p1 := e.layout.At(members[1])
	fmt.Fprintf(&b, "\n\\draw %s node[above] {%s\\strut};",
		coord((p0.X+p1.X)/2, (p0.Y+p1.Y)/2), set.Owner)

	e.add(KindInfoSet, game.NoNode, b.String())
}

// shape draws the node marker. Terminals have no marker, only their
// payoff stack.
func (e *emitter) shape(id game.NodeID) {
	n := e.tree.Node(id)
	p := e.layout.At(id)
	switch n.Kind {
	case game.Decision:
		e.add(KindNode, id,
			"\\node[inner sep=0pt,minimum size=\\ndiam, draw, fill, shape=circle] at "+coord(p.X, p.Y)+" {};")
	case game.Chance:
		e.add(KindNode, id,
			"\\node[inner sep=0pt,minimum size=\\sqwidth,draw,fill=\\chancecolor,shape=rectangle] at "+coord(p.X, p.Y)+" {};")
	}
}

func (e *emitter) parentOf(id game.NodeID) (game.NodeID, bool) {
	p := e.parents[id]
	return p, p != game.NoNode
}

func childIndex(parent *game.Node, id game.NodeID) int {
	for i, e := range parent.Children {
		if e.Child == id {
			return i
		}
	}
	return -1
}

// payoff formats one payoff value for the stack under a terminal.
// Negative values get a phantom minus so the column of digits lines up
// with non-negative neighbours.
func payoff(v float64) string {
	s := fformat(v)
	if strings.HasPrefix(s, "-") {
		return "$" + s + "{\\phantom-}$"
	}
	return "$" + s + "$"
}

// fformat renders a coordinate or numeric label with three decimal
// places, trailing zeros trimmed.
func fformat(x float64) string {
	s := strconv.FormatFloat(x, 'f', 3, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "-0" {
		s = "0"
	}
	return s
}

func coord(x, y float64) string {
	return "(" + fformat(x) + "," + fformat(y) + ")"
}
