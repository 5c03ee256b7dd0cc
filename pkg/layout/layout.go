package layout

import (
	"sort"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
)

// labelCharWidth estimates the rendered width of one label character in
// cm. Good enough for clearance checks; exact metrics belong to the
// typesetting toolchain.
const labelCharWidth = 0.18

// widenStep is the maximum growth of the horizontal unit per
// reconciliation iteration.
const widenStep = 1.5

// Placement is the computed geometry of one node. Coordinates are in cm
// with the root row at y=0 and deeper rows below (negative y), matching
// the downward drawing direction of the emitted markup.
type Placement struct {
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
	SubtreeWidth float64 `json:"subtree_width"` // in leaf units, unscaled
	Depth        int     `json:"depth"`
}

// Layout maps every node of one tree to its placement. It is built
// fresh per render and holds no reference back into the tree.
type Layout struct {
	// Placements is indexed by game.NodeID (the tree's arena index).
	Placements []Placement `json:"placements"`

	// Unit is the final horizontal unit in cm after widening and scale.
	Unit float64 `json:"unit"`

	// VUnit is the vertical row height in cm after scale.
	VUnit float64 `json:"v_unit"`

	// Widened counts the reconciliation iterations that were needed.
	Widened int `json:"widened"`
}

// At returns the placement for a node id.
func (l *Layout) At(id game.NodeID) Placement { return l.Placements[id] }

// Width returns the total drawing width in cm.
func (l *Layout) Width() float64 {
	if len(l.Placements) == 0 {
		return 0
	}
	return l.Placements[0].SubtreeWidth * l.Unit
}

// SortedByX returns the node ids ordered left to right by their placed
// x coordinate. Information-set members are declared in source order,
// which need not match their drawn order.
func SortedByX(l *Layout, ids []game.NodeID) []game.NodeID {
	sorted := make([]game.NodeID, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool {
		return l.Placements[sorted[i]].X < l.Placements[sorted[j]].X
	})
	return sorted
}

// Compute lays out a validated tree. Params must already have passed
// [Params.Validate]; Compute re-checks as a safety net since a failed
// config must never reach geometry work.
func Compute(t *game.Tree, p Params) (*Layout, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	widths := measure(t)
	vunit := p.VerticalUnit * p.Scale
	unit := p.HorizontalUnit * p.Scale

	var l *Layout
	for iter := 0; ; iter++ {
		l = place(t, widths, unit, vunit)
		l.Widened = iter

		grow, err := reconcile(t, l, p)
		if err != nil {
			return nil, err
		}
		if grow <= 1 {
			return l, nil
		}
		if iter >= p.WidenLimit {
			return nil, errors.New(errors.ErrCodeLayout,
				"information-set clearance not reachable after %d widening iterations (needs %.3gx more room)",
				p.WidenLimit, grow)
		}

		// Node distances scale linearly with the unit, so the uncapped
		// growth factor lands exactly on the required clearance. The cap
		// bounds each step when the starting unit is far too tight.
		if grow > widenStep {
			grow = widenStep
		}
		unit *= grow
	}
}

// measure runs the bottom-up pass: subtree widths in leaf units.
// Children are processed in declaration order, which the placement pass
// preserves as the left-to-right drawing order.
func measure(t *game.Tree) []float64 {
	widths := make([]float64, t.NodeCount())
	var walk func(id game.NodeID) float64
	walk = func(id game.NodeID) float64 {
		n := t.Node(id)
		if len(n.Children) == 0 {
			widths[id] = 1
			return 1
		}
		sum := 0.0
		for _, e := range n.Children {
			sum += walk(e.Child)
		}
		widths[id] = sum
		return sum
	}
	walk(t.Root)
	return widths
}

// place runs the top-down pass with a fixed horizontal unit. The root
// is centered over the total width; every child is centered within its
// proportional slice, so sibling subtrees can never overlap.
func place(t *game.Tree, widths []float64, unit, vunit float64) *Layout {
	l := &Layout{
		Placements: make([]Placement, t.NodeCount()),
		Unit:       unit,
		VUnit:      vunit,
	}

	var walk func(id game.NodeID, left float64, depth int)
	walk = func(id game.NodeID, left float64, depth int) {
		w := widths[id]
		l.Placements[id] = Placement{
			X:            (left + w/2) * unit,
			Y:            -float64(depth) * vunit,
			SubtreeWidth: w,
			Depth:        depth,
		}
		cursor := left
		for _, e := range t.Node(id).Children {
			walk(e.Child, cursor, depth+1)
			cursor += widths[e.Child]
		}
	}
	walk(t.Root, 0, 0)
	return l
}

// reconcile checks the information-set constraints on a finished
// placement. It returns the growth factor the horizontal unit needs
// for every constraint to hold (at most 1 when they already do). Sets
// whose members sit at different depths are unsupported and fail
// immediately: a connector between rows cannot be drawn as the
// horizontal line the markup promises.
func reconcile(t *game.Tree, l *Layout, p Params) (float64, error) {
	worst := 1.0
	for _, set := range t.InfoSets {
		if len(set.Members) < 2 {
			continue
		}
		depth := l.Placements[set.Members[0]].Depth
		for _, id := range set.Members[1:] {
			if d := l.Placements[id].Depth; d != depth {
				return 0, errors.New(errors.ErrCodeLayout,
					"information set %s spans depths %d and %d; cross-depth sets are not supported",
					set.ID, depth, d)
			}
		}

		// The clearance constraint binds between x-adjacent members.
		// Declaration order can interleave, so sort by position first.
		members := SortedByX(l, set.Members)

		need := p.MinGap + widestLabel(t, set.Members)
		for i := 1; i < len(members); i++ {
			gap := l.Placements[members[i]].X - l.Placements[members[i-1]].X
			if ratio := need / gap; ratio > worst {
				worst = ratio
			}
		}
	}
	return worst, nil
}

// widestLabel estimates the widest action label among the given
// decision nodes, in cm.
func widestLabel(t *game.Tree, members []game.NodeID) float64 {
	max := 0
	for _, id := range members {
		for _, e := range t.Node(id).Children {
			if len(e.Label) > max {
				max = len(e.Label)
			}
		}
	}
	return float64(max) * labelCharWidth
}
