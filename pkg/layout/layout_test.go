package layout

import (
	"strings"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/ef"
	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
)

func parse(t *testing.T, input string) *game.Tree {
	t.Helper()
	tree, err := ef.ParseString(input)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := tree.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return tree
}

const simpleGame = `
players Alice Bob
node root player Alice moves L:l R:r
node l payoffs 1 0
node r payoffs 0 1
`

const pennies = `
players Even Odd
node root player Even moves heads:h tails:t
node h player Odd iset guess moves heads:hh tails:ht
node t player Odd iset guess moves heads:th tails:tt
node hh payoffs 1 -1
node ht payoffs -1 1
node th payoffs -1 1
node tt payoffs 1 -1
`

func TestRootCentered(t *testing.T) {
	tree := parse(t, simpleGame)

	l, err := Compute(tree, DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	root := l.At(tree.Root)
	left, _ := tree.Lookup("l")
	right, _ := tree.Lookup("r")
	mid := (l.At(left).X + l.At(right).X) / 2
	if root.X != mid {
		t.Errorf("root x = %g, want centered at %g", root.X, mid)
	}
	if root.SubtreeWidth != 2 {
		t.Errorf("root subtree width = %g, want 2", root.SubtreeWidth)
	}
	if l.At(left).X >= l.At(right).X {
		t.Errorf("sibling order violated: left %g, right %g", l.At(left).X, l.At(right).X)
	}
}

func TestDepthRows(t *testing.T) {
	tree := parse(t, pennies)

	l, err := Compute(tree, DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	byDepth := map[int]float64{}
	tree.PreOrder(func(id game.NodeID, depth int) {
		p := l.At(id)
		if p.Depth != depth {
			t.Errorf("node %s depth = %d, want %d", tree.Node(id).Name, p.Depth, depth)
		}
		if y, ok := byDepth[depth]; ok && y != p.Y {
			t.Errorf("depth %d has rows y=%g and y=%g", depth, y, p.Y)
		}
		byDepth[depth] = p.Y
	})

	if byDepth[1] >= byDepth[0] {
		t.Errorf("rows must descend: depth0 y=%g, depth1 y=%g", byDepth[0], byDepth[1])
	}
}

// TestSubtreeRangesDisjoint checks the non-overlap guarantee: for any
// two nodes where neither is an ancestor of the other, the subtree
// x-ranges do not intersect.
func TestSubtreeRangesDisjoint(t *testing.T) {
	tree := parse(t, `
players A B
node root player A moves a:n1 b:n2 c:n3
node n1 player B moves x:t1 y:t2
node n2 payoffs 0 0
node n3 player B moves x:t3 y:t4 z:t5
node t1 payoffs 1 0
node t2 payoffs 0 1
node t3 payoffs 1 1
node t4 payoffs 2 2
node t5 payoffs 3 3
`)

	l, err := Compute(tree, DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	ancestors := map[game.NodeID]map[game.NodeID]bool{}
	var mark func(id game.NodeID, chain []game.NodeID)
	mark = func(id game.NodeID, chain []game.NodeID) {
		ancestors[id] = map[game.NodeID]bool{}
		for _, a := range chain {
			ancestors[id][a] = true
		}
		for _, e := range tree.Node(id).Children {
			mark(e.Child, append(chain, id))
		}
	}
	mark(tree.Root, nil)

	for a := 0; a < tree.NodeCount(); a++ {
		for b := a + 1; b < tree.NodeCount(); b++ {
			ida, idb := game.NodeID(a), game.NodeID(b)
			if ancestors[ida][idb] || ancestors[idb][ida] {
				continue
			}
			pa, pb := l.At(ida), l.At(idb)
			aLo := pa.X - pa.SubtreeWidth*l.Unit/2
			aHi := pa.X + pa.SubtreeWidth*l.Unit/2
			bLo := pb.X - pb.SubtreeWidth*l.Unit/2
			bHi := pb.X + pb.SubtreeWidth*l.Unit/2
			if aLo < bHi && bLo < aHi {
				t.Errorf("subtrees of %s and %s overlap: [%g,%g] vs [%g,%g]",
					tree.Node(ida).Name, tree.Node(idb).Name, aLo, aHi, bLo, bHi)
			}
		}
	}
}

func TestWideningForInfoSetClearance(t *testing.T) {
	tree := parse(t, pennies)

	p := DefaultParams()
	p.HorizontalUnit = 0.1 // far too tight for the "heads"/"tails" labels
	l, err := Compute(tree, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if l.Widened == 0 {
		t.Error("expected at least one widening iteration")
	}

	h, _ := tree.Lookup("h")
	tt, _ := tree.Lookup("t")
	gap := l.At(tt).X - l.At(h).X
	if gap < 0 {
		gap = -gap
	}
	need := p.MinGap + 5*0.18 // "heads"/"tails" are 5 runes
	if gap < need {
		t.Errorf("gap %g below required clearance %g after widening", gap, need)
	}
}

// TestWideningWithInterleavedMembers pins the clearance check to drawn
// positions: the members of set s are declared ma, mc, mb while their
// left-to-right order is ma, mb, mc. Consecutive declaration pairs are
// far apart, the x-adjacent pair ma/mb is not.
func TestWideningWithInterleavedMembers(t *testing.T) {
	tree := parse(t, `
players A B
node root player A moves a:ma b:mb s:sp c:mc
node ma player B iset s moves l:t1 r:t2
node mc player B iset s moves l:t9 r:t10
node mb player B iset s moves l:t3 r:t4
node sp player A moves w:t5 x:t6 y:t7 z:t8
node t1 payoffs 1 0
node t2 payoffs 0 1
node t3 payoffs 1 0
node t4 payoffs 0 1
node t5 payoffs 0 0
node t6 payoffs 0 0
node t7 payoffs 0 0
node t8 payoffs 0 0
node t9 payoffs 1 0
node t10 payoffs 0 1
`)

	p := DefaultParams()
	p.MinGap = 3 // the ma/mb gap starts at two leaf units = 2.4 cm
	l, err := Compute(tree, p)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}

	if l.Widened == 0 {
		t.Fatal("expected widening for the x-adjacent pair ma/mb")
	}

	ma, _ := tree.Lookup("ma")
	mb, _ := tree.Lookup("mb")
	mc, _ := tree.Lookup("mc")

	sorted := SortedByX(l, []game.NodeID{ma, mc, mb})
	want := []game.NodeID{ma, mb, mc}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("SortedByX = %v, want %v", sorted, want)
		}
	}

	need := p.MinGap + 1*0.18 // single-rune move labels
	for i := 1; i < len(sorted); i++ {
		gap := l.At(sorted[i]).X - l.At(sorted[i-1]).X
		if gap < need {
			t.Errorf("adjacent gap %s-%s = %g below required clearance %g",
				tree.Node(sorted[i-1]).Name, tree.Node(sorted[i]).Name, gap, need)
		}
	}
}

func TestWidenLimitExhausted(t *testing.T) {
	tree := parse(t, pennies)

	p := DefaultParams()
	p.HorizontalUnit = 1e-6
	p.WidenLimit = 1

	_, err := Compute(tree, p)
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Fatalf("error = %v, want LAYOUT_ERROR", err)
	}
	if !strings.Contains(err.Error(), "widening") {
		t.Errorf("error %q should mention widening", err)
	}
}

func TestCrossDepthInfoSetRejected(t *testing.T) {
	tree := parse(t, `
players A B
node root player A moves go:mid stop:deep
node mid player B iset spread moves l:t1 r:t2
node deep player A moves down:lower
node lower player B iset spread moves l:t3 r:t4
node t1 payoffs 1 0
node t2 payoffs 0 1
node t3 payoffs 1 1
node t4 payoffs 0 0
`)

	_, err := Compute(tree, DefaultParams())
	if !errors.Is(err, errors.ErrCodeLayout) {
		t.Fatalf("error = %v, want LAYOUT_ERROR", err)
	}
	if !strings.Contains(err.Error(), "spread") {
		t.Errorf("error %q should name the offending set", err)
	}
}

func TestScaleMultipliesCoordinates(t *testing.T) {
	tree := parse(t, simpleGame)

	base, err := Compute(tree, DefaultParams())
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	p := DefaultParams()
	p.Scale = 2
	doubled, err := Compute(tree, p)
	if err != nil {
		t.Fatalf("Compute scaled: %v", err)
	}

	for id := 0; id < tree.NodeCount(); id++ {
		b, d := base.At(game.NodeID(id)), doubled.At(game.NodeID(id))
		if d.X != 2*b.X || d.Y != 2*b.Y {
			t.Errorf("node %d: scaled (%g,%g), want (%g,%g)", id, d.X, d.Y, 2*b.X, 2*b.Y)
		}
	}
}

func TestParamsFillDefaults(t *testing.T) {
	t.Run("zero value becomes defaults", func(t *testing.T) {
		if got := (Params{}).FillDefaults(); got != DefaultParams() {
			t.Errorf("FillDefaults = %+v, want defaults", got)
		}
	})

	t.Run("partial keeps the set knob", func(t *testing.T) {
		got := Params{Scale: 2}.FillDefaults()
		want := DefaultParams()
		want.Scale = 2
		if got != want {
			t.Errorf("FillDefaults = %+v, want %+v", got, want)
		}
	})

	t.Run("out-of-range values survive for Validate", func(t *testing.T) {
		got := Params{Scale: 150}.FillDefaults()
		if got.Scale != 150 {
			t.Errorf("Scale = %g, want 150 preserved", got.Scale)
		}
		if err := got.Validate(); !errors.Is(err, errors.ErrCodeConfig) {
			t.Errorf("Validate = %v, want CONFIG_ERROR", err)
		}
	})
}

func TestParamsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Params)
		ok     bool
	}{
		{"Defaults", func(p *Params) {}, true},
		{"ScaleTooLarge", func(p *Params) { p.Scale = 150 }, false},
		{"ScaleTooSmall", func(p *Params) { p.Scale = 0.001 }, false},
		{"ZeroHorizontal", func(p *Params) { p.HorizontalUnit = 0 }, false},
		{"NegativeVertical", func(p *Params) { p.VerticalUnit = -1 }, false},
		{"NegativeMinGap", func(p *Params) { p.MinGap = -0.1 }, false},
		{"ZeroWidenLimit", func(p *Params) { p.WidenLimit = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate: %v", err)
			}
			if !tt.ok {
				if !errors.Is(err, errors.ErrCodeConfig) {
					t.Errorf("error = %v, want CONFIG_ERROR", err)
				}
			}
		})
	}
}
