package dot

import (
	"strings"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/ef"
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

func TestToDOT(t *testing.T) {
	tree := parse(t, `
players Even Odd
node root player Even moves h:a t:b
node a player Odd iset guess moves h:t1 t:t2
node b player Odd iset guess moves h:t3 t:t4
node t1 payoffs 1 -1
node t2 payoffs -1 1
node t3 payoffs -1 1
node t4 payoffs 1 -1
`)

	out := ToDOT(tree, Options{})

	for _, want := range []string{
		"digraph game {",
		`"root" [label="Even", shape=circle];`,
		`"t1" [label="1, -1", shape=plaintext];`,
		`"root" -> "a" [label="h"];`,
		`"a" -> "b" [style=dashed, dir=none, constraint=false];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT output missing %q:\n%s", want, out)
		}
	}

	if out != ToDOT(tree, Options{}) {
		t.Error("DOT output differs between identical runs")
	}
}

func TestToDOTChance(t *testing.T) {
	tree := parse(t, `
players A B
node root chance moves heads:a:0.3 tails:b:0.7
node a payoffs 1 0
node b payoffs 0 1
`)

	out := ToDOT(tree, Options{ShowNames: true})

	if !strings.Contains(out, "fillcolor=lightgrey") {
		t.Error("chance node should be filled grey")
	}
	if !strings.Contains(out, `label="heads (0.3)"`) {
		t.Errorf("chance edge should carry its probability:\n%s", out)
	}
	if !strings.Contains(out, "root\\nchance") {
		t.Errorf("ShowNames should prefix the node name:\n%s", out)
	}
}
