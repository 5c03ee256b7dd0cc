package ef

import (
	"strings"
	"testing"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
)

const matchingPennies = `
# matching pennies with imperfect information
players Even Odd
node root player Even moves heads:h tails:t
node h player Odd iset guess moves heads:hh tails:ht
node t player Odd iset guess moves heads:th tails:tt
node hh payoffs 1 -1
node ht payoffs -1 1
node th payoffs -1 1
node tt payoffs 1 -1
`

func TestParseMatchingPennies(t *testing.T) {
	tree, err := ParseString(matchingPennies)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if got := tree.Players; len(got) != 2 || got[0] != "Even" || got[1] != "Odd" {
		t.Errorf("players = %v", got)
	}
	if tree.NodeCount() != 7 {
		t.Errorf("nodes = %d, want 7", tree.NodeCount())
	}
	root := tree.Node(tree.Root)
	if root.Name != "root" || root.Owner != "Even" {
		t.Errorf("root = %s owned by %s", root.Name, root.Owner)
	}
	if len(tree.InfoSets) != 1 || tree.InfoSets[0].ID != "guess" {
		t.Fatalf("info sets = %+v", tree.InfoSets)
	}
	if err := tree.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
}

func TestParseChance(t *testing.T) {
	tree, err := ParseString(`
players Alice Bob
node root chance moves storm:a:0.3 sun:b:0.7
node a payoffs 1 0
node b payoffs 0 1
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := tree.Node(tree.Root)
	if root.Kind != game.Chance {
		t.Fatalf("root kind = %s, want chance", root.Kind)
	}
	if root.Probs[0] != 0.3 || root.Probs[1] != 0.7 {
		t.Errorf("probs = %v", root.Probs)
	}
}

func TestParseFractionProbabilities(t *testing.T) {
	tree, err := ParseString(`
players Alice
node root chance moves a:x:1/3 b:y:2/3
node x payoffs 1
node y payoffs 0
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	probs := tree.Node(tree.Root).Probs
	if probs[0]*2 != probs[1] {
		t.Errorf("probs = %v, want 1/3 and 2/3", probs)
	}
}

func TestParseArrow(t *testing.T) {
	tree, err := ParseString(matchingPennies + "arrow root heads\narrow h tails 0.8 blue\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	root := tree.Node(tree.Root)
	a := root.Children[0].Arrow
	if a == nil {
		t.Fatal("root heads edge not annotated")
	}
	if a.Pos != 0.5 || a.Color != "" {
		t.Errorf("root heads arrow = %+v, want pos 0.5 and no color", a)
	}
	if root.Children[1].Arrow != nil {
		t.Error("root tails edge should not be annotated")
	}

	id, _ := tree.Lookup("h")
	a = tree.Node(id).Children[1].Arrow
	if a == nil {
		t.Fatal("h tails edge not annotated")
	}
	if a.Pos != 0.8 || a.Color != "blue" {
		t.Errorf("h tails arrow = %+v, want pos 0.8 color blue", a)
	}
}

func TestParseArrowColorWithoutPosition(t *testing.T) {
	tree, err := ParseString(matchingPennies + "arrow root heads red\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	a := tree.Node(tree.Root).Children[0].Arrow
	if a == nil || a.Pos != 0.5 || a.Color != "red" {
		t.Errorf("arrow = %+v, want pos 0.5 color red", a)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string // substring of the error message
	}{
		{
			name:  "BadProbabilitySum",
			input: "players A\nnode root chance moves a:x:0.3 b:y:0.6\nnode x payoffs 1\nnode y payoffs 0\n",
			want:  "sum to 1",
		},
		{
			name:  "DanglingReference",
			input: "players A\nnode root player A moves L:ghost\n",
			want:  "dangling",
		},
		{
			name:  "MultipleRoots",
			input: "players A\nnode a payoffs 1\nnode b payoffs 2\n",
			want:  "multiple roots",
		},
		{
			name:  "SharedChild",
			input: "players A\nnode root player A moves L:t R:t\nnode t payoffs 1\n",
			want:  "referenced more than once",
		},
		{
			name:  "PayoffArity",
			input: "players A B\nnode root player A moves L:t\nnode t payoffs 1 2 3\n",
			want:  "payoff",
		},
		{
			name:  "UnknownKeyword",
			input: "players A\nnodes root payoffs 1\n",
			want:  "unknown keyword",
		},
		{
			name:  "MalformedMove",
			input: "players A\nnode root player A moves Lx\n",
			want:  "malformed move",
		},
		{
			name:  "MissingPlayers",
			input: "node root payoffs 1\n",
			want:  "players",
		},
		{
			name:  "DuplicatePlayers",
			input: "players A\nplayers B\nnode root payoffs 1\n",
			want:  "duplicate players",
		},
		{
			name:  "BadPayoffValue",
			input: "players A\nnode root payoffs one\n",
			want:  "bad payoff",
		},
		{
			name:  "ArrowUnknownNode",
			input: "players A\nnode root player A moves L:t\nnode t payoffs 1\narrow ghost L\n",
			want:  "unknown node",
		},
		{
			name:  "ArrowUnknownMove",
			input: "players A\nnode root player A moves L:t\nnode t payoffs 1\narrow root R\n",
			want:  "no move",
		},
		{
			name:  "ArrowPositionOutOfRange",
			input: "players A\nnode root player A moves L:t\nnode t payoffs 1\narrow root L 1.5\n",
			want:  "position in [0,1]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseString(tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, errors.ErrCodeParse) {
				t.Errorf("error code = %s, want PARSE_ERROR", errors.GetCode(err))
			}
			if !strings.Contains(strings.ToLower(err.Error()), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParseErrorNamesLine(t *testing.T) {
	_, err := ParseString("players A\nnode root player A mvoes L:t\nnode t payoffs 1\n")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error %q should carry the line number", err)
	}
}
