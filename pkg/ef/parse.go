package ef

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/game"
)

// Parse reads an extensive-form description and returns the built tree.
// Parsing is a single pass: node lines are tokenized into declarations,
// child references are resolved at the end, and the result must be a
// strict tree (single root, no dangling references, no shared subtrees).
// All failures are PARSE_ERROR carrying the offending line number.
// Cross information-set consistency is left to [game.Tree.Validate].
//
// Parse keeps no state between calls; concurrent parses of independent
// inputs are safe.
func Parse(r io.Reader) (*game.Tree, error) {
	b := game.NewBuilder()
	havePlayers := false
	var arrows []pendingArrow

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "players":
			if havePlayers {
				return nil, errors.New(errors.ErrCodeParse, "line %d: duplicate players declaration", lineno)
			}
			if len(fields) < 2 {
				return nil, errors.New(errors.ErrCodeParse, "line %d: players declaration needs at least one name", lineno)
			}
			b.SetPlayers(fields[1:])
			havePlayers = true

		case "node":
			if err := parseNode(b, fields, lineno); err != nil {
				return nil, err
			}

		case "arrow":
			a, err := parseArrow(fields, lineno)
			if err != nil {
				return nil, err
			}
			arrows = append(arrows, a)

		default:
			return nil, errors.New(errors.ErrCodeParse, "line %d: unknown keyword %q", lineno, fields[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "read input")
	}

	if !havePlayers {
		return nil, errors.New(errors.ErrCodeParse, "missing players declaration")
	}

	tree, err := b.Build()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeParse, err, "invalid tree structure")
	}
	if err := attachArrows(tree, arrows); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseString is a convenience wrapper around [Parse].
func ParseString(s string) (*game.Tree, error) {
	return Parse(strings.NewReader(s))
}

// parseNode handles one "node <name> ..." line. The body is either
// "player <owner> [iset <id>] moves ...", "chance moves ...", or
// "payoffs <v> ...".
func parseNode(b *game.Builder, fields []string, lineno int) error {
	if len(fields) < 3 {
		return errors.New(errors.ErrCodeParse, "line %d: incomplete node declaration", lineno)
	}
	name := fields[1]
	rest := fields[2:]

	switch rest[0] {
	case "player":
		if len(rest) < 2 {
			return errors.New(errors.ErrCodeParse, "line %d: node %s: player name missing", lineno, name)
		}
		owner := rest[1]
		rest = rest[2:]
		iset := ""
		if len(rest) >= 1 && rest[0] == "iset" {
			if len(rest) < 2 {
				return errors.New(errors.ErrCodeParse, "line %d: node %s: iset id missing", lineno, name)
			}
			iset = rest[1]
			rest = rest[2:]
		}
		moves, children, _, err := parseMoves(name, rest, false, lineno)
		if err != nil {
			return err
		}
		if err := b.AddDecision(name, owner, iset, moves, children); err != nil {
			return errors.Wrap(errors.ErrCodeParse, err, "line %d: node %s", lineno, name)
		}

	case "chance":
		moves, children, probs, err := parseMoves(name, rest[1:], true, lineno)
		if err != nil {
			return err
		}
		if err := b.AddChance(name, moves, children, probs); err != nil {
			return errors.Wrap(errors.ErrCodeParse, err, "line %d: node %s", lineno, name)
		}

	case "payoffs":
		payoffs := make([]float64, 0, len(rest)-1)
		for _, tok := range rest[1:] {
			v, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return errors.New(errors.ErrCodeParse, "line %d: node %s: bad payoff %q", lineno, name, tok)
			}
			payoffs = append(payoffs, v)
		}
		if err := b.AddTerminal(name, payoffs); err != nil {
			return errors.Wrap(errors.ErrCodeParse, err, "line %d: node %s", lineno, name)
		}

	default:
		return errors.New(errors.ErrCodeParse,
			"line %d: node %s: expected player, chance or payoffs, got %q", lineno, name, rest[0])
	}
	return nil
}

// parseMoves decodes the tokens after the "moves" keyword. Decision
// references are label:child, chance references label:child:probability.
func parseMoves(name string, rest []string, chance bool, lineno int) (moves, children []string, probs []float64, err error) {
	if len(rest) == 0 || rest[0] != "moves" {
		return nil, nil, nil, errors.New(errors.ErrCodeParse, "line %d: node %s: moves keyword missing", lineno, name)
	}
	for _, tok := range rest[1:] {
		parts := strings.Split(tok, ":")
		want := 2
		if chance {
			want = 3
		}
		if len(parts) != want {
			return nil, nil, nil, errors.New(errors.ErrCodeParse,
				"line %d: node %s: malformed move %q (want %d colon-separated parts)", lineno, name, tok, want)
		}
		moves = append(moves, parts[0])
		children = append(children, parts[1])
		if chance {
			p, perr := parseProb(parts[2])
			if perr != nil {
				return nil, nil, nil, errors.New(errors.ErrCodeParse,
					"line %d: node %s: bad probability %q", lineno, name, parts[2])
			}
			probs = append(probs, p)
		}
	}
	return moves, children, probs, nil
}

// pendingArrow is an arrow line waiting for the tree to be built, so
// its node and move references can be resolved.
type pendingArrow struct {
	node   string
	move   string
	pos    float64
	color  string
	lineno int
}

// parseArrow handles one "arrow <node> <move> [pos] [color]" line.
// The position defaults to 0.5, the midpoint of the edge.
func parseArrow(fields []string, lineno int) (pendingArrow, error) {
	if len(fields) < 3 {
		return pendingArrow{}, errors.New(errors.ErrCodeParse,
			"line %d: arrow needs a node and a move name", lineno)
	}
	a := pendingArrow{node: fields[1], move: fields[2], pos: 0.5, lineno: lineno}
	rest := fields[3:]
	if len(rest) > 0 {
		if v, err := strconv.ParseFloat(rest[0], 64); err == nil {
			if v < 0 || v > 1 {
				return pendingArrow{}, errors.New(errors.ErrCodeParse,
					"line %d: arrow position in [0,1] required, got %s", lineno, rest[0])
			}
			a.pos = v
			rest = rest[1:]
		}
	}
	if len(rest) > 0 {
		a.color = rest[0]
		rest = rest[1:]
	}
	if len(rest) > 0 {
		return pendingArrow{}, errors.New(errors.ErrCodeParse,
			"line %d: arrow has trailing tokens %v", lineno, rest)
	}
	return a, nil
}

// attachArrows resolves arrow lines against the built tree and tags
// the matching edges.
func attachArrows(t *game.Tree, arrows []pendingArrow) error {
	for _, a := range arrows {
		id, ok := t.Lookup(a.node)
		if !ok {
			return errors.New(errors.ErrCodeParse,
				"line %d: arrow references unknown node %q", a.lineno, a.node)
		}
		n := t.Node(id)
		idx := -1
		for i, e := range n.Children {
			if e.Label == a.move {
				idx = i
				break
			}
		}
		if idx < 0 {
			return errors.New(errors.ErrCodeParse,
				"line %d: node %s has no move %q", a.lineno, a.node, a.move)
		}
		n.Children[idx].Arrow = &game.Arrow{Pos: a.pos, Color: a.color}
	}
	return nil
}

// parseProb accepts a decimal ("0.25") or a fraction ("1/4").
func parseProb(s string) (float64, error) {
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err := strconv.ParseFloat(num, 64)
		if err != nil {
			return 0, err
		}
		d, err := strconv.ParseFloat(den, 64)
		if err != nil {
			return 0, err
		}
		return n / d, nil
	}
	return strconv.ParseFloat(s, 64)
}
