package game

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ProbTolerance is the floating tolerance for chance probability sums.
const ProbTolerance = 1e-6

// Builder errors. The parser wraps these with line context; they are
// deliberately plain sentinels so callers can test with errors.Is.
var (
	// ErrInvalidNodeName is returned when a node name is empty.
	ErrInvalidNodeName = errors.New("node name must not be empty")

	// ErrDuplicateNodeName is returned when a node name is declared twice.
	ErrDuplicateNodeName = errors.New("duplicate node name")

	// ErrDanglingReference is returned by [Builder.Build] when a move
	// references a node that was never declared.
	ErrDanglingReference = errors.New("dangling child reference")

	// ErrSharedChild is returned by [Builder.Build] when two moves reference
	// the same child node. Every node has at most one parent.
	ErrSharedChild = errors.New("child referenced more than once")

	// ErrMultipleRoots is returned by [Builder.Build] when more than one
	// declared node has no incoming edge.
	ErrMultipleRoots = errors.New("multiple roots")

	// ErrNoRoot is returned by [Builder.Build] when every node has an
	// incoming edge, which means the references form a cycle.
	ErrNoRoot = errors.New("no root node (reference cycle)")

	// ErrNoChildren is returned when a decision or chance node declares
	// zero moves.
	ErrNoChildren = errors.New("decision node needs at least one move")

	// ErrBadProbabilitySum is returned when chance probabilities do not
	// sum to 1 within ProbTolerance.
	ErrBadProbabilitySum = errors.New("chance probabilities must sum to 1")

	// ErrNoPlayers is returned by [Builder.Build] when no players were
	// declared.
	ErrNoPlayers = errors.New("player list must not be empty")

	// ErrPayoffArity is returned when a terminal node's payoff count does
	// not match the declared player count.
	ErrPayoffArity = errors.New("payoff count must equal player count")
)

// NodeID is an index into the tree's node arena.
type NodeID int

// NoNode is the invalid node index.
const NoNode NodeID = -1

// Kind distinguishes the three node variants of an extensive-form tree.
type Kind int

const (
	// Decision is a node where a player chooses the next move.
	Decision Kind = iota
	// Chance is a node where a fixed probability distribution chooses.
	Chance
	// Terminal is a leaf carrying one payoff per player.
	Terminal
)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case Decision:
		return "decision"
	case Chance:
		return "chance"
	case Terminal:
		return "terminal"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Edge is one outgoing move of a decision or chance node. Order within a
// child list is significant: it is the left-to-right drawing order.
type Edge struct {
	Label string
	Child NodeID

	// Arrow, when set, marks the move as a best response and is drawn
	// as an arrowhead on the edge.
	Arrow *Arrow
}

// Arrow annotates a move with a best-response arrowhead. Pos locates
// the tip along the edge as a fraction of the way from the parent to
// the child. Color fills the arrowhead; empty means the line color.
type Arrow struct {
	Pos   float64
	Color string
}

// Node is one point of the game tree. Exactly the fields matching Kind
// are populated:
//
//	Decision: Owner, InfoSet (optional), Children
//	Chance:   Children, Probs (parallel to Children)
//	Terminal: Payoffs
type Node struct {
	Name     string
	Kind     Kind
	Owner    string
	InfoSet  string
	Children []Edge
	Probs    []float64
	Payoffs  []float64
}

// InformationSet groups decision nodes one player cannot tell apart.
type InformationSet struct {
	ID      string
	Owner   string
	Members []NodeID
}

// Tree is a validated extensive-form game tree. It owns all nodes
// exclusively and is immutable after Parse and Validate succeed.
type Tree struct {
	Players  []string
	Root     NodeID
	InfoSets []InformationSet

	nodes []Node
}

// Node returns the node at id. The returned pointer is read-only by
// convention; the tree must not be mutated after validation.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// NodeCount returns the number of nodes in the arena.
func (t *Tree) NodeCount() int { return len(t.nodes) }

// Lookup returns the id of the node with the given name.
func (t *Tree) Lookup(name string) (NodeID, bool) {
	for i := range t.nodes {
		if t.nodes[i].Name == name {
			return NodeID(i), true
		}
	}
	return NoNode, false
}

// PreOrder visits every node in pre-order (parent before children,
// children in declaration order), passing the node id and its depth.
func (t *Tree) PreOrder(visit func(id NodeID, depth int)) {
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		visit(id, depth)
		for _, e := range t.nodes[id].Children {
			walk(e.Child, depth+1)
		}
	}
	walk(t.Root, 0)
}

// PlayerIndex returns the position of name in the declared player list.
func (t *Tree) PlayerIndex(name string) (int, bool) {
	for i, p := range t.Players {
		if p == name {
			return i, true
		}
	}
	return -1, false
}

// Builder accumulates node declarations and assembles a Tree.
// Declarations reference children by name; Build resolves the
// references, finds the unique root, and rejects anything that is not a
// strict tree. The zero value is not usable - use NewBuilder.
type Builder struct {
	players []string
	nodes   []Node
	refs    [][]string // child names per node, parallel to nodes
	byName  map[string]NodeID
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]NodeID)}
}

// SetPlayers declares the ordered player list.
func (b *Builder) SetPlayers(names []string) {
	b.players = names
}

// AddDecision declares a decision node. moves and children are parallel:
// moves[i] labels the edge to the node named children[i]. iset may be
// empty for a singleton information set.
func (b *Builder) AddDecision(name, owner, iset string, moves []string, children []string) error {
	if len(moves) == 0 {
		return ErrNoChildren
	}
	edges := make([]Edge, len(moves))
	for i, m := range moves {
		edges[i] = Edge{Label: m, Child: NoNode}
	}
	return b.add(Node{
		Name:     name,
		Kind:     Decision,
		Owner:    owner,
		InfoSet:  iset,
		Children: edges,
	}, children)
}

// AddChance declares a chance node. probs is parallel to moves/children
// and must sum to 1 within ProbTolerance.
func (b *Builder) AddChance(name string, moves []string, children []string, probs []float64) error {
	if len(moves) == 0 {
		return ErrNoChildren
	}
	sum := 0.0
	for _, p := range probs {
		sum += p
	}
	if math.Abs(sum-1.0) > ProbTolerance {
		return fmt.Errorf("%w (got %g)", ErrBadProbabilitySum, sum)
	}
	edges := make([]Edge, len(moves))
	for i, m := range moves {
		edges[i] = Edge{Label: m, Child: NoNode}
	}
	return b.add(Node{
		Name:     name,
		Kind:     Chance,
		Children: edges,
		Probs:    probs,
	}, children)
}

// AddTerminal declares a terminal node with one payoff per player.
func (b *Builder) AddTerminal(name string, payoffs []float64) error {
	return b.add(Node{
		Name:    name,
		Kind:    Terminal,
		Payoffs: payoffs,
	}, nil)
}

func (b *Builder) add(n Node, children []string) error {
	if n.Name == "" {
		return ErrInvalidNodeName
	}
	if _, exists := b.byName[n.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNodeName, n.Name)
	}
	b.byName[n.Name] = NodeID(len(b.nodes))
	b.nodes = append(b.nodes, n)
	b.refs = append(b.refs, children)
	return nil
}

// Build resolves child references and returns the finished tree.
// It rejects dangling references, shared children, missing or multiple
// roots, empty player lists, and terminal payoff arity mismatches.
// Information sets are collected from the per-node tags in declaration
// order; cross-set consistency is deferred to [Tree.Validate].
func (b *Builder) Build() (*Tree, error) {
	if len(b.players) == 0 {
		return nil, ErrNoPlayers
	}

	hasParent := make([]bool, len(b.nodes))
	for i := range b.nodes {
		for j, childName := range b.refs[i] {
			child, ok := b.byName[childName]
			if !ok {
				return nil, fmt.Errorf("%w: %s -> %s", ErrDanglingReference, b.nodes[i].Name, childName)
			}
			if hasParent[child] {
				return nil, fmt.Errorf("%w: %s", ErrSharedChild, childName)
			}
			hasParent[child] = true
			b.nodes[i].Children[j].Child = child
		}
	}

	root := NoNode
	for i := range b.nodes {
		if !hasParent[i] {
			if root != NoNode {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, b.nodes[root].Name, b.nodes[i].Name)
			}
			root = NodeID(i)
		}
	}
	if root == NoNode {
		return nil, ErrNoRoot
	}

	for i := range b.nodes {
		n := &b.nodes[i]
		if n.Kind == Terminal && len(n.Payoffs) != len(b.players) {
			return nil, fmt.Errorf("%w: node %s has %d payoffs for %d players",
				ErrPayoffArity, n.Name, len(n.Payoffs), len(b.players))
		}
	}

	t := &Tree{
		Players:  b.players,
		Root:     root,
		nodes:    b.nodes,
		InfoSets: collectInfoSets(b.nodes),
	}
	return t, nil
}

// collectInfoSets groups decision nodes by their iset tag. Set order
// follows the first appearance of each tag in the arena; members keep
// arena order. Owner is taken from the first member and checked for
// consistency by Validate.
func collectInfoSets(nodes []Node) []InformationSet {
	index := make(map[string]int)
	var sets []InformationSet
	for i := range nodes {
		tag := nodes[i].InfoSet
		if nodes[i].Kind != Decision || tag == "" {
			continue
		}
		at, ok := index[tag]
		if !ok {
			at = len(sets)
			index[tag] = at
			sets = append(sets, InformationSet{ID: tag, Owner: nodes[i].Owner})
		}
		sets[at].Members = append(sets[at].Members, NodeID(i))
	}
	// Members are already in arena order; keep set order stable too.
	sort.SliceStable(sets, func(a, b int) bool {
		return sets[a].Members[0] < sets[b].Members[0]
	})
	return sets
}
