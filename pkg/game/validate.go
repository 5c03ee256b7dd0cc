package game

import (
	"github.com/gambitproject/draw-tree/pkg/errors"
)

// Validate checks the global invariants that the parser cannot verify
// locally while building individual nodes:
//
//   - every information set has one owner shared by all members, and all
//     members offer the same moves in the same order
//   - no decision node belongs to more than one information set
//   - every referenced player is in the declared player list
//   - every terminal payoff vector has one entry per player
//
// Validate is a pure checker: on success the tree is returned unchanged.
// Violations are reported as VALIDATION_ERROR naming the invariant and
// the offending entity.
func (t *Tree) Validate() error {
	seen := make(map[NodeID]string) // node -> info set claiming it

	for _, set := range t.InfoSets {
		if len(set.Members) == 0 {
			return errors.New(errors.ErrCodeValidation, "information set %s has no members", set.ID)
		}
		first := t.Node(set.Members[0])
		for _, id := range set.Members {
			n := t.Node(id)
			if n.Kind != Decision {
				return errors.New(errors.ErrCodeValidation,
					"information set %s: node %s is %s, not a decision node", set.ID, n.Name, n.Kind)
			}
			if prev, ok := seen[id]; ok && prev != set.ID {
				return errors.New(errors.ErrCodeValidation,
					"node %s belongs to information sets %s and %s", n.Name, prev, set.ID)
			}
			seen[id] = set.ID
			if n.Owner != set.Owner {
				return errors.New(errors.ErrCodeValidation,
					"information set %s: owner %s but member %s is owned by %s",
					set.ID, set.Owner, n.Name, n.Owner)
			}
			if err := sameMoves(set.ID, first, n); err != nil {
				return err
			}
		}
	}

	for i := range t.nodes {
		n := &t.nodes[i]
		switch n.Kind {
		case Decision:
			if _, ok := t.PlayerIndex(n.Owner); !ok {
				return errors.New(errors.ErrCodeValidation,
					"node %s references undeclared player %s", n.Name, n.Owner)
			}
		case Terminal:
			if len(n.Payoffs) != len(t.Players) {
				return errors.New(errors.ErrCodeValidation,
					"node %s has %d payoffs for %d players", n.Name, len(n.Payoffs), len(t.Players))
			}
		}
	}

	return nil
}

// sameMoves checks that two members of an information set offer
// identical move labels in identical order. A player facing the set must
// have the same choices regardless of which node they are actually at.
func sameMoves(setID string, a, b *Node) error {
	if len(a.Children) != len(b.Children) {
		return errors.New(errors.ErrCodeValidation,
			"information set %s: member %s has %d moves but member %s has %d",
			setID, a.Name, len(a.Children), b.Name, len(b.Children))
	}
	for i := range a.Children {
		if a.Children[i].Label != b.Children[i].Label {
			return errors.New(errors.ErrCodeValidation,
				"information set %s: member %s move %q differs from member %s move %q",
				setID, a.Name, a.Children[i].Label, b.Name, b.Children[i].Label)
		}
	}
	return nil
}
