// Package game defines the extensive-form game tree model.
//
// A [Tree] is an arena of [Node] values indexed by [NodeID]. Child lists
// store arena indices, so traversal and layout work with plain integers
// and the tree-shaped ownership invariant (no shared subtrees, no
// cycles) can be checked cheaply. Nodes are tagged variants: the Kind
// field selects which of the owner/children, probability, or payoff
// fields are meaningful, and the [Builder] only ever populates the
// fields that match the tag.
//
// Trees are built once, checked with [Tree.Validate], and read-only from
// then on. Layout and rendering never mutate a Tree; per-render geometry
// lives in the layout package.
package game
