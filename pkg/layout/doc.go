// Package layout computes collision-free coordinates for a game tree.
//
// The engine runs three passes over a validated [game.Tree]:
//
//  1. A bottom-up measure pass assigns every node its subtree width in
//     abstract leaf units (a terminal is 1 unit wide, an internal node
//     is the sum of its children).
//  2. A top-down placement pass centers the root over the total width
//     and gives each child a horizontal slice proportional to its own
//     subtree width, centered within the slice. Subtrees therefore never
//     overlap horizontally, whatever their depth or shape. Rows are
//     strict: y depends only on depth, so information-set connectors can
//     be drawn as horizontal lines.
//  3. A reconciliation pass checks that every information set's members
//     share one depth row and that adjacent members leave enough
//     clearance for the widest action label at that depth. When
//     clearance is missing the horizontal unit is widened uniformly and
//     placement repeats, a bounded number of times.
//
// Results are produced fresh for every render and never mutate the tree.
package layout
