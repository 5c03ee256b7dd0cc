// Package ef reads and writes the textual extensive-form description.
//
// The format is line oriented. Blank lines are skipped and "#" starts a
// comment running to the end of the line. Tokens are whitespace
// separated, so names and move labels cannot contain spaces.
//
//	players Alice Bob
//	node root player Alice moves L:x R:y
//	node x player Bob iset g1 moves l:t1 r:t2
//	node c chance moves heads:a:1/2 tails:b:1/2
//	node t1 payoffs 1 0
//
// Exactly one "players" line declares the ordered player list. Each
// "node" line declares one node and references its children by name; a
// child reference uses label:child for decision nodes and
// label:child:probability for chance nodes (probabilities accept
// decimals or fractions like 1/3). A node with only payoffs is a
// terminal leaf. The single node never referenced as a child is the
// root.
//
// The format is reflexive: [Format] writes a canonical description that
// [Parse] reads back into a structurally identical tree.
package ef
