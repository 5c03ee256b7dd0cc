// Package tikz emits TikZ markup for a laid-out game tree.
//
// The emitter walks the tree in pre-order and produces one drawing
// command per visual element: edges with move labels first, then payoff
// stacks, information-set connectors, and finally the node shapes so
// they sit on top of the lines. Output is byte-identical for identical
// inputs.
//
// [WrapDocument] turns the tikzpicture into a complete standalone LaTeX
// document for the pdflatex toolchain.
package tikz
