// Package pkg provides the core libraries for drawtree game tree rendering.
//
// # Overview
//
// drawtree turns extensive-form game descriptions into publication-quality
// TikZ drawings. The pkg directory is organized into five main areas:
//
//  1. [game], [ef] - Domain logic (game trees, the .ef text format)
//  2. [layout] - Geometry (subtree widths, information-set clearance)
//  3. [render] - Markup emission (TikZ, Graphviz DOT)
//  4. [texdoc] - The external TeX toolchain (pdflatex, pdftoppm)
//  5. [pipeline], [cache] - Orchestration (parse → layout → emit → build)
//
// # Architecture
//
// The typical data flow through drawtree:
//
//	.ef source text
//	         ↓
//	ef.Parse → game.Tree → Tree.Validate
//	         ↓
//	layout.Compute → layout.Layout
//	         ↓
//	tikz.Emit → tikz.Document
//	         ↓
//	texdoc.Pdflatex / texdoc.Pdftoppm → PDF / PNG
//
// The [pipeline.Runner] drives this flow, consulting [cache] between
// stages so repeated renders of the same input are cheap. Every stage
// fails with a coded error from [errors], so callers can distinguish
// bad input from a broken toolchain.
package pkg
