// Package render contains the markup backends for game tree drawings.
//
// # Overview
//
// Two backends turn a laid-out tree into markup:
//
//   - [tikz] emits the TikZ picture used for the tex, pdf and png
//     outputs. It is the primary backend and the one whose geometry the
//     layout package is tuned for.
//   - [dot] emits Graphviz DOT for quick structural previews and
//     renders it to SVG or PNG with the embedded Graphviz engine,
//     without needing a TeX installation.
//
// Both backends are deterministic: the same tree and layout always
// produce byte-identical markup, which the pipeline relies on for
// content-addressed artifact caching.
package render
