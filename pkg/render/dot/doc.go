// Package dot renders a game tree as a Graphviz diagram. It is the
// quick structural preview: no TeX toolchain needed, at the price of
// Graphviz deciding the geometry instead of the game-tree layout.
//
// [ToDOT] produces the DOT source; [RenderSVG] and [RenderPNG] rasterize
// it through the embedded Graphviz engine.
package dot
