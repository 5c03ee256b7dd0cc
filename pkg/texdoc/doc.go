// Package texdoc runs the external TeX toolchain: compiling a LaTeX
// document to PDF and rasterizing a PDF to PNG. Both steps shell out
// to tools the host must provide (pdflatex, pdftoppm) and are kept
// behind small interfaces so the pipeline and tests can substitute
// them. The drawing core never imports this package.
package texdoc
