package tikz

// documentHeader is the standalone preamble for compiling a picture on
// its own. The macro values match the dimensions the picture markup
// references.
const documentHeader = `\documentclass{article}
\usepackage{tikz}
\usetikzlibrary{shapes}
\usetikzlibrary{arrows.meta}
\usepackage{amsmath}
\usepackage{amsfonts}

\newcommand{\treethickn}{1pt}
\newcommand{\paydown}{2.5ex}
\newcommand{\yup}{0.5mm}
\newcommand{\yfracup}{0.8mm}
\newcommand{\spx}{1mm}
\newcommand{\spy}{.5mm}
\newcommand{\ndiam}{1.5mm}
\newcommand{\sqwidth}{1.6mm}
\newcommand{\chancecolor}{gray}

\begin{document}
\thispagestyle{empty}

`

const documentFooter = `
\end{document}
`

// WrapDocument embeds picture markup in a complete LaTeX document ready
// for pdflatex.
func WrapDocument(markup string) string {
	return documentHeader + markup + documentFooter
}
