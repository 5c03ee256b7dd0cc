package texdoc

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/observability"
)

// logTailLines bounds how much of the pdflatex log a failure reports.
const logTailLines = 20

// Pdflatex compiles documents with the pdflatex binary.
type Pdflatex struct {
	// Binary overrides the executable name, for tests and unusual
	// installations. Empty means "pdflatex" from PATH.
	Binary string
}

var _ Compiler = (*Pdflatex)(nil)

func (p *Pdflatex) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	return "pdflatex"
}

// Compile writes the document into a fresh job directory, runs one
// pdflatex pass and returns the PDF bytes. On failure the error carries
// the tail of the compile log.
func (p *Pdflatex) Compile(ctx context.Context, document string) ([]byte, error) {
	bin, err := exec.LookPath(p.binary())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err,
			"pdflatex not found, install a TeX distribution (e.g. texlive)")
	}

	dir, err := jobDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err, "create job directory")
	}
	defer os.RemoveAll(dir)

	texFile := filepath.Join(dir, "document.tex")
	if err := os.WriteFile(texFile, []byte(document), 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err, "write document")
	}

	cmd := exec.CommandContext(ctx, bin,
		"-interaction=nonstopmode",
		"-halt-on-error",
		"-output-directory", dir,
		texFile)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	observability.Tool().OnToolStart(ctx, "pdflatex")
	err = cmd.Run()
	observability.Tool().OnToolComplete(ctx, "pdflatex", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err,
			"pdflatex failed:\n%s", logTail(out.String(), logTailLines))
	}

	pdf, err := os.ReadFile(filepath.Join(dir, "document.pdf"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompile, err, "read generated PDF")
	}
	return pdf, nil
}
