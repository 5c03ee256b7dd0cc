package texdoc

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gambitproject/draw-tree/pkg/errors"
	"github.com/gambitproject/draw-tree/pkg/observability"
)

// Pdftoppm rasterizes PDFs with the pdftoppm binary from poppler-utils.
type Pdftoppm struct {
	// Binary overrides the executable name. Empty means "pdftoppm"
	// from PATH.
	Binary string
}

var _ Rasterizer = (*Pdftoppm)(nil)

func (p *Pdftoppm) binary() string {
	if p.Binary != "" {
		return p.Binary
	}
	return "pdftoppm"
}

// Rasterize converts the first page of the PDF to a PNG at the given
// resolution.
func (p *Pdftoppm) Rasterize(ctx context.Context, pdf []byte, dpi int) ([]byte, error) {
	if dpi <= 0 {
		return nil, errors.New(errors.ErrCodeRaster, "dpi must be positive, got %d", dpi)
	}

	bin, err := exec.LookPath(p.binary())
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err,
			"pdftoppm not found, install poppler-utils")
	}

	dir, err := jobDir()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "create job directory")
	}
	defer os.RemoveAll(dir)

	pdfFile := filepath.Join(dir, "page.pdf")
	if err := os.WriteFile(pdfFile, pdf, 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "write PDF")
	}

	cmd := exec.CommandContext(ctx, bin,
		"-png",
		"-singlefile",
		"-r", strconv.Itoa(dpi),
		pdfFile,
		filepath.Join(dir, "page"))

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	observability.Tool().OnToolStart(ctx, "pdftoppm")
	err = cmd.Run()
	observability.Tool().OnToolComplete(ctx, "pdftoppm", time.Since(start), err)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err,
			"pdftoppm failed:\n%s", logTail(out.String(), logTailLines))
	}

	png, err := os.ReadFile(filepath.Join(dir, "page.png"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRaster, err, "read generated PNG")
	}
	return png, nil
}
