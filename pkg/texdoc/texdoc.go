package texdoc

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Compiler turns a complete LaTeX document into a PDF.
type Compiler interface {
	Compile(ctx context.Context, document string) ([]byte, error)
}

// Rasterizer turns a PDF into a PNG at the given resolution.
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, dpi int) ([]byte, error)
}

// jobDir creates a fresh working directory for one toolchain run.
// Every run gets its own directory so concurrent renders never share
// auxiliary files.
func jobDir() (string, error) {
	dir := filepath.Join(os.TempDir(), "drawtree-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// logTail returns the last n lines of tool output, the part that
// usually carries the actual error.
func logTail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
