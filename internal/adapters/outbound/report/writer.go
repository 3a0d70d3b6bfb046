package report

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// renderers maps a format to its encoder and file name.
var renderers = map[string]struct {
	file   string
	render func(io.Writer, *domain.Report, string) error
}{
	domain.FormatText:  {"report.txt", func(w io.Writer, r *domain.Report, _ string) error { return RenderText(w, r) }},
	domain.FormatJSON:  {"report.json", func(w io.Writer, r *domain.Report, _ string) error { return RenderJSON(w, r) }},
	domain.FormatSARIF: {"report.sarif", RenderSARIF},
}

// FileWriter implements domain.ReportWriter by rendering every configured format
// into one directory.
type FileWriter struct {
	dir     string
	formats []string
	version string
}

// NewFileWriter writes the given formats into dir. Unknown formats are rejected by
// config validation before they reach here and are skipped.
func NewFileWriter(dir string, formats []string, version string) *FileWriter {
	return &FileWriter{dir: dir, formats: formats, version: version}
}

// Dir returns the reports directory for a project.
func Dir(projectRoot, outputDir string) string {
	return filepath.Join(projectRoot, outputDir, "reports")
}

func (w *FileWriter) Write(ctx context.Context, r *domain.Report) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report dir: %w", err)
	}
	var paths []string
	for _, format := range w.formats {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		rd, ok := renderers[format]
		if !ok {
			continue
		}
		var buf bytes.Buffer
		if err := rd.render(&buf, r, w.version); err != nil {
			return paths, fmt.Errorf("rendering %s report: %w", format, err)
		}
		p := filepath.Join(w.dir, rd.file)
		if err := os.WriteFile(p, buf.Bytes(), 0o644); err != nil {
			return paths, fmt.Errorf("writing %s: %w", p, err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}
