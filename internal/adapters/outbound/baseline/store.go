package baseline

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// Dir returns the baseline directory for a project.
func Dir(projectRoot, outputDir string) string {
	return filepath.Join(projectRoot, outputDir, "baseline")
}

// Open returns the configured store rooted at dir, creating the directory.
// Failures wrap domain.ErrBaselineStore.
func Open(dir, kind string) (domain.BaselineStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating %s: %w: %w", dir, domain.ErrBaselineStore, err)
	}
	switch kind {
	case "", domain.StoreFile:
		return NewFileStore(dir), nil
	case domain.StoreBadger:
		return NewBadgerStore(filepath.Join(dir, "db"))
	default:
		return nil, fmt.Errorf("unknown store %q: %w", kind, domain.ErrBaselineStore)
	}
}
