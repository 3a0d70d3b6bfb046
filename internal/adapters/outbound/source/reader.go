package source

import (
	"fmt"
	"os"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// Reader implements domain.ContentReader with a size cap.
type Reader struct {
	maxBytes int64
}

// NewReader returns a reader refusing files above maxBytes. A non-positive
// limit selects domain.DefaultMaxFileBytes.
func NewReader(maxBytes int64) *Reader {
	if maxBytes <= 0 {
		maxBytes = domain.DefaultMaxFileBytes
	}
	return &Reader{maxBytes: maxBytes}
}

func (r *Reader) Read(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.Size() > r.maxBytes {
		return nil, fmt.Errorf("%s is %d bytes (limit %d): %w", path, info.Size(), r.maxBytes, domain.ErrFileTooLarge)
	}
	return os.ReadFile(path)
}
