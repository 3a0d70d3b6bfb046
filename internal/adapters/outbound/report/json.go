package report

import (
	"encoding/json"
	"io"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// RenderJSON writes the report as indented JSON.
func RenderJSON(w io.Writer, r *domain.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
