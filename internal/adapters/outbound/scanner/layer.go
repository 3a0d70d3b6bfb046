package scanner

import (
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var layerSegments = map[string]domain.Layer{
	"ui":           domain.LayerPresentation,
	"presentation": domain.LayerPresentation,
	"screen":       domain.LayerPresentation,
	"screens":      domain.LayerPresentation,
	"compose":      domain.LayerPresentation,
	"viewmodel":    domain.LayerPresentation,
	"domain":       domain.LayerDomain,
	"usecase":      domain.LayerDomain,
	"usecases":     domain.LayerDomain,
	"data":         domain.LayerData,
	"repository":   domain.LayerData,
	"local":        domain.LayerData,
	"remote":       domain.LayerData,
	"database":     domain.LayerData,
	"db":           domain.LayerData,
	"network":      domain.LayerData,
	"api":          domain.LayerData,
	"dao":          domain.LayerData,
	"di":           domain.LayerDI,
	"injection":    domain.LayerDI,
}

// ClassifyLayer infers the architectural layer of a slash-separated relative path
// from its package directories. The innermost recognised directory wins, so
// ui/data/ is data and data/ui/ is presentation.
func ClassifyLayer(rel string) domain.Layer {
	segments := strings.Split(rel, "/")
	for i := len(segments) - 2; i >= 0; i-- {
		if layer, ok := layerSegments[strings.ToLower(segments[i])]; ok {
			return layer
		}
	}
	return domain.LayerNone
}
