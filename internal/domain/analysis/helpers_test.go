package analysis_test

import (
	"strings"
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/stretchr/testify/require"
)

func kotlinFile(rel string, layer domain.Layer) domain.FileInfo {
	return domain.FileInfo{Path: "/proj/" + rel, RelPath: rel, Layer: layer}
}

func run(t *testing.T, a domain.Analyzer, f domain.FileInfo, src string) []domain.Finding {
	t.Helper()
	findings, err := a.Analyze(f, []byte(src))
	require.NoError(t, err)
	for _, fd := range findings {
		require.NoError(t, fd.Validate(), "finding %s at line %d", fd.Rule, fd.Line)
		require.Equal(t, a.ID(), fd.Analyzer)
		require.Equal(t, a.Category(), fd.Category)
	}
	return findings
}

func withRule(findings []domain.Finding, rule string) []domain.Finding {
	var out []domain.Finding
	for _, f := range findings {
		if f.Rule == rule {
			out = append(out, f)
		}
	}
	return out
}

func lines(ls ...string) string { return strings.Join(ls, "\n") + "\n" }
