package analysis_test

import (
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
)

var registryOrder = []string{
	"architecture", "persistence", "code_smell", "compose", "injection",
	"documentation", "naming", "performance", "security", "state", "test_coverage",
}

func TestDefaultSuite_Order(t *testing.T) {
	suite := analysis.DefaultSuite(analysis.SuiteOptions{})
	assert.Equal(t, registryOrder, analysis.IDs(suite))

	seen := map[domain.Category]bool{}
	for _, a := range suite {
		assert.True(t, a.Category().Valid(), a.ID())
		assert.NotEmpty(t, a.Name())
		seen[a.Category()] = true
	}
	assert.Len(t, seen, len(domain.Categories))
}

func TestSelect(t *testing.T) {
	suite := analysis.DefaultSuite(analysis.SuiteOptions{})
	got := analysis.Select(suite, []string{"naming", "nope", "architecture"})
	assert.Equal(t, []string{"architecture", "naming"}, analysis.IDs(got))
	assert.Empty(t, analysis.Select(suite, []string{"nope"}))
}

func TestWithout(t *testing.T) {
	suite := analysis.DefaultSuite(analysis.SuiteOptions{})
	got := analysis.Without(suite, []string{"security", "state"})
	assert.Len(t, got, len(registryOrder)-2)
	assert.NotContains(t, analysis.IDs(got), "security")
}
