package analysis_test

import (
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchitecture_AppliesTo(t *testing.T) {
	a := analysis.NewArchitectureAnalyzer()
	assert.True(t, a.AppliesTo(kotlinFile("app/src/main/java/com/shop/domain/GetUser.kt", domain.LayerDomain)))
	assert.False(t, a.AppliesTo(kotlinFile("app/src/main/java/com/shop/App.kt", domain.LayerNone)))
	assert.False(t, a.AppliesTo(kotlinFile("app/src/test/java/com/shop/domain/GetUserTest.kt", domain.LayerDomain)))
}

func TestArchitecture_DomainImports(t *testing.T) {
	src := lines(
		"package com.shop.domain.usecase",
		"",
		"import android.content.Context",
		"import androidx.annotation.StringRes",
		"import com.shop.data.local.UserDao",
		"import com.shop.domain.model.User",
	)
	f := kotlinFile("app/src/main/java/com/shop/domain/usecase/GetUser.kt", domain.LayerDomain)
	findings := run(t, analysis.NewArchitectureAnalyzer(), f, src)
	require.Len(t, findings, 2)
	assert.Equal(t, "domain-framework-import", findings[0].Rule)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "domain-outer-layer-import", findings[1].Rule)
	assert.Equal(t, 5, findings[1].Line)
}

func TestArchitecture_PresentationUsesDao(t *testing.T) {
	src := lines(
		"import com.shop.data.local.UserDao",
		"import com.shop.domain.model.User",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/home/HomeViewModel.kt", domain.LayerPresentation)
	findings := run(t, analysis.NewArchitectureAnalyzer(), f, src)
	require.Len(t, findings, 1)
	assert.Equal(t, "presentation-data-import", findings[0].Rule)
}

func TestArchitecture_DataImportsPresentation(t *testing.T) {
	f := kotlinFile("app/src/main/java/com/shop/data/UserRepository.kt", domain.LayerData)
	findings := run(t, analysis.NewArchitectureAnalyzer(), f, "import com.shop.ui.home.HomeUiState\n")
	require.Len(t, findings, 1)
	assert.Equal(t, "data-presentation-import", findings[0].Rule)
	assert.Equal(t, domain.PriorityHigh, findings[0].Priority)
}
