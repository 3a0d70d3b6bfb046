package analysis_test

import (
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_ViewModelExposure(t *testing.T) {
	src := lines(
		"class HomeViewModel : ViewModel() {",
		"    val uiState = MutableStateFlow(UiState())",
		"    val events: MutableSharedFlow<Event> = MutableSharedFlow()",
		"    private val _items = MutableStateFlow(emptyList<Item>())",
		`    var query: String = ""`,
		"    var selected: Int = 0",
		"        private set",
		"    private var counter = 0",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/HomeViewModel.kt", domain.LayerPresentation)
	findings := run(t, analysis.NewStateAnalyzer(), f, src)
	assert.Equal(t, []ruleAt{
		{"exposed-mutable-state", 2},
		{"exposed-mutable-state", 3},
		{"public-mutable-var", 5},
	}, rulesAt(findings))
	assert.Contains(t, findings[1].Description, "MutableSharedFlow")
	require.NotNil(t, findings[2].Fix)
	assert.Equal(t, "private set", findings[2].Fix.Replacement)
}

func TestState_LifecycleCollection(t *testing.T) {
	src := lines(
		"@Composable",
		"fun HomeScreen(viewModel: HomeViewModel) {",
		"    val state by viewModel.uiState.collectAsState()",
		"    val other by viewModel.other.collectAsStateWithLifecycle()",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/HomeScreen.kt", domain.LayerPresentation)
	findings := run(t, analysis.NewStateAnalyzer(), f, src)
	require.Len(t, findings, 1)
	assert.Equal(t, "lifecycle-unaware-collection", findings[0].Rule)
	assert.Equal(t, 3, findings[0].Line)
	assert.Equal(t, "collectAsStateWithLifecycle()", findings[0].Fix.Replacement)
}

func TestState_TopLevelAndOutsideViewModel(t *testing.T) {
	src := lines(
		"val counter = MutableStateFlow(0)",
		"class Settings {",
		"    var theme: String = \"dark\"",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/Settings.kt", domain.LayerPresentation)
	assert.Empty(t, run(t, analysis.NewStateAnalyzer(), f, src))
}

func TestState_AppliesTo(t *testing.T) {
	a := analysis.NewStateAnalyzer()
	assert.True(t, a.AppliesTo(kotlinFile("feature/CartViewModel.kt", domain.LayerNone)))
	assert.False(t, a.AppliesTo(kotlinFile("data/UserRepository.kt", domain.LayerData)))
}
