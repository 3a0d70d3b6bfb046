package analysis_test

import (
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInjection_ViewModelWiring(t *testing.T) {
	src := lines(
		"class HomeViewModel @Inject constructor(",
		"    private val repo: UserRepository",
		") : ViewModel() {",
		"    private val api = UserApiImpl()",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/HomeViewModel.kt", domain.LayerPresentation)
	findings := run(t, analysis.NewInjectionAnalyzer(), f, src)
	require.Len(t, findings, 2)

	assert.Equal(t, "missing-hilt-viewmodel", findings[0].Rule)
	assert.Equal(t, 1, findings[0].Line)
	require.NotNil(t, findings[0].Fix)
	assert.Equal(t, "@HiltViewModel", findings[0].Fix.Replacement)

	assert.Equal(t, "manual-dependency-construction", findings[1].Rule)
	assert.Equal(t, 4, findings[1].Line)
}

func TestInjection_HiltViewModelIsClean(t *testing.T) {
	src := lines(
		"@HiltViewModel",
		"class HomeViewModel @Inject constructor(",
		"    private val repo: UserRepository",
		") : ViewModel()",
	)
	f := kotlinFile("app/src/main/java/com/shop/ui/HomeViewModel.kt", domain.LayerPresentation)
	assert.Empty(t, run(t, analysis.NewInjectionAnalyzer(), f, src))
}

func TestInjection_ModuleWithoutInstallIn(t *testing.T) {
	src := lines(
		"@Module",
		"object NetworkModule {",
		"    @Provides",
		"    fun provideApi(): Api = retrofit.create(Api::class.java)",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/di/NetworkModule.kt", domain.LayerDI)
	findings := run(t, analysis.NewInjectionAnalyzer(), f, src)
	require.Len(t, findings, 1)
	assert.Equal(t, "module-missing-installin", findings[0].Rule)

	installed := "@InstallIn(SingletonComponent::class)\n" + src
	assert.Empty(t, run(t, analysis.NewInjectionAnalyzer(), f, installed))
}

func TestInjection_FieldInjection(t *testing.T) {
	plain := lines(
		"class Tracker {",
		"    @Inject lateinit var api: Api",
		"    @Inject",
		"    lateinit var clock: Clock",
		"}",
	)
	f := kotlinFile("app/src/main/java/com/shop/Tracker.kt", domain.LayerNone)
	findings := run(t, analysis.NewInjectionAnalyzer(), f, plain)
	require.Len(t, findings, 2)
	assert.Equal(t, 2, findings[0].Line)
	assert.Equal(t, 4, findings[1].Line)

	activity := lines(
		"@AndroidEntryPoint",
		"class MainActivity : ComponentActivity() {",
		"    @Inject lateinit var api: Api",
		"}",
	)
	assert.Empty(t, run(t, analysis.NewInjectionAnalyzer(), f, activity))
}
