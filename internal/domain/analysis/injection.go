package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	injectLateinit   = regexp.MustCompile(`@Inject\s+(?:(?:internal|protected|public)\s+)?lateinit\s+var\s+(\w+)`)
	lateinitVar      = regexp.MustCompile(`^\s*(?:(?:internal|protected|public)\s+)?lateinit\s+var\s+(\w+)`)
	injectCtorClass  = regexp.MustCompile(`\bclass\s+(\w*ViewModel)\s*(?:<[^>]*>)?\s*@Inject\s+constructor`)
	classDecl        = regexp.MustCompile(`\bclass\s+(\w+)`)
	manualDependency = regexp.MustCompile(`(^|[^\w.])([A-Z]\w*(?:Repository|RepositoryImpl|DataSource|Impl|Api|Service|Dao))\s*\(`)
	moduleAnnotation = regexp.MustCompile(`^\s*@Module\b`)
)

var (
	ruleFieldInjection = rule{
		ID:             "field-injection",
		Title:          "Field injection outside an Android entry point",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Inject through the constructor. Field injection is only needed in framework-instantiated classes annotated @AndroidEntryPoint.",
		Before:         "class Tracker {\n    @Inject lateinit var api: Api\n}",
		After:          "class Tracker @Inject constructor(private val api: Api)",
	}
	ruleMissingHiltViewModel = rule{
		ID:             "missing-hilt-viewmodel",
		Title:          "ViewModel is injectable but not annotated @HiltViewModel",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortTrivial,
		Recommendation: "Annotate the class with @HiltViewModel so hiltViewModel() can create it.",
		References:     []string{"https://developer.android.com/training/dependency-injection/hilt-jetpack#viewmodels"},
	}
	ruleManualConstruction = rule{
		ID:             "manual-dependency-construction",
		Title:          "Dependency constructed by hand",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Request the dependency through the constructor and let the container provide it.",
		Before:         "private val repository = UserRepositoryImpl()",
		After:          "class GetUsersUseCase @Inject constructor(private val repository: UserRepository)",
	}
	ruleModuleWithoutInstallIn = rule{
		ID:             "module-missing-installin",
		Title:          "@Module without @InstallIn",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortTrivial,
		Recommendation: "Declare the component the module is installed in, for example @InstallIn(SingletonComponent::class).",
		References:     []string{"https://dagger.dev/hilt/modules"},
	}
)

// InjectionAnalyzer checks dependency injection wiring.
type InjectionAnalyzer struct{ base }

func NewInjectionAnalyzer() *InjectionAnalyzer {
	return &InjectionAnalyzer{base{id: "injection", name: "Dependency injection", category: domain.CategoryDependencyInjection}}
}

func (a *InjectionAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return isKotlin(f) && !f.IsTest()
}

func (a *InjectionAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	text := strings.Join(src.codes, "\n")
	entryPoint := strings.Contains(text, "@AndroidEntryPoint") || strings.Contains(text, "@HiltAndroidApp")
	hiltViewModel := strings.Contains(text, "@HiltViewModel")
	installIn := strings.Contains(text, "@InstallIn") || strings.Contains(text, "@TestInstallIn")

	var findings []domain.Finding
	currentClass := ""
	for i, code := range src.codes {
		if m := classDecl.FindStringSubmatch(code); m != nil {
			currentClass = m[1]
		}

		if !entryPoint {
			if name := fieldInjected(src, i); name != "" {
				findings = append(findings, a.emit(src, ruleFieldInjection, i+1, 0,
					fmt.Sprintf("Property %s is field-injected.", name)))
			}
		}

		if m := injectCtorClass.FindStringSubmatch(code); m != nil && !hiltViewModel {
			findings = append(findings, withFix(
				a.emit(src, ruleMissingHiltViewModel, i+1, 0, fmt.Sprintf("%s has an @Inject constructor but no @HiltViewModel.", m[1])),
				"insert-annotation", "@HiltViewModel"))
		}

		if isConsumerClass(currentClass) && !classDecl.MatchString(code) {
			if m := manualDependency.FindStringSubmatch(code); m != nil {
				findings = append(findings, a.emit(src, ruleManualConstruction, i+1, 0,
					fmt.Sprintf("%s creates %s itself.", currentClass, m[2])))
			}
		}

		if moduleAnnotation.MatchString(code) && !installIn {
			findings = append(findings, withFix(a.emit(src, ruleModuleWithoutInstallIn, i+1, 0, ""),
				"insert-annotation", "@InstallIn(SingletonComponent::class)"))
		}
	}
	return findings, nil
}

// fieldInjected returns the injected property declared on line idx, if any. The
// annotation may sit on the line above.
func fieldInjected(src *source, idx int) string {
	if m := injectLateinit.FindStringSubmatch(src.codes[idx]); m != nil {
		return m[1]
	}
	if idx == 0 {
		return ""
	}
	if m := lateinitVar.FindStringSubmatch(src.codes[idx]); m != nil && strings.TrimSpace(src.codes[idx-1]) == "@Inject" {
		return m[1]
	}
	return ""
}

func isConsumerClass(name string) bool {
	return strings.HasSuffix(name, "ViewModel") || strings.HasSuffix(name, "UseCase")
}
