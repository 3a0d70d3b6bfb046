package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var importLine = regexp.MustCompile(`^\s*import\s+([\w.]+)`)

var (
	ruleDomainFramework = rule{
		ID:             "domain-framework-import",
		Title:          "Domain layer depends on the Android framework",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortMedium,
		Recommendation: "Keep domain code platform-free. Move framework access behind an interface implemented in the data layer.",
		Before:         "import android.content.Context\n\nclass GetUserUseCase(private val context: Context)",
		After:          "class GetUserUseCase(private val repository: UserRepository)",
		References:     []string{"https://developer.android.com/topic/architecture/domain-layer"},
	}
	ruleDomainOuterLayer = rule{
		ID:             "domain-outer-layer-import",
		Title:          "Domain layer imports an outer layer",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortMedium,
		Recommendation: "Depend on abstractions declared in the domain layer instead of data or UI classes.",
		References:     []string{"https://developer.android.com/topic/architecture#recommended-app-arch"},
	}
	rulePresentationData = rule{
		ID:             "presentation-data-import",
		Title:          "Presentation layer uses persistence types directly",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Expose domain models or UI state from a repository or use case instead of DAOs and entities.",
	}
	ruleDataPresentation = rule{
		ID:             "data-presentation-import",
		Title:          "Data layer imports the presentation layer",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortMedium,
		Recommendation: "Data sources must not know about screens or ViewModels. Invert the dependency.",
	}
)

var (
	dataSegments         = []string{"data", "repository", "local", "remote", "database", "db", "dao", "entity", "network", "api"}
	presentationSegments = []string{"ui", "presentation", "screen", "screens", "viewmodel", "compose"}
	persistenceSegments  = []string{"dao", "entity", "entities", "database", "db", "local"}
)

// ArchitectureAnalyzer checks layer dependency direction through import statements.
type ArchitectureAnalyzer struct{ base }

func NewArchitectureAnalyzer() *ArchitectureAnalyzer {
	return &ArchitectureAnalyzer{base{id: "architecture", name: "Layer dependencies", category: domain.CategoryArchitecture}}
}

func (a *ArchitectureAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return isKotlin(f) && !f.IsTest() && f.Layer != domain.LayerNone
}

func (a *ArchitectureAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	var findings []domain.Finding
	for i, code := range src.codes {
		m := importLine.FindStringSubmatch(code)
		if m == nil {
			continue
		}
		imp := m[1]
		segs := strings.Split(imp, ".")
		switch f.Layer {
		case domain.LayerDomain:
			if strings.HasPrefix(imp, "android.") || (strings.HasPrefix(imp, "androidx.") && !strings.HasPrefix(imp, "androidx.annotation.")) {
				findings = append(findings, a.emit(src, ruleDomainFramework, i+1, 0,
					fmt.Sprintf("Domain file imports framework package %s.", imp)))
			} else if seg := anySegment(segs, dataSegments, presentationSegments); seg != "" {
				findings = append(findings, a.emit(src, ruleDomainOuterLayer, i+1, 0,
					fmt.Sprintf("Domain file imports %s, which belongs to the %q package.", imp, seg)))
			}
		case domain.LayerPresentation:
			last := segs[len(segs)-1]
			if anySegment(segs, persistenceSegments) != "" || strings.HasSuffix(last, "Dao") || strings.HasSuffix(last, "Entity") || strings.HasSuffix(last, "Database") {
				findings = append(findings, a.emit(src, rulePresentationData, i+1, 0,
					fmt.Sprintf("UI code imports persistence type %s.", imp)))
			}
		case domain.LayerData:
			if seg := anySegment(segs, presentationSegments); seg != "" {
				findings = append(findings, a.emit(src, ruleDataPresentation, i+1, 0,
					fmt.Sprintf("Data file imports %s from the presentation layer.", imp)))
			}
		}
	}
	return findings, nil
}

// anySegment returns the first package segment of an import (last segment excluded)
// found in any of the sets.
func anySegment(segs []string, sets ...[]string) string {
	if len(segs) < 2 {
		return ""
	}
	for _, s := range segs[:len(segs)-1] {
		for _, set := range sets {
			for _, want := range set {
				if s == want {
					return s
				}
			}
		}
	}
	return ""
}
