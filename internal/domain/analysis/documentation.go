package analysis

import (
	"fmt"
	"regexp"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var typeDecl = regexp.MustCompile(`^((?:(?:public|private|internal|protected|open|abstract|sealed|data|enum|annotation|inline|value|fun|expect|actual)\s+)*)(class|interface|object)\s+(\w+)`)

var (
	ruleUndocumentedType = rule{
		ID:             "undocumented-public-type",
		Title:          "Public type has no KDoc",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Add a /** */ comment stating the type's responsibility.",
		References:     []string{"https://kotlinlang.org/docs/kotlin-doc.html"},
	}
	ruleUndocumentedFunction = rule{
		ID:             "undocumented-public-function",
		Title:          "Public function has no KDoc",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Document the parameters and the result with @param and @return tags.",
		References:     []string{"https://kotlinlang.org/docs/kotlin-doc.html#block-tags"},
	}
)

// DocumentationAnalyzer looks for public API without KDoc.
type DocumentationAnalyzer struct {
	base
	minParams int
}

func NewDocumentationAnalyzer(th domain.Thresholds) *DocumentationAnalyzer {
	return &DocumentationAnalyzer{
		base:      base{id: "documentation", name: "Documentation", category: domain.CategoryDocumentation},
		minParams: th.DocMinParams,
	}
}

func (a *DocumentationAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return isKotlin(f) && !f.IsTest()
}

func (a *DocumentationAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	var findings []domain.Finding

	for i, code := range src.codes {
		if indentOf(code) != 0 {
			continue
		}
		m := typeDecl.FindStringSubmatch(code)
		if m == nil || !isPublic(m[1]) || hasKDoc(src.lines, i) {
			continue
		}
		findings = append(findings, a.emit(src, ruleUndocumentedType, i+1, 0,
			fmt.Sprintf("%s %s is public but undocumented.", m[2], m[3])))
	}

	for _, fn := range extractFunctions(src.lines, src.codes, src.comments) {
		if !fn.Public || fn.Override || fn.HasDoc || len(fn.Params) < a.minParams {
			continue
		}
		findings = append(findings, a.emit(src, ruleUndocumentedFunction, fn.StartLine, 0,
			fmt.Sprintf("%s takes %d parameters and has no KDoc.", fn.Name, len(fn.Params))))
	}
	return findings, nil
}
