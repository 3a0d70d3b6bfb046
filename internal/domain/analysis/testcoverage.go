package analysis

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var publicClass = regexp.MustCompile(`^((?:(?:public|internal|private|open|abstract|data|sealed)\s+)*)(?:class|object)\s+(\w+)`)

var ruleMissingTest = rule{
	ID:             "missing-test",
	Title:          "No unit test for this class",
	Priority:       domain.PriorityMedium,
	Effort:         domain.EffortMedium,
	Recommendation: "Add a test class mirroring the source path under src/test.",
	References:     []string{"https://developer.android.com/training/testing/local-tests"},
}

// TestCoverageAnalyzer checks that logic-bearing classes have a mirrored test file.
// The only side effect is the injected existence check.
type TestCoverageAnalyzer struct {
	base
	exists func(path string) bool
}

func NewTestCoverageAnalyzer(exists func(path string) bool) *TestCoverageAnalyzer {
	return &TestCoverageAnalyzer{
		base:   base{id: "test_coverage", name: "Test coverage", category: domain.CategoryTestCoverage},
		exists: exists,
	}
}

func (a *TestCoverageAnalyzer) AppliesTo(f domain.FileInfo) bool {
	if !isKotlin(f) || f.IsTest() {
		return false
	}
	if f.Layer == domain.LayerDomain || f.Layer == domain.LayerData {
		return true
	}
	name := baseName(f)
	for _, s := range []string{"ViewModel", "UseCase", "Repository", "RepositoryImpl", "Interactor", "Mapper"} {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return false
}

func (a *TestCoverageAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)

	classLine, className := 0, ""
	for i, code := range src.codes {
		if m := publicClass.FindStringSubmatch(code); m != nil && isPublic(m[1]) && !hasWord(m[1], "data") {
			classLine, className = i+1, m[2]
			break
		}
	}
	if classLine == 0 {
		return nil, nil
	}

	publicFuncs := 0
	for _, fn := range extractFunctions(src.lines, src.codes, src.comments) {
		if fn.Public {
			publicFuncs++
		}
	}
	if publicFuncs == 0 {
		return nil, nil
	}

	candidates := TestCandidates(f.Path)
	for _, c := range candidates {
		if a.exists(c) {
			return nil, nil
		}
	}

	r := ruleMissingTest
	if strings.HasSuffix(className, "UseCase") || strings.HasSuffix(className, "ViewModel") {
		r.Priority = domain.PriorityHigh
	}
	fd := a.emit(src, r, classLine, 0,
		fmt.Sprintf("%s has %d public functions and no test was found (looked for %s).", className, publicFuncs, filepath.Base(candidates[0])))
	return []domain.Finding{fd}, nil
}

// TestCandidates lists the test files that would cover the source file at path:
// the src/test and src/androidTest mirrors, or a sibling when the file is outside src/main.
func TestCandidates(path string) []string {
	dir, file := filepath.Split(path)
	stem := strings.TrimSuffix(file, filepath.Ext(file))
	names := []string{stem + "Test.kt", stem + "Tests.kt"}

	slashed := filepath.ToSlash(dir)
	var dirs []string
	if strings.Contains(slashed, "/src/main/") {
		for _, set := range []string{"/src/test/", "/src/androidTest/"} {
			dirs = append(dirs, filepath.FromSlash(strings.Replace(slashed, "/src/main/", set, 1)))
		}
	} else {
		dirs = append(dirs, dir)
	}

	var out []string
	for _, d := range dirs {
		for _, n := range names {
			out = append(out, filepath.Join(d, n))
		}
	}
	return out
}
