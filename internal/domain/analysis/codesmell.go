package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var todoMarker = regexp.MustCompile(`\b(TODO|FIXME|HACK)\b`)

var (
	ruleMissingComments = rule{
		ID:             "missing-inline-comments",
		Title:          "Complex function has no explanatory comments",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortTrivial,
		Recommendation: "Explain the non-obvious branches with inline comments, or split the function.",
	}
	ruleExcessiveComplexity = rule{
		ID:             "excessive-complexity",
		Title:          "Function is too complex",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortMedium,
		Recommendation: "Extract branches into well-named helpers or replace conditionals with polymorphism or lookup tables.",
		References:     []string{"https://en.wikipedia.org/wiki/Cyclomatic_complexity"},
	}
	ruleDeepNesting = rule{
		ID:             "deep-nesting",
		Title:          "Control flow is nested too deeply",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Use early returns and guard clauses, or extract the inner blocks.",
		Before:         "if (a) {\n    if (b) {\n        if (c) { work() }\n    }\n}",
		After:          "if (!a || !b || !c) return\nwork()",
	}
	ruleLongFunction = rule{
		ID:             "long-function",
		Title:          "Function is too long",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortMedium,
		Recommendation: "Split the function into smaller steps with descriptive names.",
	}
	ruleLongParameterList = rule{
		ID:             "long-parameter-list",
		Title:          "Function takes too many parameters",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortSmall,
		Recommendation: "Group related parameters into a data class.",
	}
	ruleLargeFile = rule{
		ID:             "large-file",
		Title:          "File is too large",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortLarge,
		Recommendation: "Split the file along responsibilities.",
	}
	ruleTodoMarker = rule{
		ID:             "todo-marker",
		Title:          "Unresolved TODO marker",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortSmall,
		Recommendation: "Resolve the marker or track it in the issue tracker.",
	}
)

// CodeSmellAnalyzer measures functions and files against size and complexity limits.
type CodeSmellAnalyzer struct {
	base
	thresholds domain.Thresholds
	extractor  domain.FunctionExtractor
}

func NewCodeSmellAnalyzer(th domain.Thresholds, extractor domain.FunctionExtractor) *CodeSmellAnalyzer {
	return &CodeSmellAnalyzer{
		base:       base{id: "code_smell", name: "Code smells", category: domain.CategoryCodeSmell},
		thresholds: th,
		extractor:  extractor,
	}
}

func (a *CodeSmellAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return isKotlin(f) && !f.IsTest()
}

func (a *CodeSmellAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	funcs, err := a.extractor.Extract(content)
	if err != nil {
		return nil, fmt.Errorf("extracting functions: %w", err)
	}
	src := newSource(f, content)
	th := a.thresholds

	var findings []domain.Finding
	for _, fn := range funcs {
		var group []domain.Finding
		if fn.Complexity > th.ComplexityComment && fn.CommentCount == 0 {
			group = append(group, a.emit(src, ruleMissingComments, fn.StartLine, 0,
				fmt.Sprintf("%s has cyclomatic complexity %d and no inline comments.", fn.Name, fn.Complexity)))
		}
		if fn.Complexity > th.ComplexityMax {
			group = append(group, a.emit(src, ruleExcessiveComplexity, fn.StartLine, 0,
				fmt.Sprintf("%s has cyclomatic complexity %d (max %d).", fn.Name, fn.Complexity, th.ComplexityMax)))
		}
		if fn.MaxNesting > th.NestingMax {
			group = append(group, a.emit(src, ruleDeepNesting, fn.StartLine, 0,
				fmt.Sprintf("%s nests control flow %d levels deep (max %d).", fn.Name, fn.MaxNesting, th.NestingMax)))
		}
		if fn.Lines() > th.FunctionLines {
			group = append(group, a.emit(src, ruleLongFunction, fn.StartLine, 0,
				fmt.Sprintf("%s spans %d lines (max %d).", fn.Name, fn.Lines(), th.FunctionLines)))
		}
		if len(fn.Params) > th.Parameters && !fn.HasAnnotation("Composable") {
			group = append(group, a.emit(src, ruleLongParameterList, fn.StartLine, 0,
				fmt.Sprintf("%s takes %d parameters (max %d).", fn.Name, len(fn.Params), th.Parameters)))
		}
		relate(group)
		findings = append(findings, group...)
	}

	if n := len(src.lines); n > th.FileLines {
		findings = append(findings, a.emit(src, ruleLargeFile, 1, 0,
			fmt.Sprintf("File has %d lines (max %d).", n, th.FileLines)))
	}

	for i, raw := range src.lines {
		if !src.comments[i] {
			continue
		}
		if loc := todoMarker.FindStringIndex(raw); loc != nil && inComment(raw, loc[0]) {
			findings = append(findings, a.emit(src, ruleTodoMarker, i+1, loc[0]+1,
				strings.TrimSpace(raw[loc[0]:])))
		}
	}
	return findings, nil
}

// inComment is a cheap check that the marker sits after a comment opener on its line,
// or on a continuation line of a block comment.
func inComment(line string, pos int) bool {
	before := line[:pos]
	t := strings.TrimSpace(line)
	return strings.Contains(before, "//") || strings.Contains(before, "/*") || strings.HasPrefix(t, "*")
}
