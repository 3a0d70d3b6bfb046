package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/fatih/camelcase"
)

// vagueWords are generic name words that say nothing about intent.
var vagueWords = map[string]bool{
	"Handle": true, "Process": true, "Data": true, "Run": true,
	"Do": true, "Execute": true, "Manage": true, "Util": true,
	"Helper": true, "Info": true, "Stuff": true, "Thing": true,
	"Item": true, "Object": true, "Temp": true, "Perform": true,
}

var (
	pascalCase = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)
	camelCase  = regexp.MustCompile(`^[a-z][A-Za-z0-9]*$`)
	upperSnake = regexp.MustCompile(`^[A-Z][A-Z0-9]*(?:_[A-Z0-9]+)*$`)
	constVal   = regexp.MustCompile(`\bconst\s+val\s+(\w+)`)
)

var (
	ruleClassCase = rule{
		ID:             "class-name-case",
		Title:          "Type name is not PascalCase",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Name classes, interfaces and objects in PascalCase.",
		References:     []string{"https://kotlinlang.org/docs/coding-conventions.html#naming-rules"},
	}
	ruleFunctionCase = rule{
		ID:             "function-name-case",
		Title:          "Function name is not camelCase",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortSmall,
		Recommendation: "Name functions in camelCase. Only @Composable functions use PascalCase.",
		References:     []string{"https://kotlinlang.org/docs/coding-conventions.html#function-names"},
	}
	ruleConstantCase = rule{
		ID:             "constant-name-case",
		Title:          "Constant is not UPPER_SNAKE_CASE",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Name const val properties in UPPER_SNAKE_CASE.",
		Before:         "const val maxRetries = 3",
		After:          "const val MAX_RETRIES = 3",
	}
	ruleVagueName = rule{
		ID:             "vague-function-name",
		Title:          "Function name does not describe what it does",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortSmall,
		Recommendation: "Name the function after its effect with a verb and a domain noun, such as loadUserProfile.",
	}
	ruleFileClassMismatch = rule{
		ID:             "file-class-mismatch",
		Title:          "File name does not match its only class",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Name a file containing a single class after that class.",
		References:     []string{"https://kotlinlang.org/docs/coding-conventions.html#source-file-names"},
	}
)

// NamingAnalyzer checks Kotlin naming conventions.
type NamingAnalyzer struct{ base }

func NewNamingAnalyzer() *NamingAnalyzer {
	return &NamingAnalyzer{base{id: "naming", name: "Naming conventions", category: domain.CategoryNaming}}
}

func (a *NamingAnalyzer) AppliesTo(f domain.FileInfo) bool { return isKotlin(f) }

func (a *NamingAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	var findings []domain.Finding

	var topLevel []string
	topLine := 0
	for i, code := range src.codes {
		if m := typeDecl.FindStringSubmatch(strings.TrimLeft(code, " \t")); m != nil {
			if !pascalCase.MatchString(m[3]) {
				findings = append(findings, a.emit(src, ruleClassCase, i+1, 0,
					fmt.Sprintf("%s %s should be PascalCase.", m[2], m[3])))
			}
			if indentOf(code) == 0 && isPublic(m[1]) {
				topLevel = append(topLevel, m[3])
				topLine = i + 1
			}
		}
		if m := constVal.FindStringSubmatch(code); m != nil && !upperSnake.MatchString(m[1]) {
			findings = append(findings, withFix(
				a.emit(src, ruleConstantCase, i+1, 0, fmt.Sprintf("Constant %s should be UPPER_SNAKE_CASE.", m[1])),
				"rename", ToUpperSnake(m[1])))
		}
	}

	for _, fn := range extractFunctions(src.lines, src.codes, src.comments) {
		if strings.ContainsAny(fn.Name, " -") || f.IsTest() {
			continue
		}
		composable := fn.HasAnnotation("Composable")
		if !camelCase.MatchString(fn.Name) && !(composable && pascalCase.MatchString(fn.Name)) {
			findings = append(findings, a.emit(src, ruleFunctionCase, fn.StartLine, 0,
				fmt.Sprintf("Function %s should be camelCase.", fn.Name)))
			continue
		}
		if !composable && !fn.Override && IsVagueName(fn.Name) {
			findings = append(findings, a.emit(src, ruleVagueName, fn.StartLine, 0,
				fmt.Sprintf("%s is built only from generic words.", fn.Name)))
		}
	}

	if len(topLevel) == 1 && baseName(f) != topLevel[0] && f.Ext() == ".kt" {
		findings = append(findings, withFix(
			a.emit(src, ruleFileClassMismatch, topLine, 0, fmt.Sprintf("%s declares %s.", f.Name(), topLevel[0])),
			"rename-file", topLevel[0]+".kt"))
	}
	return findings, nil
}

// IsVagueName reports whether every camel-case word of name is generic.
func IsVagueName(name string) bool {
	words := camelcase.Split(name)
	if len(words) == 0 {
		return false
	}
	for _, w := range words {
		if !vagueWords[titleCase(w)] {
			return false
		}
	}
	return true
}

// ToUpperSnake converts camelCase or PascalCase to UPPER_SNAKE_CASE.
func ToUpperSnake(name string) string {
	var parts []string
	for _, w := range camelcase.Split(name) {
		w = strings.Trim(w, "_")
		if w != "" {
			parts = append(parts, strings.ToUpper(w))
		}
	}
	return strings.Join(parts, "_")
}

func titleCase(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
