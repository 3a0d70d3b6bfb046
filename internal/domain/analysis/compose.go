package analysis

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	stateFactory   = regexp.MustCompile(`\bmutable(?:State|StateList|StateMap|IntState|LongState|FloatState|DoubleState)Of\s*\(`)
	vmConstruction = regexp.MustCompile(`(^|[^\w.:])([A-Z]\w*ViewModel)\s*\(`)
	uiCall         = regexp.MustCompile(`(^|[^\w.])[A-Z]\w*\s*[({]`)
)

var (
	ruleUnstableParam = rule{
		ID:             "unstable-parameter",
		Title:          "Composable takes a mutable collection",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Accept read-only or immutable collections so the composable can skip recomposition.",
		Before:         "@Composable fun UserList(users: MutableList<User>)",
		After:          "@Composable fun UserList(users: List<User>)",
		References:     []string{"https://developer.android.com/develop/ui/compose/performance/stability"},
	}
	ruleMissingModifier = rule{
		ID:             "missing-modifier-parameter",
		Title:          "Composable does not accept a Modifier",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Add `modifier: Modifier = Modifier` and apply it to the root layout.",
		References:     []string{"https://developer.android.com/develop/ui/compose/modifiers#parameters"},
	}
	ruleStateWithoutRemember = rule{
		ID:             "state-without-remember",
		Title:          "State created without remember",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortTrivial,
		Recommendation: "Wrap the state in remember { } so it survives recomposition.",
		Before:         "var count by mutableStateOf(0)",
		After:          "var count by remember { mutableStateOf(0) }",
		References:     []string{"https://developer.android.com/develop/ui/compose/state#state-in-composables"},
	}
	ruleViewModelInComposable = rule{
		ID:             "viewmodel-instantiation",
		Title:          "ViewModel constructed inside a composable",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Obtain ViewModels with hiltViewModel() or viewModel() so they are scoped to the navigation entry.",
		Before:         "val vm = HomeViewModel(repository)",
		After:          "val vm: HomeViewModel = hiltViewModel()",
	}
)

// ComposeAnalyzer checks UI declaration functions. Signatures and bodies are located
// with the line-based extractor.
type ComposeAnalyzer struct{ base }

func NewComposeAnalyzer() *ComposeAnalyzer {
	return &ComposeAnalyzer{base{id: "compose", name: "Compose UI", category: domain.CategoryUI}}
}

func (a *ComposeAnalyzer) AppliesTo(f domain.FileInfo) bool {
	if !isKotlin(f) || f.IsTest() {
		return false
	}
	return f.Layer == domain.LayerPresentation || nameContainsAny(f, "Screen", "Composable", "Component")
}

func (a *ComposeAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	var findings []domain.Finding
	for _, fn := range extractFunctions(src.lines, src.codes, src.comments) {
		if !fn.HasAnnotation("Composable") {
			continue
		}
		findings = append(findings, a.checkSignature(src, fn)...)
		findings = append(findings, a.checkBody(src, fn)...)
	}
	return findings, nil
}

func (a *ComposeAnalyzer) checkSignature(src *source, fn domain.FunctionInfo) []domain.Finding {
	var findings []domain.Finding
	hasModifier := false
	for _, p := range fn.Params {
		if baseTypeName(p.Type) == "Modifier" {
			hasModifier = true
		}
		if !IsUnstableType(p.Type) {
			continue
		}
		line := paramLine(src, fn, p.Name)
		fd := a.emit(src, ruleUnstableParam, line, 0,
			fmt.Sprintf("Parameter %s of %s has unstable type %s.", p.Name, fn.Name, p.Type))
		if repl := StableReplacement(p.Type); repl != "" {
			fd = withFix(fd, "replace-type", repl)
		}
		findings = append(findings, fd)
	}

	if !hasModifier && fn.Public && startsUpper(fn.Name) && !fn.HasAnnotation("Preview") && emitsUI(src, fn) {
		findings = append(findings, withFix(
			a.emit(src, ruleMissingModifier, fn.StartLine, 0, fmt.Sprintf("%s emits UI but takes no Modifier.", fn.Name)),
			"add-parameter", "modifier: Modifier = Modifier"))
	}
	return findings
}

func (a *ComposeAnalyzer) checkBody(src *source, fn domain.FunctionInfo) []domain.Finding {
	var findings []domain.Finding
	prev := ""
	for n := fn.StartLine; n <= fn.EndLine; n++ {
		code := src.codes[n-1]
		if stateFactory.MatchString(code) && !strings.Contains(code, "remember") && !opensRemember(prev) {
			findings = append(findings, a.emit(src, ruleStateWithoutRemember, n, 0, ""))
		}
		if n > fn.StartLine {
			if m := vmConstruction.FindStringSubmatch(code); m != nil {
				findings = append(findings, a.emit(src, ruleViewModelInComposable, n, 0,
					fmt.Sprintf("%s constructs %s directly.", fn.Name, m[2])))
			}
		}
		if t := strings.TrimSpace(code); t != "" {
			prev = t
		}
	}
	return findings
}

// opensRemember reports whether the previous code line opened a remember block.
func opensRemember(prev string) bool {
	return strings.HasSuffix(prev, "{") && strings.Contains(prev, "remember")
}

func emitsUI(src *source, fn domain.FunctionInfo) bool {
	for n := fn.StartLine + 1; n <= fn.EndLine; n++ {
		if uiCall.MatchString(src.codes[n-1]) {
			return true
		}
	}
	return false
}

// paramLine finds the line declaring name within the function header.
func paramLine(src *source, fn domain.FunctionInfo, name string) int {
	re, err := regexp.Compile(`\b` + regexp.QuoteMeta(name) + `\s*:`)
	if err != nil {
		return fn.StartLine
	}
	for n := fn.StartLine; n <= fn.EndLine; n++ {
		if re.MatchString(src.codes[n-1]) {
			return n
		}
	}
	return fn.StartLine
}

func startsUpper(s string) bool {
	for _, r := range s {
		return unicode.IsUpper(r)
	}
	return false
}
