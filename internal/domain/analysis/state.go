package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	mutableStateProp = regexp.MustCompile(`^\s*((?:(?:public|internal|protected|private|override|open|final)\s+)*)(?:val|var)\s+(\w+)\s*(?::\s*(MutableStateFlow|MutableSharedFlow|MutableLiveData|MutableState)\b|=\s*(MutableStateFlow|MutableSharedFlow|MutableLiveData|mutableStateOf)\b)`)
	publicVar        = regexp.MustCompile(`^(\s+)((?:(?:public|internal|protected|private|override|open|lateinit)\s+)*)var\s+(\w+)`)
	collectAsState   = regexp.MustCompile(`\.collectAsState\s*\(`)
	viewModelClass   = regexp.MustCompile(`\bclass\s+\w+ViewModel\b`)
)

var (
	ruleExposedMutableState = rule{
		ID:             "exposed-mutable-state",
		Title:          "Mutable state exposed publicly",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortSmall,
		Recommendation: "Keep the mutable holder private and expose a read-only StateFlow or LiveData.",
		Before:         "val uiState = MutableStateFlow(UiState())",
		After:          "private val _uiState = MutableStateFlow(UiState())\nval uiState: StateFlow<UiState> = _uiState.asStateFlow()",
		References:     []string{"https://developer.android.com/topic/architecture/ui-layer/stateholders"},
	}
	rulePublicVar = rule{
		ID:             "public-mutable-var",
		Title:          "ViewModel state writable from outside",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortTrivial,
		Recommendation: "Add `private set` so only the ViewModel changes its state.",
	}
	ruleLifecycleCollection = rule{
		ID:             "lifecycle-unaware-collection",
		Title:          "Flow collected without lifecycle awareness",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Use collectAsStateWithLifecycle() so collection stops while the UI is in the background.",
		References:     []string{"https://developer.android.com/develop/ui/compose/state#use-other-types-of-state-in-jetpack-compose"},
	}
)

// StateAnalyzer checks how state holders expose their state.
type StateAnalyzer struct{ base }

func NewStateAnalyzer() *StateAnalyzer {
	return &StateAnalyzer{base{id: "state", name: "State management", category: domain.CategoryStateManagement}}
}

func (a *StateAnalyzer) AppliesTo(f domain.FileInfo) bool {
	if !isKotlin(f) || f.IsTest() {
		return false
	}
	return f.Layer == domain.LayerPresentation || nameContainsAny(f, "ViewModel", "Screen")
}

func (a *StateAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	inViewModel := viewModelClass.MatchString(strings.Join(src.codes, "\n"))

	var findings []domain.Finding
	for i, code := range src.codes {
		n := i + 1
		if m := mutableStateProp.FindStringSubmatch(code); m != nil && isPublic(m[1]) && indentOf(code) > 0 {
			holder := m[3]
			if holder == "" {
				holder = m[4]
			}
			findings = append(findings, a.emit(src, ruleExposedMutableState, n, 0,
				fmt.Sprintf("%s exposes %s to every caller.", m[2], holder)))
			continue
		}
		if inViewModel {
			if m := publicVar.FindStringSubmatch(code); m != nil && isPublic(m[2]) && !hasPrivateSetter(src, i) {
				findings = append(findings, withFix(
					a.emit(src, rulePublicVar, n, 0, fmt.Sprintf("%s can be reassigned by any caller.", m[3])),
					"insert-setter", "private set"))
			}
		}
		if collectAsState.MatchString(code) {
			findings = append(findings, withFix(a.emit(src, ruleLifecycleCollection, n, 0, ""),
				"replace-call", "collectAsStateWithLifecycle()"))
		}
	}
	return findings, nil
}

func hasPrivateSetter(src *source, idx int) bool {
	if strings.Contains(src.codes[idx], "private set") {
		return true
	}
	return idx+1 < len(src.codes) && strings.Contains(src.codes[idx+1], "private set")
}
