package analysis

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	loopOpener   = regexp.MustCompile(`^\s*(?:for|while)\s*\(|^\s*do\b|\.(?:forEach|forEachIndexed)\s*\{|\brepeat\s*\(`)
	collectionOp = regexp.MustCompile(`\.(?:filter|filterNot|filterIsInstance|map|mapNotNull|mapIndexed|flatMap|sortedBy|sortedByDescending|sorted|distinct|distinctBy|groupBy|associateBy|associate|reversed|take|drop|zip|chunked|windowed)\s*[({]`)
	materialize  = regexp.MustCompile(`\.(?:toList|toMutableList|toSet|toMutableSet|toTypedArray)\s*\(\s*\)`)
	stringAppend = regexp.MustCompile(`\b\w+\s*\+=[^;]*"`)
	runBlocking  = regexp.MustCompile(`\brunBlocking\s*[({<]`)
	globalScope  = regexp.MustCompile(`\bGlobalScope\s*\.\s*(?:launch|async)\b`)
)

var (
	ruleChainInLoop = rule{
		ID:             "collection-chain-in-loop",
		Title:          "Collection pipeline rebuilt on every iteration",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Hoist the pipeline out of the loop, or use asSequence() to avoid intermediate lists.",
		Before:         "for (id in ids) {\n    val active = users.filter { it.active }.map { it.id }.toList()\n}",
		After:          "val active = users.asSequence().filter { it.active }.map { it.id }.toSet()\nfor (id in ids) { ... }",
		References:     []string{"https://kotlinlang.org/docs/sequences.html"},
	}
	ruleStringConcatInLoop = rule{
		ID:             "string-concat-in-loop",
		Title:          "String concatenation inside a loop",
		Priority:       domain.PriorityLow,
		Effort:         domain.EffortTrivial,
		Recommendation: "Build the string with buildString { } or a StringBuilder.",
		Before:         "for (p in parts) { out += p }",
		After:          "val out = buildString { parts.forEach { append(it) } }",
	}
	ruleRunBlocking = rule{
		ID:             "run-blocking",
		Title:          "runBlocking in production code",
		Priority:       domain.PriorityHigh,
		Effort:         domain.EffortMedium,
		Recommendation: "Make the caller suspend or launch in a lifecycle-aware scope instead of blocking the thread.",
		References:     []string{"https://kotlinlang.org/api/kotlinx.coroutines/kotlinx-coroutines-core/kotlinx.coroutines/run-blocking.html"},
	}
	ruleGlobalScope = rule{
		ID:             "global-scope",
		Title:          "Coroutine launched in GlobalScope",
		Priority:       domain.PriorityMedium,
		Effort:         domain.EffortSmall,
		Recommendation: "Launch in viewModelScope, lifecycleScope or an injected application scope so work is cancelled with its owner.",
		References:     []string{"https://elizarov.medium.com/the-reason-to-avoid-globalscope-835337445abc"},
	}
)

// PerformanceAnalyzer looks for loop-bound inefficiencies and thread blocking.
type PerformanceAnalyzer struct{ base }

func NewPerformanceAnalyzer() *PerformanceAnalyzer {
	return &PerformanceAnalyzer{base{id: "performance", name: "Performance", category: domain.CategoryPerformance}}
}

func (a *PerformanceAnalyzer) AppliesTo(f domain.FileInfo) bool {
	return isKotlin(f) && !f.IsTest()
}

// chain is a collection pipeline that may continue on following lines starting with '.'.
type chain struct {
	line         int
	loopStart    int
	ops          int
	materialized bool
}

func (c chain) wasteful() bool {
	return c.ops >= 2 || (c.ops >= 1 && c.materialized)
}

func (a *PerformanceAnalyzer) Analyze(f domain.FileInfo, content []byte) ([]domain.Finding, error) {
	src := newSource(f, content)
	var findings []domain.Finding
	var loop ScopeTracker
	var pending *chain

	flush := func() {
		if pending != nil && pending.wasteful() {
			findings = append(findings, a.emit(src, ruleChainInLoop, pending.line, 0,
				fmt.Sprintf("A chain of %d collection operations runs inside the loop starting on line %d.", pending.ops, pending.loopStart)))
		}
		pending = nil
	}
	body := func(n int, code, raw string) {
		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			return
		}
		ops := len(collectionOp.FindAllStringIndex(code, -1))
		if pending != nil && strings.HasPrefix(trimmed, ".") {
			pending.ops += ops
			pending.materialized = pending.materialized || materialize.MatchString(code)
		} else {
			flush()
			pending = &chain{line: n, loopStart: loop.StartLine(), ops: ops, materialized: materialize.MatchString(code)}
		}
		if stringAppend.MatchString(raw) && !strings.Contains(code, "StringBuilder") {
			findings = append(findings, a.emit(src, ruleStringConcatInLoop, n, 0, ""))
		}
	}

	for i, code := range src.codes {
		n := i + 1
		if runBlocking.MatchString(code) {
			findings = append(findings, a.emit(src, ruleRunBlocking, n, 0, ""))
		}
		if globalScope.MatchString(code) {
			findings = append(findings, a.emit(src, ruleGlobalScope, n, 0, ""))
		}

		if loop.Inside() {
			if !loop.Advance(n, code, indentOf(code)) || loop.EndLine() == n {
				body(n, code, src.lines[i])
				if !loop.Inside() {
					flush()
				}
				continue
			}
			// The loop ended before this line; it may open the next loop.
			flush()
		}

		if !loopOpener.MatchString(code) {
			continue
		}
		loop.Enter(n, indentOf(code))
		closed := loop.Advance(n, code, indentOf(code))
		if off := loopBodyStart(code); off < len(code) {
			tail := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(code[off:]), "{"))
			raw := ""
			if off < len(src.lines[i]) {
				raw = src.lines[i][off:]
			}
			if tail != "" && tail != "}" {
				body(n, tail, raw)
			}
		}
		if closed {
			flush()
		}
	}
	flush()
	return findings, nil
}

// loopBodyStart returns the offset in code just past the loop header, or len(code) when
// the header continues on the next line.
func loopBodyStart(code string) int {
	loc := loopOpener.FindStringIndex(code)
	if loc == nil {
		return len(code)
	}
	end := loc[1]
	if code[end-1] != '(' {
		return end
	}
	for depth := 1; depth > 0; end++ {
		if end >= len(code) {
			return len(code)
		}
		switch code[end] {
		case '(':
			depth++
		case ')':
			depth--
		}
	}
	return end
}
