package analysis

import "strings"

// ScopeTracker follows one construct (a function, a loop) through a file one line at a
// time. It is a structural approximation: it only knows braces, parentheses and
// indentation, and expects lines whose comments and literal contents were already
// blanked.
//
// A braced construct closes when its brace balance returns to zero on a line at or below
// the start indentation, or on the opening line itself when that line balances. A
// construct without braces closes after its single body statement, or just before the
// next line that is not indented past the start.
type ScopeTracker struct {
	inside      bool
	startLine   int
	startIndent int
	endLine     int
	braces      int
	parens      int
	opened      bool
	headerDone  bool
	drained     bool
	consumed    int
	lastLine    int
}

// Enter starts tracking a construct whose header begins on line at the given indentation.
func (t *ScopeTracker) Enter(line, indent int) {
	*t = ScopeTracker{inside: true, startLine: line, startIndent: indent}
}

func (t *ScopeTracker) Inside() bool   { return t.inside }
func (t *ScopeTracker) StartLine() int { return t.startLine }

// EndLine is the last line belonging to the construct once Advance reported it closed.
// It can be earlier than the line passed to that Advance call.
func (t *ScopeTracker) EndLine() int { return t.endLine }

// Advance consumes the next line, the opening line first, and reports whether the
// construct has ended.
func (t *ScopeTracker) Advance(line int, code string, indent int) bool {
	if !t.inside {
		return false
	}
	trimmed := strings.TrimSpace(code)

	if t.drained && trimmed != "" {
		if indent <= t.startIndent {
			return t.closeAt(t.lastLine)
		}
		t.drained = false
	}
	if t.headerDone && !t.opened && trimmed != "" && indent <= t.startIndent && !continuesExpression(trimmed) {
		return t.closeAt(t.lastLine)
	}

	t.consumed++
	first := t.consumed == 1
	if trimmed != "" {
		t.lastLine = line
	}

	tailStart := -1
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case '{':
			t.braces++
			t.opened = true
		case '}':
			t.braces--
		case '(':
			t.parens++
		case ')':
			t.parens--
			if t.parens == 0 && tailStart < 0 {
				tailStart = i + 1
			}
		}
	}

	if t.opened {
		switch {
		case t.braces <= 0 && (first || indent <= t.startIndent):
			return t.closeAt(line)
		case t.braces <= 0:
			t.drained = true
		}
		return false
	}

	if t.parens > 0 || trimmed == "" {
		return false
	}
	if !t.headerDone {
		t.headerDone = true
		tail := trimmed
		if tailStart >= 0 {
			tail = strings.TrimSpace(code[tailStart:])
		} else if first {
			tail = ""
		}
		if tail == "" || awaitsBody(tail) {
			return false
		}
		return t.closeAt(line)
	}
	if awaitsBody(trimmed) {
		return false
	}
	return t.closeAt(line)
}

func (t *ScopeTracker) closeAt(line int) bool {
	t.inside = false
	t.endLine = line
	return true
}

// awaitsBody reports whether a header tail leaves its body for the following lines.
func awaitsBody(tail string) bool {
	for _, suffix := range []string{"=", "->", ":", ",", "(", "+", "&&", "||", "?:", "."} {
		if strings.HasSuffix(tail, suffix) {
			return true
		}
	}
	return false
}

func continuesExpression(trimmed string) bool {
	for _, prefix := range []string{"{", "=", ":", ".", "?", "->", "+", "&&", "||"} {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// blockEnd returns the index of the last line of the construct starting at codes[start].
func blockEnd(codes []string, start int) int {
	var t ScopeTracker
	t.Enter(start+1, indentOf(codes[start]))
	for j := start; j < len(codes); j++ {
		if t.Advance(j+1, codes[j], indentOf(codes[j])) {
			return t.EndLine() - 1
		}
	}
	return len(codes) - 1
}
