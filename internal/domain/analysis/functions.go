package analysis

import (
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

var (
	funDecl       = regexp.MustCompile("^\\s*((?:(?:@[\\w.]+(?:\\([^)]*\\))?|[a-z]+)\\s+)*)fun\\s+(?:<[^>]*>\\s*)?(?:[\\w<>?,. *]+?\\.)?(\\w+|`[^`]+`)\\s*\\(")
	annotationRef = regexp.MustCompile(`@([\w.]+)`)
	complexityTok = regexp.MustCompile(`\b(?:if|else|when|for|while|do|try|catch)\b|&&|\|\||\?:|->|[{}();]`)
)

// LineExtractor builds function metrics from raw text with a ScopeTracker. It stands in
// when no syntax tree is available and never fails.
type LineExtractor struct{}

func NewLineExtractor() *LineExtractor { return &LineExtractor{} }

func (LineExtractor) Extract(content []byte) ([]domain.FunctionInfo, error) {
	lines := splitLines(string(content))
	codes, comments := cleanAll(lines)
	return extractFunctions(lines, codes, comments), nil
}

func extractFunctions(lines, codes []string, comments []bool) []domain.FunctionInfo {
	var out []domain.FunctionInfo
	for i := range codes {
		loc := funDecl.FindStringSubmatchIndex(codes[i])
		if loc == nil {
			continue
		}
		mods := codes[i][loc[2]:loc[3]]
		end := blockEnd(codes, i)

		fn := domain.FunctionInfo{
			Name:        strings.Trim(codes[i][loc[4]:loc[5]], "`"),
			StartLine:   i + 1,
			EndLine:     end + 1,
			Params:      ParseParams(parenContent(codes[i:end+1], loc[1]-1)),
			Annotations: annotationsAbove(lines, i, mods),
			Public:      isPublic(mods),
			Override:    hasWord(mods, "override"),
			HasDoc:      hasKDoc(lines, i),
		}
		fn.Complexity, fn.MaxNesting = measure(codes[i : end+1])
		for j := i; j <= end; j++ {
			if comments[j] {
				fn.CommentCount++
			}
		}
		out = append(out, fn)
	}
	return out
}

// parenContent returns the text inside the balanced parentheses opening at
// codes[0][open], following the group across lines.
func parenContent(codes []string, open int) string {
	var b strings.Builder
	depth := 0
	for li, code := range codes {
		start := 0
		if li == 0 {
			start = open
		}
		for i := start; i < len(code); i++ {
			switch code[i] {
			case '(':
				depth++
				if depth == 1 {
					continue
				}
			case ')':
				depth--
				if depth == 0 {
					return b.String()
				}
			}
			b.WriteByte(code[i])
		}
		b.WriteByte(' ')
	}
	return b.String()
}

// annotationsAbove collects annotation names from the declaration's modifiers and the
// annotation-only lines directly above it.
func annotationsAbove(lines []string, idx int, mods string) []string {
	var names []string
	for _, m := range annotationRef.FindAllStringSubmatch(mods, -1) {
		names = append(names, m[1])
	}
	for j := idx - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if !strings.HasPrefix(t, "@") {
			break
		}
		for _, m := range annotationRef.FindAllStringSubmatch(t, -1) {
			names = append(names, m[1])
		}
	}
	return names
}

// hasKDoc reports whether a /** */ block sits directly above the declaration at idx,
// allowing annotation lines in between.
func hasKDoc(lines []string, idx int) bool {
	for j := idx - 1; j >= 0; j-- {
		t := strings.TrimSpace(lines[j])
		if strings.HasPrefix(t, "@") {
			continue
		}
		if !strings.HasSuffix(t, "*/") {
			return false
		}
		for k := j; k >= 0; k-- {
			s := strings.TrimSpace(lines[k])
			if strings.HasPrefix(s, "/**") {
				return true
			}
			if strings.HasPrefix(s, "/*") {
				return false
			}
		}
		return false
	}
	return false
}

func isPublic(mods string) bool {
	return !hasWord(mods, "private") && !hasWord(mods, "internal") && !hasWord(mods, "protected")
}

func hasWord(s, word string) bool {
	for _, f := range strings.Fields(s) {
		if f == word {
			return true
		}
	}
	return false
}

type frameKind int

const (
	frameOther frameKind = iota
	frameControl
	frameWhen
)

// measure computes cyclomatic complexity and control-flow nesting for cleaned lines.
// Complexity is 1 plus one per if, when branch other than else, loop, catch, &&, ||
// and ?:. Nesting counts if/else/when/for/while/do blocks.
func measure(codes []string) (complexity, maxNesting int) {
	complexity = 1
	var stack []frameKind
	control := 0
	parens := 0
	pending := ""
	pendingParens := 0
	headerClosed := false

	for _, code := range codes {
		segStart := 0
		lastTokEnd := 0
		for _, loc := range complexityTok.FindAllStringIndex(code, -1) {
			tok := code[loc[0]:loc[1]]
			lastTokEnd = loc[1]
			switch tok {
			case "if", "for", "while":
				complexity++
				pending, pendingParens, headerClosed = tok, parens, false
			case "else", "do", "when", "try":
				pending, pendingParens, headerClosed = tok, parens, false
			case "catch", "&&", "||", "?:":
				complexity++
			case "(":
				parens++
			case ")":
				parens--
				if pending != "" && parens == pendingParens {
					headerClosed = true
				}
			case ";":
				segStart = loc[1]
			case "->":
				if parens == 0 && len(stack) > 0 && stack[len(stack)-1] == frameWhen {
					if !strings.HasPrefix(strings.TrimSpace(code[segStart:loc[0]]), "else") {
						complexity++
					}
				}
			case "{":
				kind := frameOther
				if pending != "" && parens == pendingParens {
					switch pending {
					case "when":
						kind = frameWhen
					case "if", "else", "for", "while", "do":
						kind = frameControl
					}
					pending = ""
				}
				stack = append(stack, kind)
				if kind != frameOther {
					control++
					if control > maxNesting {
						maxNesting = control
					}
				}
				segStart = loc[1]
			case "}":
				if n := len(stack); n > 0 {
					if stack[n-1] != frameOther {
						control--
					}
					stack = stack[:n-1]
				}
				segStart = loc[1]
			}
		}
		// A header only carries over to the next line when nothing follows it.
		if pending != "" {
			rest := strings.TrimSpace(code[lastTokEnd:])
			keep := rest == "" && (headerClosed || pending == "else" || pending == "do" || pending == "try" || parens > pendingParens)
			if !keep {
				pending = ""
			}
		}
	}
	return complexity, maxNesting
}
