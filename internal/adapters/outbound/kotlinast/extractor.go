package kotlinast

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
)

// decisionNodes each add one path to cyclomatic complexity.
var decisionNodes = map[string]bool{
	"if_expression":          true,
	"for_statement":          true,
	"while_statement":        true,
	"do_while_statement":     true,
	"conjunction_expression": true,
	"disjunction_expression": true,
	"elvis_expression":       true,
	"catch_block":            true,
}

// nestingNodes open a level of control-flow nesting.
var nestingNodes = map[string]bool{
	"if_expression":      true,
	"when_expression":    true,
	"for_statement":      true,
	"while_statement":    true,
	"do_while_statement": true,
}

// Extractor implements domain.FunctionExtractor over a tree-sitter Kotlin syntax tree.
// Trees with syntax errors are still walked; the grammar recovers locally.
type Extractor struct{}

func New() *Extractor { return &Extractor{} }

func (x *Extractor) Extract(content []byte) ([]domain.FunctionInfo, error) {
	p := sitter.NewParser()
	p.SetLanguage(kotlin.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("parsing kotlin: %w", err)
	}
	defer tree.Close()

	w := &walker{content: content}
	w.walk(tree.RootNode())
	return w.funcs, nil
}

type walker struct {
	content []byte
	funcs   []domain.FunctionInfo
}

func (w *walker) walk(n *sitter.Node) {
	if n.Type() == "function_declaration" {
		w.funcs = append(w.funcs, w.function(n))
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		w.walk(n.NamedChild(i))
	}
}

func (w *walker) function(n *sitter.Node) domain.FunctionInfo {
	fn := domain.FunctionInfo{
		StartLine:  int(n.StartPoint().Row) + 1,
		EndLine:    int(n.EndPoint().Row) + 1,
		Public:     true,
		Complexity: 1,
		HasDoc:     w.hasKDoc(n),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		child := n.NamedChild(i)
		switch child.Type() {
		case "simple_identifier":
			if fn.Name == "" {
				fn.Name = strings.Trim(child.Content(w.content), "`")
			}
		case "modifiers":
			w.modifiers(child, &fn)
		case "function_value_parameters":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				param := child.NamedChild(j)
				if param.Type() != "parameter" {
					continue
				}
				if p, ok := analysis.ParseParam(param.Content(w.content)); ok {
					fn.Params = append(fn.Params, p)
				}
			}
		case "function_body":
			w.measure(child, 0, &fn)
		}
	}
	return fn
}

func (w *walker) modifiers(n *sitter.Node, fn *domain.FunctionInfo) {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		m := n.NamedChild(i)
		text := m.Content(w.content)
		switch m.Type() {
		case "annotation":
			name := strings.TrimPrefix(text, "@")
			if j := strings.IndexAny(name, "( \n"); j >= 0 {
				name = name[:j]
			}
			fn.Annotations = append(fn.Annotations, name)
		case "visibility_modifier":
			if text != "public" {
				fn.Public = false
			}
		case "member_modifier":
			if text == "override" {
				fn.Override = true
			}
		}
	}
}

// measure accumulates complexity, nesting and comments below n. Nested function
// declarations count toward the enclosing function as well.
func (w *walker) measure(n *sitter.Node, depth int, fn *domain.FunctionInfo) {
	typ := n.Type()
	switch {
	case decisionNodes[typ]:
		fn.Complexity++
	case typ == "when_entry" && !strings.HasPrefix(strings.TrimSpace(n.Content(w.content)), "else"):
		fn.Complexity++
	case strings.Contains(typ, "comment"):
		fn.CommentCount++
	}
	if nestingNodes[typ] && !isElseIf(n) {
		depth++
		if depth > fn.MaxNesting {
			fn.MaxNesting = depth
		}
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		w.measure(n.Child(i), depth, fn)
	}
}

// isElseIf reports whether n is an if_expression that forms the whole else
// branch of its parent, as in an else-if ladder. Such arms sit at the parent's level.
func isElseIf(n *sitter.Node) bool {
	if n.Type() != "if_expression" {
		return false
	}
	branch := n
	parent := n.Parent()
	if parent != nil && parent.Type() == "control_structure_body" {
		if parent.NamedChildCount() != 1 {
			return false
		}
		branch = parent
		parent = parent.Parent()
	}
	if parent == nil || parent.Type() != "if_expression" {
		return false
	}
	prev := branch.PrevSibling()
	return prev != nil && prev.Type() == "else"
}

func (w *walker) hasKDoc(n *sitter.Node) bool {
	prev := n.PrevSibling()
	if prev == nil || !strings.Contains(prev.Type(), "comment") {
		return false
	}
	return strings.HasPrefix(prev.Content(w.content), "/**")
}
