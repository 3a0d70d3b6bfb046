package analysis

import (
	"strings"
	"unicode/utf8"

	"github.com/abdidvp/kodeguard/internal/domain"
)

const maxSnippet = 200

// source is the per-call view of one file. It is never shared between calls, which
// keeps every analyzer safe for concurrent use.
type source struct {
	file     domain.FileInfo
	lines    []string
	codes    []string
	comments []bool
	seen     map[string]int
}

func newSource(file domain.FileInfo, content []byte) *source {
	lines := splitLines(string(content))
	codes, comments := cleanAll(lines)
	return &source{file: file, lines: lines, codes: codes, comments: comments, seen: map[string]int{}}
}

func (s *source) line(n int) string {
	if n < 1 || n > len(s.lines) {
		return ""
	}
	return s.lines[n-1]
}

// rule is the static description shared by every finding of one kind.
type rule struct {
	ID             string
	Title          string
	Priority       domain.Priority
	Effort         domain.Effort
	Recommendation string
	Before         string
	After          string
	References     []string
}

// base carries an analyzer's identity.
type base struct {
	id       string
	name     string
	category domain.Category
}

func (b base) ID() string                { return b.id }
func (b base) Name() string              { return b.name }
func (b base) Category() domain.Category { return b.category }

// emit builds a finding for r at line. Title and description default to the rule's.
func (b base) emit(src *source, r rule, line, column int, description string) domain.Finding {
	snippet := strings.TrimSpace(src.line(line))
	if len(snippet) > maxSnippet {
		cut := maxSnippet
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut]
	}
	key := r.ID + "\x00" + domain.NormalizeLine(snippet)
	occurrence := src.seen[key]
	src.seen[key]++

	fp := domain.Fingerprint(b.id, r.ID, src.file.RelPath, domain.LocationKey(snippet, line, occurrence))
	if description == "" {
		description = r.Title
	}
	return domain.Finding{
		ID:             fp[:16],
		Analyzer:       b.id,
		Rule:           r.ID,
		Category:       b.category,
		Priority:       r.Priority,
		Title:          r.Title,
		Description:    description,
		File:           src.file.RelPath,
		Line:           line,
		Column:         column,
		CodeSnippet:    snippet,
		Recommendation: r.Recommendation,
		BeforeExample:  r.Before,
		AfterExample:   r.After,
		Effort:         r.Effort,
		References:     r.References,
		Fingerprint:    fp,
	}
}

// withFix marks a finding as mechanically fixable.
func withFix(f domain.Finding, kind, replacement string) domain.Finding {
	f.AutoFixable = true
	f.Fix = &domain.FixDescriptor{Kind: kind, Replacement: replacement}
	return f
}

// relate links findings that describe the same construct.
func relate(findings []domain.Finding) {
	if len(findings) < 2 {
		return
	}
	for i := range findings {
		for j := range findings {
			if i != j {
				findings[i].RelatedFindings = append(findings[i].RelatedFindings, findings[j].ID)
			}
		}
	}
}

// isKotlin reports whether the file is Kotlin source (not a build script).
func isKotlin(f domain.FileInfo) bool { return f.Ext() == ".kt" }

// baseName returns the file name without its extension.
func baseName(f domain.FileInfo) string {
	name := f.Name()
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

func nameContainsAny(f domain.FileInfo, parts ...string) bool {
	name := baseName(f)
	for _, p := range parts {
		if strings.Contains(name, p) {
			return true
		}
	}
	return false
}
