package analysis

import "strings"

// splitLines splits source into lines without their terminators.
func splitLines(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	lines := strings.Split(content, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// indentOf returns the width of the leading whitespace, counting a tab as four columns.
func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

// lineCleaner strips comments from Kotlin lines and blanks the contents of string and
// char literals, so brace counting and keyword matching only see code. It carries block
// comment and raw string state from one line to the next.
type lineCleaner struct {
	inBlock bool
	inRaw   bool
	// keepLiterals leaves literal contents intact and blanks comments with spaces
	// instead of dropping them.
	keepLiterals bool
}

// clean returns the code portion of line and whether the line holds any comment text.
// Literal contents are replaced by spaces so columns still line up with the source.
// With keepLiterals set, literals survive and comment text becomes spaces instead.
func (c *lineCleaner) clean(line string) (string, bool) {
	var b strings.Builder
	b.Grow(len(line))
	comment := false
	n := len(line)
	for i := 0; i < n; {
		switch {
		case c.inBlock:
			comment = true
			if strings.HasPrefix(line[i:], "*/") {
				c.inBlock = false
				c.blank(&b, 2)
				i += 2
				continue
			}
			c.blank(&b, 1)
			i++
		case c.inRaw:
			if strings.HasPrefix(line[i:], `"""`) {
				c.inRaw = false
				b.WriteString(`"""`)
				i += 3
				continue
			}
			c.literal(&b, line[i:i+1])
			i++
		case strings.HasPrefix(line[i:], "//"):
			comment = true
			c.blank(&b, n-i)
			i = n
		case strings.HasPrefix(line[i:], "/*"):
			comment = true
			c.inBlock = true
			c.blank(&b, 2)
			i += 2
		case strings.HasPrefix(line[i:], `"""`):
			c.inRaw = true
			b.WriteString(`"""`)
			i += 3
		case line[i] == '"' || line[i] == '\'':
			quote := line[i]
			j := i + 1
			for j < n && line[j] != quote {
				if line[j] == '\\' {
					j++
				}
				j++
			}
			if j > n {
				j = n
			}
			b.WriteByte(quote)
			c.literal(&b, line[i+1:j])
			if j < n {
				b.WriteByte(quote)
				j++
			}
			i = j
		default:
			b.WriteByte(line[i])
			i++
		}
	}
	return b.String(), comment
}

// blank stands in for n bytes of comment text.
func (c *lineCleaner) blank(b *strings.Builder, n int) {
	if c.keepLiterals {
		b.WriteString(strings.Repeat(" ", n))
	}
}

// literal writes the contents of a string or char literal.
func (c *lineCleaner) literal(b *strings.Builder, text string) {
	if c.keepLiterals {
		b.WriteString(text)
		return
	}
	b.WriteString(strings.Repeat(" ", len(text)))
}

// cleanAll runs a fresh cleaner over every line.
func cleanAll(lines []string) (codes []string, comments []bool) {
	var c lineCleaner
	codes = make([]string, len(lines))
	comments = make([]bool, len(lines))
	for i, l := range lines {
		codes[i], comments[i] = c.clean(l)
	}
	return codes, comments
}

// uncommentAll returns every line with comment text replaced by spaces and literals
// left intact, so columns match the source.
func uncommentAll(lines []string) []string {
	c := lineCleaner{keepLiterals: true}
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i], _ = c.clean(l)
	}
	return out
}

// isCommentLine reports whether a trimmed line is entirely comment.
func isCommentLine(trimmed string) bool {
	for _, p := range []string{"//", "/*", "*", "#", "<!--"} {
		if strings.HasPrefix(trimmed, p) {
			return true
		}
	}
	return false
}
