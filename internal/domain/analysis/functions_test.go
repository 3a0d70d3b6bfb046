package analysis_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/abdidvp/kodeguard/internal/domain/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// earlyReturns builds a function with n independent guard clauses.
func earlyReturns(n int, comment bool) string {
	var b strings.Builder
	b.WriteString("fun classify(code: Int): Int {\n")
	if comment {
		b.WriteString("    // each code maps to its own bucket\n")
	}
	for i := 1; i <= n; i++ {
		fmt.Fprintf(&b, "    if (code == %d) return %d\n", i, i*10)
	}
	b.WriteString("    return 0\n}\n")
	return b.String()
}

// nestedIfs builds a function whose if blocks nest depth levels deep.
func nestedIfs(depth int) string {
	var b strings.Builder
	b.WriteString("fun deep(a: Boolean) {\n")
	for i := 1; i <= depth; i++ {
		fmt.Fprintf(&b, "%sif (a) {\n", strings.Repeat("    ", i))
	}
	fmt.Fprintf(&b, "%sprintln()\n", strings.Repeat("    ", depth+1))
	for i := depth; i >= 1; i-- {
		fmt.Fprintf(&b, "%s}\n", strings.Repeat("    ", i))
	}
	b.WriteString("}\n")
	return b.String()
}

func extractOne(t *testing.T, src string) domain.FunctionInfo {
	t.Helper()
	funcs, err := analysis.NewLineExtractor().Extract([]byte(src))
	require.NoError(t, err)
	require.Len(t, funcs, 1)
	return funcs[0]
}

func TestLineExtractor_ComplexityCountsEachGuard(t *testing.T) {
	fn := extractOne(t, earlyReturns(11, false))
	assert.Equal(t, "classify", fn.Name)
	assert.Equal(t, 12, fn.Complexity)
	assert.Equal(t, 0, fn.CommentCount)
	assert.Equal(t, 1, fn.StartLine)
	assert.Equal(t, 14, fn.EndLine)
}

func TestLineExtractor_CountsComments(t *testing.T) {
	fn := extractOne(t, earlyReturns(11, true))
	assert.Equal(t, 1, fn.CommentCount)
}

func TestLineExtractor_WhenBranchesAndOperators(t *testing.T) {
	fn := extractOne(t, lines(
		"fun label(x: Int, a: Boolean, b: Boolean, s: String?): String {",
		"    if (a && b || s == null) return \"none\"",
		"    val name = s ?: \"anon\"",
		"    for (i in 0..x) { println(i) }",
		"    try { parse(name) } catch (e: Exception) { }",
		"    return when (x) {",
		"        1 -> \"one\"",
		"        2, 3 -> \"few\"",
		"        else -> \"many\"",
		"    }",
		"}",
	))
	// 1 + if + && + || + ?: + for + catch + two when branches
	assert.Equal(t, 9, fn.Complexity)
}

func TestLineExtractor_Nesting(t *testing.T) {
	assert.Equal(t, 5, extractOne(t, nestedIfs(5)).MaxNesting)
	assert.Equal(t, 4, extractOne(t, nestedIfs(4)).MaxNesting)
}

func TestLineExtractor_ElseIfLadderIsFlat(t *testing.T) {
	fn := extractOne(t, lines(
		"fun grade(score: Int): String {",
		"    if (score > 90) {",
		"        return \"A\"",
		"    } else if (score > 80) {",
		"        return \"B\"",
		"    } else if (score > 70) {",
		"        return \"C\"",
		"    } else if (score > 60) {",
		"        return \"D\"",
		"    } else if (score > 50) {",
		"        return \"E\"",
		"    } else {",
		"        return \"F\"",
		"    }",
		"}",
	))
	assert.Equal(t, 1, fn.MaxNesting)
	assert.Equal(t, 6, fn.Complexity)
}

func TestLineExtractor_LambdaInConditionIsNotNesting(t *testing.T) {
	fn := extractOne(t, lines(
		"fun check(items: List<Int>) {",
		"    if (items.any { it > 0 }) {",
		"        items.forEach { println(it) }",
		"    }",
		"}",
	))
	assert.Equal(t, 1, fn.MaxNesting)
	assert.Equal(t, 2, fn.Complexity)
}

func TestLineExtractor_SignatureDetails(t *testing.T) {
	funcs, err := analysis.NewLineExtractor().Extract([]byte(lines(
		"/**",
		" * Loads a user.",
		" */",
		"@Throws(IOException::class)",
		"suspend fun load(id: String, options: Map<String, List<Int>> = emptyMap(), onDone: (Int) -> Unit) {",
		"}",
		"",
		"private fun helper() = 42",
		"",
		"override fun toString(): String = \"x\"",
	)))
	require.NoError(t, err)
	require.Len(t, funcs, 3)

	load := funcs[0]
	assert.Equal(t, "load", load.Name)
	assert.True(t, load.HasDoc)
	assert.True(t, load.Public)
	assert.Contains(t, load.Annotations, "Throws")
	require.Len(t, load.Params, 3)
	assert.Equal(t, "Map<String, List<Int>>", load.Params[1].Type)

	assert.False(t, funcs[1].Public)
	assert.False(t, funcs[1].HasDoc)
	assert.Equal(t, 8, funcs[1].EndLine)

	assert.True(t, funcs[2].Override)
}
