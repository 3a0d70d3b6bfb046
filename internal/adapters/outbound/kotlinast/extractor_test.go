package kotlinast_test

import (
	"strings"
	"testing"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/kotlinast"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const source = `package com.shop.domain

/** Loads a user. */
class UserLoader(private val repo: UserRepository) {

    /** Loads by id. */
    fun load(id: Int, fresh: Boolean = false): User? {
        // cache first
        if (!fresh && cache.contains(id)) {
            return cache[id]
        }
        return repo.find(id) ?: fallback(id)
    }

    private fun fallback(id: Int): User? = null

    override fun toString(): String = "UserLoader"

    @Composable
    fun Badge(user: User, modifier: Modifier = Modifier) {
        Text(user.name)
    }
}
`

func extract(t *testing.T, src string) map[string]domain.FunctionInfo {
	t.Helper()
	fns, err := kotlinast.New().Extract([]byte(src))
	require.NoError(t, err)
	out := make(map[string]domain.FunctionInfo, len(fns))
	for _, f := range fns {
		out[f.Name] = f
	}
	return out
}

func TestExtractor_Declarations(t *testing.T) {
	fns := extract(t, source)
	require.Len(t, fns, 4)

	load := fns["load"]
	assert.Equal(t, 7, load.StartLine)
	assert.Equal(t, 13, load.EndLine)
	assert.True(t, load.Public)
	assert.True(t, load.HasDoc)
	assert.Equal(t, []domain.Param{{Name: "id", Type: "Int"}, {Name: "fresh", Type: "Boolean"}}, load.Params)
	// if, &&, ?:
	assert.Equal(t, 4, load.Complexity)
	assert.Equal(t, 1, load.MaxNesting)
	assert.Equal(t, 1, load.CommentCount)

	assert.False(t, fns["fallback"].Public)
	assert.False(t, fns["fallback"].HasDoc)
	assert.True(t, fns["toString"].Override)
	assert.True(t, fns["Badge"].HasAnnotation("Composable"))
	assert.Len(t, fns["Badge"].Params, 2)
}

func TestExtractor_WhenBranches(t *testing.T) {
	src := `fun label(code: Int): String {
    return when (code) {
        200 -> "ok"
        404 -> "missing"
        500 -> "error"
        else -> "unknown"
    }
}
`
	fn := extract(t, src)["label"]
	assert.Equal(t, 4, fn.Complexity)
	assert.Equal(t, 1, fn.MaxNesting)
}

func TestExtractor_DeepNesting(t *testing.T) {
	var b strings.Builder
	b.WriteString("fun deep(x: Int) {\n")
	for i := 0; i < 5; i++ {
		b.WriteString(strings.Repeat("    ", i+1) + "if (x > " + string(rune('0'+i)) + ") {\n")
	}
	for i := 5; i > 0; i-- {
		b.WriteString(strings.Repeat("    ", i) + "}\n")
	}
	b.WriteString("}\n")

	fn := extract(t, b.String())["deep"]
	assert.Equal(t, 5, fn.MaxNesting)
	assert.Equal(t, 6, fn.Complexity)
}

func TestExtractor_ToleratesBrokenSource(t *testing.T) {
	fns, err := kotlinast.New().Extract([]byte("fun ok() {}\nfun broken( {\n"))
	require.NoError(t, err)
	require.NotEmpty(t, fns)
	assert.Equal(t, "ok", fns[0].Name)
}

func TestExtractor_ElseIfLadderIsFlat(t *testing.T) {
	src := `fun grade(score: Int): String {
    if (score > 90) {
        return "A"
    } else if (score > 80) {
        return "B"
    } else if (score > 70) {
        return "C"
    } else if (score > 60) {
        return "D"
    } else if (score > 50) {
        return "E"
    } else {
        return "F"
    }
}
`
	fn := extract(t, src)["grade"]
	assert.Equal(t, 1, fn.MaxNesting)
	assert.Equal(t, 6, fn.Complexity)
}

func TestExtractor_IfInsideElseBlockNests(t *testing.T) {
	src := `fun pick(a: Int, b: Int): Int {
    if (a > 0) {
        return a
    } else {
        if (b > 0) {
            return b
        }
    }
    return 0
}
`
	fn := extract(t, src)["pick"]
	assert.Equal(t, 2, fn.MaxNesting)
}
