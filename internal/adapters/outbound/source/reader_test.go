package source_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/source"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader_Read(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Main.kt")
	require.NoError(t, os.WriteFile(p, []byte("fun main() {}\n"), 0o644))

	got, err := source.NewReader(0).Read(p)
	require.NoError(t, err)
	assert.Equal(t, "fun main() {}\n", string(got))
}

func TestReader_SizeCap(t *testing.T) {
	p := filepath.Join(t.TempDir(), "Big.kt")
	require.NoError(t, os.WriteFile(p, []byte(strings.Repeat("a", 65)), 0o644))

	_, err := source.NewReader(64).Read(p)
	assert.ErrorIs(t, err, domain.ErrFileTooLarge)
}

func TestReader_Missing(t *testing.T) {
	_, err := source.NewReader(0).Read(filepath.Join(t.TempDir(), "nope.kt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
