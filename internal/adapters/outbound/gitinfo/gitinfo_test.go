package gitinfo_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/gitinfo"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitInfo_IsGitRepo_True(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	gi := gitinfo.New()
	assert.True(t, gi.IsGitRepo(dir))
}

func TestGitInfo_IsGitRepo_False(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	assert.False(t, gi.IsGitRepo(dir))
}

func TestGitInfo_CommitHash_ReturnsHash(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"file.txt": "hello"})

	gi := gitinfo.New()
	hash, err := gi.CommitHash(dir)
	require.NoError(t, err)
	assert.Len(t, hash, 40, "should be a full SHA-1 hash")
}

func TestGitInfo_CommitHash_FromSubdirectory(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"app/Main.kt": "fun main() {}"})

	hash, err := gitinfo.New().CommitHash(filepath.Join(dir, "app"))
	require.NoError(t, err)
	assert.Len(t, hash, 40)
}

func TestGitInfo_CommitHash_NotGitRepo(t *testing.T) {
	dir := t.TempDir()
	gi := gitinfo.New()
	_, err := gi.CommitHash(dir)
	assert.Error(t, err)
}

func TestGitInfo_ChangedFiles(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{
		"app/Home.kt":    "class Home",
		"app/Profile.kt": "class Profile",
		"app/Gone.kt":    "class Gone",
	})
	write(t, dir, "app/Home.kt", "class Home { val x = 1 }")
	write(t, dir, "app/New.kt", "class New")
	require.NoError(t, os.Remove(filepath.Join(dir, "app/Gone.kt")))

	files, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"app/Home.kt", "app/New.kt"}, files)
}

func TestGitInfo_ChangedFiles_RelativeToProject(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{
		"android/app/Home.kt": "class Home",
		"backend/main.go":     "package main",
	})
	write(t, dir, "android/app/Home.kt", "class Home2")
	write(t, dir, "backend/main.go", "package main\n")

	files, err := gitinfo.New().ChangedFiles(filepath.Join(dir, "android"))
	require.NoError(t, err)
	assert.Equal(t, []string{"app/Home.kt"}, files)
}

func TestGitInfo_ChangedFiles_Clean(t *testing.T) {
	dir, _ := initRepo(t, map[string]string{"app/Home.kt": "class Home"})

	files, err := gitinfo.New().ChangedFiles(dir)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestGitInfo_ChangedFiles_NotGitRepo(t *testing.T) {
	_, err := gitinfo.New().ChangedFiles(t.TempDir())
	assert.Error(t, err)
}

func initRepo(t *testing.T, files map[string]string) (string, *git.Repository) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	for name, content := range files {
		write(t, dir, name, content)
		_, err := wt.Add(name)
		require.NoError(t, err)
	}
	_, err = wt.Commit("init", &git.CommitOptions{
		Author: &object.Signature{Name: "Test", Email: "test@test.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, repo
}

func write(t *testing.T, dir, name, content string) {
	t.Helper()
	p := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}
