package scanner_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/abdidvp/kodeguard/internal/adapters/outbound/scanner"
	"github.com/abdidvp/kodeguard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureDir = "../../../../testdata/android-app"

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func relPaths(files []domain.FileInfo) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

func newProject(t *testing.T) string {
	root := t.TempDir()
	for _, rel := range []string{
		"app/src/main/java/com/shop/ui/HomeScreen.kt",
		"app/src/main/java/com/shop/data/UserDao.kt",
		"app/src/main/java/com/shop/data/UserDao_Impl.kt",
		"app/src/main/java/com/shop/Hilt_App.kt",
		"app/src/main/AndroidManifest.xml",
		"app/build/generated/ksp/Foo.kt",
		"app/build.gradle.kts",
		"app/src/main/res/drawable/logo.png",
		".git/config",
		".gradle/cache.properties",
		".kodeguard/reports/report.json",
		"legacy/Old.kt",
		"README.md",
	} {
		writeFile(t, root, rel, "x\n")
	}
	return root
}

func TestFileScanner_ScanDirectory(t *testing.T) {
	root := newProject(t)
	files, err := scanner.New(domain.DefaultConfig()).ScanDirectory(root)
	require.NoError(t, err)

	paths := relPaths(files)
	assert.Contains(t, paths, "README.md")
	assert.Contains(t, paths, "app/build/generated/ksp/Foo.kt")
	for _, p := range paths {
		assert.NotContains(t, p, ".git/")
		assert.NotContains(t, p, ".gradle/")
	}
	assert.IsIncreasing(t, paths)

	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path))
		assert.Equal(t, int64(2), f.Size)
	}
}

func TestFileScanner_FilterFiles(t *testing.T) {
	root := newProject(t)
	cfg := domain.ProjectConfig{ExcludePaths: []string{"legacy"}}
	s := scanner.New(cfg)
	files, err := s.ScanDirectory(root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"app/build.gradle.kts",
		"app/src/main/AndroidManifest.xml",
		"app/src/main/java/com/shop/data/UserDao.kt",
		"app/src/main/java/com/shop/ui/HomeScreen.kt",
	}, relPaths(s.FilterFiles(files)))
}

func TestFileScanner_ExcludePathPrefix(t *testing.T) {
	root := newProject(t)
	s := scanner.New(domain.ProjectConfig{ExcludePaths: []string{"app/src/main/java/com/shop/ui/"}})
	files, err := s.ScanDirectory(root)
	require.NoError(t, err)
	assert.NotContains(t, relPaths(s.FilterFiles(files)), "app/src/main/java/com/shop/ui/HomeScreen.kt")
}

func TestFileScanner_ScanPaths(t *testing.T) {
	root := newProject(t)
	s := scanner.New(domain.DefaultConfig())

	files, err := s.ScanPaths(root, []string{
		"app/src/main/java/com/shop/data",
		filepath.Join(root, "app/src/main/java/com/shop/ui/HomeScreen.kt"),
		"app/src/main/java/com/shop/ui/HomeScreen.kt",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"app/src/main/java/com/shop/data/UserDao.kt",
		"app/src/main/java/com/shop/data/UserDao_Impl.kt",
		"app/src/main/java/com/shop/ui/HomeScreen.kt",
	}, relPaths(files))
}

func TestFileScanner_ScanPathsErrors(t *testing.T) {
	root := newProject(t)
	s := scanner.New(domain.DefaultConfig())

	cases := map[string][]string{
		"empty":   nil,
		"missing": {"app/src/main/java/Nope.kt"},
		"outside": {"../elsewhere.kt"},
	}
	for name, paths := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.ScanPaths(root, paths)
			assert.ErrorIs(t, err, domain.ErrInvalidPath)
		})
	}
}

func TestFileScanner_RootMustExist(t *testing.T) {
	_, err := scanner.New(domain.DefaultConfig()).ScanDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, domain.ErrInvalidPath)
}

func TestFileScanner_Fixture(t *testing.T) {
	s := scanner.New(domain.DefaultConfig())
	files, err := s.ScanDirectory(fixtureDir)
	require.NoError(t, err)

	kept := s.FilterFiles(files)
	require.NotEmpty(t, kept)
	for _, f := range kept {
		assert.NotContains(t, f.RelPath, "build/")
		assert.NotContains(t, []string{".md", ".png"}, f.Ext())
	}
}

func TestClassifyLayer(t *testing.T) {
	cases := map[string]domain.Layer{
		"app/src/main/java/com/shop/ui/home/HomeScreen.kt":        domain.LayerPresentation,
		"app/src/main/java/com/shop/presentation/CartViewModel.kt": domain.LayerPresentation,
		"core/src/main/java/com/shop/domain/GetUsersUseCase.kt":    domain.LayerDomain,
		"app/src/main/java/com/shop/data/local/UserDao.kt":         domain.LayerData,
		"app/src/main/java/com/shop/ui/data/UiMapper.kt":           domain.LayerData,
		"app/src/main/java/com/shop/data/ui/DataScreen.kt":         domain.LayerPresentation,
		"app/src/main/java/com/shop/di/NetworkModule.kt":           domain.LayerDI,
		"app/src/main/java/com/shop/App.kt":                        domain.LayerNone,
		"app/src/main/java/com/shop/ui.kt":                         domain.LayerNone,
	}
	for rel, want := range cases {
		assert.Equal(t, want, scanner.ClassifyLayer(rel), rel)
	}
}

func TestSkipsDir(t *testing.T) {
	for _, name := range []string{".git", ".gradle", "build", "generated"} {
		assert.True(t, scanner.SkipsDir(name), name)
	}
	assert.False(t, scanner.SkipsDir("src"))
}
