package scanner

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// skipDirs are never descended into.
var skipDirs = map[string]bool{
	".git":         true,
	".gradle":      true,
	".idea":        true,
	"node_modules": true,
}

// excludedDirs hold build output and generated sources. FilterFiles drops
// anything beneath them.
var excludedDirs = map[string]bool{
	"build":     true,
	"generated": true,
}

// generatedSuffixes mark annotation-processor output that lives next to real sources.
var generatedSuffixes = []string{"_Impl.kt", "_Factory.kt", "_MembersInjector.kt", "_HiltModules.kt"}

// FileScanner implements domain.FileScanner by walking the filesystem.
type FileScanner struct {
	extensions map[string]bool
	excludes   []string
	outputDir  string
}

// New builds a scanner from the project configuration.
func New(cfg domain.ProjectConfig) *FileScanner {
	exts := make(map[string]bool)
	for _, e := range cfg.EffectiveExtensions() {
		exts[e] = true
	}
	var excludes []string
	for _, p := range cfg.ExcludePaths {
		p = strings.Trim(filepath.ToSlash(strings.TrimSpace(p)), "/")
		if p != "" {
			excludes = append(excludes, p)
		}
	}
	return &FileScanner{
		extensions: exts,
		excludes:   excludes,
		outputDir:  strings.Trim(filepath.ToSlash(cfg.EffectiveOutputDir()), "/"),
	}
}

// ScanDirectory lists every regular file under root, skipping VCS and IDE
// directories. Results are sorted by relative path.
func (s *FileScanner) ScanDirectory(root string) ([]domain.FileInfo, error) {
	absRoot, err := checkRoot(root)
	if err != nil {
		return nil, err
	}
	files, err := s.walk(absRoot, absRoot)
	if err != nil {
		return nil, err
	}
	sortFiles(files)
	return files, nil
}

// ScanPaths lists the given files, expanding directories recursively. Paths
// may be absolute or relative to root. An empty list, a missing path or a path
// outside root is an error wrapping domain.ErrInvalidPath.
func (s *FileScanner) ScanPaths(root string, paths []string) ([]domain.FileInfo, error) {
	absRoot, err := checkRoot(root)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths given: %w", domain.ErrInvalidPath)
	}

	seen := make(map[string]bool)
	var files []domain.FileInfo
	for _, p := range paths {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(absRoot, p)
		}
		abs = filepath.Clean(abs)
		if !within(absRoot, abs) {
			return nil, fmt.Errorf("path %s is outside %s: %w", p, absRoot, domain.ErrInvalidPath)
		}
		info, err := os.Stat(abs)
		if err != nil {
			return nil, fmt.Errorf("path %s: %w", p, domain.ErrInvalidPath)
		}

		var found []domain.FileInfo
		if info.IsDir() {
			found, err = s.walk(absRoot, abs)
			if err != nil {
				return nil, err
			}
		} else {
			found = []domain.FileInfo{fileInfo(absRoot, abs, info)}
		}
		for _, f := range found {
			if !seen[f.Path] {
				seen[f.Path] = true
				files = append(files, f)
			}
		}
	}
	sortFiles(files)
	return files, nil
}

// FilterFiles keeps files with an allowed extension that are not build output,
// generated code, kodeguard's own output or excluded by configuration.
func (s *FileScanner) FilterFiles(files []domain.FileInfo) []domain.FileInfo {
	out := make([]domain.FileInfo, 0, len(files))
	for _, f := range files {
		if !s.extensions[f.Ext()] || s.excluded(f.RelPath) || isGenerated(f.Name()) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func (s *FileScanner) walk(absRoot, dir string) ([]domain.FileInfo, error) {
	var files []domain.FileInfo
	err := filepath.WalkDir(dir, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, fileInfo(absRoot, p, info))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, err)
	}
	return files, nil
}

func (s *FileScanner) excluded(rel string) bool {
	segments := strings.Split(rel, "/")
	for _, seg := range segments[:len(segments)-1] {
		if excludedDirs[seg] || skipDirs[seg] {
			return true
		}
	}
	if s.outputDir != "" && hasPathPrefix(rel, s.outputDir) {
		return true
	}
	for _, e := range s.excludes {
		if strings.Contains(e, "/") {
			if hasPathPrefix(rel, e) {
				return true
			}
			continue
		}
		if ok, _ := path.Match(e, path.Base(rel)); ok {
			return true
		}
		for _, seg := range segments[:len(segments)-1] {
			if seg == e {
				return true
			}
		}
	}
	return false
}

// SkipsDir reports whether a directory of this name is never analyzed, either
// because scans skip it or because FilterFiles drops everything beneath it.
func SkipsDir(name string) bool {
	return skipDirs[name] || excludedDirs[name]
}

func isGenerated(name string) bool {
	if name == "BuildConfig.kt" || strings.HasPrefix(name, "Hilt_") {
		return true
	}
	for _, suffix := range generatedSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func checkRoot(root string) (string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, domain.ErrInvalidPath)
	}
	info, err := os.Stat(absRoot)
	if err != nil || !info.IsDir() {
		return "", fmt.Errorf("project root %s is not a directory: %w", root, domain.ErrInvalidPath)
	}
	return absRoot, nil
}

func fileInfo(absRoot, p string, info os.FileInfo) domain.FileInfo {
	rel, _ := filepath.Rel(absRoot, p)
	rel = filepath.ToSlash(rel)
	return domain.FileInfo{
		Path:    p,
		RelPath: rel,
		Size:    info.Size(),
		ModTime: info.ModTime(),
		Layer:   ClassifyLayer(rel),
	}
}

func within(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func hasPathPrefix(rel, prefix string) bool {
	return rel == prefix || strings.HasPrefix(rel, prefix+"/")
}

func sortFiles(files []domain.FileInfo) {
	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
}
