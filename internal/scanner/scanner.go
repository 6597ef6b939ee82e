// Package scanner walks a project tree and finds source files the analyses
// support, with language detection based on file extensions.
package scanner

import (
	"bufio"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// languageMap maps supported file extensions to languages.
var languageMap = map[string]string{
	".py":  "python",
	".pyw": "python",
	".php": "php",
}

// defaultExcludes are directories never worth descending into.
var defaultExcludes = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	".venv":        true,
	"venv":         true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string // Relative path from root
	FullPath string // Absolute path
	Language string // Detected language from extension
	Size     int64  // File size in bytes
}

// Language returns the language for a file path, or "" when unsupported.
func Language(path string) string {
	return languageMap[strings.ToLower(filepath.Ext(path))]
}

// Supported reports whether the file can be analyzed.
func Supported(path string) bool {
	return Language(path) != ""
}

// Scan walks root and returns every supported source file, skipping hidden
// entries, common build directories, and anything listed in a .gdqignore
// file at the root (one pattern per line, matched against relative paths).
func Scan(root string) ([]FileInfo, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	ignores := loadIgnores(filepath.Join(absRoot, ".gdqignore"))

	var files []FileInfo
	err = filepath.WalkDir(absRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		rel, relErr := filepath.Rel(absRoot, path)
		if relErr != nil {
			rel = name
		}

		if d.IsDir() {
			if path != absRoot && (strings.HasPrefix(name, ".") || defaultExcludes[name] || matchesIgnore(ignores, rel)) {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !Supported(name) || matchesIgnore(ignores, rel) {
			return nil
		}

		info, statErr := d.Info()
		var size int64
		if statErr == nil {
			size = info.Size()
		}
		files = append(files, FileInfo{
			Path:     rel,
			FullPath: path,
			Language: Language(name),
			Size:     size,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

// loadIgnores reads gitignore-style patterns, one per line.
func loadIgnores(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var patterns []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

func matchesIgnore(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, p := range patterns {
		p = strings.TrimSuffix(p, "/")
		if ok, _ := filepath.Match(p, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(p, filepath.Base(rel)); ok {
			return true
		}
		if strings.HasPrefix(rel, p+"/") {
			return true
		}
	}
	return false
}
