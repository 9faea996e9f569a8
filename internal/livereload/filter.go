package livereload

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultPatterns select the files of a content tree.
var DefaultPatterns = []string{"**/*.{md,json}"}

// DefaultExcludes are directory names never watched.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".progvibe",
	".idea",
	".vscode",
}

// shouldExcludeDir checks whether a directory name matches any default
// exclusion. Used during traversal to skip entire subtrees.
func shouldExcludeDir(name string) bool {
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// Matches reports whether relPath matches any of patterns. An empty
// pattern list matches everything.
func Matches(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	normalized := filepath.ToSlash(relPath)
	for _, pattern := range patterns {
		if matched, err := doublestar.Match(filepath.ToSlash(pattern), normalized); err == nil && matched {
			return true
		}
	}
	return false
}
