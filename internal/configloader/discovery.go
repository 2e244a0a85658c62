package configloader

import (
	"context"
	"fmt"
	"iter"
	"os"
	"path/filepath"
)

// ConfigPaths holds the configuration files found for one run. Empty fields
// mean no file was found.
type ConfigPaths struct {
	// User is $XDG_CONFIG_HOME/mdbook-pandoc/config.yml or .yaml.
	User string

	// Project is the nearest project file above the book directory.
	Project string

	// Explicit is the --config path.
	Explicit string
}

// ProjectConfigFile is the name init writes.
const ProjectConfigFile = ".mdbook-pandoc.yml"

// projectConfigFiles are searched for in each directory, first match wins.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectConfigFiles = []string{
	ProjectConfigFile,
	".mdbook-pandoc.yaml",
	"mdbook-pandoc.yml",
}

// vcsRootMarkers end the upward search in the directory that holds them.
//
//nolint:gochecknoglobals // Read-only lookup table.
var vcsRootMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths finds the user and project configuration files for a book in
// workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	return &ConfigPaths{User: findUserConfig(), Project: project}, nil
}

func findUserConfig() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return firstFile(filepath.Join(configHome, "mdbook-pandoc"), "config.yml", "config.yaml")
}

// FindProjectConfig returns the first project config file found in startDir
// or its ancestors, or "" when there is none. The search ends at a VCS root,
// the home directory or the filesystem root. An empty startDir means the
// working directory.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		startDir = wd
	}
	absDir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}

	for dir := range searchDirs(absDir) {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if path := firstFile(dir, projectConfigFiles...); path != "" {
			return path, nil
		}
	}
	return "", nil
}

// searchDirs yields dir and its ancestors up to and including the first one
// that is a VCS root or the home directory.
func searchDirs(dir string) iter.Seq[string] {
	home, _ := os.UserHomeDir()
	return func(yield func(string) bool) {
		for {
			if !yield(dir) || isVCSRoot(dir) || (home != "" && dir == home) {
				return
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				return
			}
			dir = parent
		}
	}
}

func isVCSRoot(dir string) bool {
	for _, marker := range vcsRootMarkers {
		if info, err := os.Stat(filepath.Join(dir, marker)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// firstFile returns the first of names in dir that is a regular file.
func firstFile(dir string, names ...string) string {
	for _, name := range names {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path
		}
	}
	return ""
}
