// Package discovery finds report groups and the instrument logs inside them
package discovery

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Group is one top-level subdirectory that gets its own report
type Group struct {
	Name string
	Path string
}

// ListGroups returns the subdirectories of dir, sorted by name. Entries whose
// name starts with skipPrefix and entries that are not directories (after
// following symlinks) are left out.
func ListGroups(dir, skipPrefix string) ([]Group, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read groups directory: %w", err)
	}

	var groups []Group
	for _, entry := range entries {
		name := entry.Name()
		if skipPrefix != "" && strings.HasPrefix(name, skipPrefix) {
			continue
		}
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil || !info.IsDir() {
			continue
		}
		groups = append(groups, Group{Name: name, Path: path})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups, nil
}

// FilterGroups keeps only the groups named in names. An empty names list keeps
// everything. Names that match no group are returned as missing.
func FilterGroups(groups []Group, names []string) (kept []Group, missing []string) {
	if len(names) == 0 {
		return groups, nil
	}

	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}
	for _, g := range groups {
		if _, ok := wanted[g.Name]; ok {
			wanted[g.Name] = true
			kept = append(kept, g)
		}
	}
	for _, n := range names {
		if !wanted[n] {
			missing = append(missing, n)
		}
	}
	return kept, missing
}

// Matcher decides whether a file name is a candidate log
type Matcher struct {
	Suffix            string
	IncludeCompressed bool
}

// Match reports whether name ends in the suffix, or in suffix.gz when
// compressed logs are included
func (m Matcher) Match(name string) bool {
	if strings.HasSuffix(name, m.Suffix) {
		return true
	}
	return m.IncludeCompressed && strings.HasSuffix(name, m.Suffix+".gz")
}

// FindLogFiles walks root recursively and returns every matching regular file,
// sorted by path. Subdirectories that cannot be read are skipped; only a
// failure to read root itself is returned.
func FindLogFiles(root string, m Matcher) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if m.Match(d.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	sort.Strings(files)
	return files, nil
}

// GroupOf returns the name of the group containing path, given the directory
// that holds all groups
func GroupOf(groupsDir, path string) (string, bool) {
	rel, err := filepath.Rel(groupsDir, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", false
	}
	first, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
	return first, true
}
