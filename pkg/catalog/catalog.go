// Package catalog loads the curated package records that drive refresh
// runs. Each record is one YAML file named <package>.yml in the catalog
// directory.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/upmeta/upmeta/pkg/integrations"
)

// Record is one curated package entry.
type Record struct {
	Name        string `yaml:"name"`
	DisplayName string `yaml:"displayName"`
	RepoURL     string `yaml:"repoUrl"`
	Image       string `yaml:"image"`

	// Readme locates the document as "<branch>:<path>", for example
	// "main:README.md". Empty means "master:README.md".
	Readme     string `yaml:"readme"`
	ReadmeZhCN string `yaml:"readme_zhCN"`

	Hunter string `yaml:"hunter"`
	Owner  string `yaml:"owner"`
}

// RepoRef returns the GitHub owner and repository parsed from RepoURL.
func (r *Record) RepoRef() (owner, repo string, err error) {
	owner, repo, ok := integrations.ParseRepoURL(r.RepoURL)
	if !ok {
		return "", "", fmt.Errorf("unrecognized repo url %q", r.RepoURL)
	}
	return owner, repo, nil
}

// ReadmeRef splits a "<branch>:<path>" locator into its parts, applying
// the defaults for missing pieces.
func ReadmeRef(locator string) (branch, path string) {
	branch, path = "master", "README.md"
	if locator == "" {
		return branch, path
	}
	if i := strings.Index(locator, ":"); i >= 0 {
		if b := locator[:i]; b != "" {
			branch = b
		}
		if p := locator[i+1:]; p != "" {
			path = p
		}
		return branch, path
	}
	return branch, locator
}

// Catalog reads records from a directory of YAML files.
type Catalog struct {
	dir string
}

// New creates a Catalog over dir. The directory is read lazily; a missing
// record surfaces on Load, not here.
func New(dir string) *Catalog {
	return &Catalog{dir: dir}
}

// Dir returns the catalog directory.
func (c *Catalog) Dir() string { return c.dir }

// Load reads and parses the record for name.
func (c *Catalog) Load(name string) (*Record, error) {
	data, err := os.ReadFile(c.path(name))
	if err != nil {
		return nil, fmt.Errorf("read catalog record %s: %w", name, err)
	}
	var rec Record
	if err := yaml.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("parse catalog record %s: %w", name, err)
	}
	if rec.Name == "" {
		rec.Name = name
	}
	return &rec, nil
}

// Exists reports whether a record file for name is present.
func (c *Catalog) Exists(name string) bool {
	info, err := os.Stat(c.path(name))
	return err == nil && !info.IsDir()
}

// AllNames lists every package with a record, most recently modified
// first. Recently curated packages are refreshed first that way.
func (c *Catalog) AllNames() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	type item struct {
		name  string
		mtime time.Time
	}
	items := make([]item, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yml") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		items = append(items, item{
			name:  strings.TrimSuffix(e.Name(), ".yml"),
			mtime: info.ModTime(),
		})
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].mtime.Equal(items[j].mtime) {
			return items[i].mtime.After(items[j].mtime)
		}
		return items[i].name < items[j].name
	})

	names := make([]string, len(items))
	for i, it := range items {
		names[i] = it.name
	}
	return names, nil
}

func (c *Catalog) path(name string) string {
	return filepath.Join(c.dir, name+".yml")
}
