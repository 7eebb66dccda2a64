package catalog

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

const sampleRecord = `name: com.acme.widget
displayName: Acme Widget
repoUrl: https://github.com/acme/widget
image: https://example.com/cover.png
readme: main:docs/README.md
readme_zhCN: main:docs/README.zh-cn.md
hunter: hunter1
owner: acme
`

func writeRecord(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name+".yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "com.acme.widget", sampleRecord)

	c := New(dir)
	rec, err := c.Load("com.acme.widget")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.DisplayName != "Acme Widget" {
		t.Errorf("DisplayName = %q", rec.DisplayName)
	}
	if rec.Hunter != "hunter1" || rec.Owner != "acme" {
		t.Errorf("Hunter/Owner = %q/%q", rec.Hunter, rec.Owner)
	}

	owner, repo, err := rec.RepoRef()
	if err != nil {
		t.Fatalf("RepoRef: %v", err)
	}
	if owner != "acme" || repo != "widget" {
		t.Errorf("RepoRef = %s/%s, want acme/widget", owner, repo)
	}
}

func TestLoadDefaultsNameFromFile(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "com.acme.bare", "repoUrl: https://github.com/acme/bare\n")

	rec, err := New(dir).Load("com.acme.bare")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if rec.Name != "com.acme.bare" {
		t.Errorf("Name = %q, want file-derived default", rec.Name)
	}
}

func TestLoadMissing(t *testing.T) {
	if _, err := New(t.TempDir()).Load("com.acme.nope"); err == nil {
		t.Fatal("Load of missing record succeeded")
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	writeRecord(t, dir, "com.acme.widget", sampleRecord)

	c := New(dir)
	if !c.Exists("com.acme.widget") {
		t.Error("Exists = false for present record")
	}
	if c.Exists("com.acme.other") {
		t.Error("Exists = true for absent record")
	}
}

func TestAllNamesNewestFirst(t *testing.T) {
	dir := t.TempDir()
	older := writeRecord(t, dir, "com.acme.older", sampleRecord)
	writeRecord(t, dir, "com.acme.newer", sampleRecord)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatal(err)
	}

	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	names, err := New(dir).AllNames()
	if err != nil {
		t.Fatalf("AllNames: %v", err)
	}
	want := []string{"com.acme.newer", "com.acme.older"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("AllNames = %v, want %v", names, want)
	}
}

func TestReadmeRef(t *testing.T) {
	tests := []struct {
		locator, branch, path string
	}{
		{"", "master", "README.md"},
		{"main:README.md", "main", "README.md"},
		{"main:docs/README.md", "main", "docs/README.md"},
		{"README.md", "master", "README.md"},
		{"develop:", "develop", "README.md"},
	}
	for _, tt := range tests {
		branch, path := ReadmeRef(tt.locator)
		if branch != tt.branch || path != tt.path {
			t.Errorf("ReadmeRef(%q) = %s, %s, want %s, %s",
				tt.locator, branch, path, tt.branch, tt.path)
		}
	}
}
