package store

import (
	"context"
	"strconv"
	"time"
)

// MemoryStore is an in-memory Store and ReadmeStore for tests.
// It is not goroutine-safe; the refresh job is strictly sequential.
type MemoryStore struct {
	scopes     map[string][]string
	fields     map[string]map[string]string
	readmes    map[string]*Readme
	failWrites error // when set, every setter returns this error
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scopes:  make(map[string][]string),
		fields:  make(map[string]map[string]string),
		readmes: make(map[string]*Readme),
	}
}

// FailWrites makes every subsequent setter return err. Pass nil to
// restore normal behavior.
func (s *MemoryStore) FailWrites(err error) { s.failWrites = err }

func (s *MemoryStore) set(name, field, value string) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	f, ok := s.fields[name]
	if !ok {
		f = make(map[string]string)
		s.fields[name] = f
	}
	f[field] = value
	return nil
}

// Field returns a raw stored field value, for test assertions.
func (s *MemoryStore) Field(name, field string) string {
	return s.fields[name][field]
}

func (s *MemoryStore) SetScopes(ctx context.Context, name string, scopes []string) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	s.scopes[name] = append([]string(nil), scopes...)
	return nil
}

func (s *MemoryStore) Scopes(ctx context.Context, name string) ([]string, error) {
	return s.scopes[name], nil
}

func (s *MemoryStore) SetVersion(ctx context.Context, name, version string) error {
	return s.set(name, fieldVersion, version)
}

func (s *MemoryStore) SetUpdatedTime(ctx context.Context, name string, t time.Time) error {
	return s.set(name, fieldUpdatedTime, t.UTC().Format(time.RFC3339))
}

func (s *MemoryStore) SetUnityVersion(ctx context.Context, name, unity string) error {
	if !ValidUnityVersion(unity) {
		unity = ""
	}
	return s.set(name, fieldUnityVersion, unity)
}

func (s *MemoryStore) SetStars(ctx context.Context, name string, stars int) error {
	return s.set(name, fieldStars, strconv.Itoa(stars))
}

func (s *MemoryStore) SetParentStars(ctx context.Context, name string, stars int) error {
	return s.set(name, fieldParentStars, strconv.Itoa(stars))
}

func (s *MemoryStore) SetRepoPushedTime(ctx context.Context, name string, t time.Time) error {
	return s.set(name, fieldRepoPushed, t.UTC().Format(time.RFC3339))
}

func (s *MemoryStore) SetRepoUpdatedTime(ctx context.Context, name string, t time.Time) error {
	return s.set(name, fieldRepoUpdated, t.UTC().Format(time.RFC3339))
}

func (s *MemoryStore) SetReadmeCacheKey(ctx context.Context, name, lang, key string) error {
	return s.set(name, readmeKeyField(lang), key)
}

func (s *MemoryStore) ReadmeCacheKey(ctx context.Context, name, lang string) (string, error) {
	return s.fields[name][readmeKeyField(lang)], nil
}

func (s *MemoryStore) SetMonthlyDownloads(ctx context.Context, name string, downloads int) error {
	return s.set(name, fieldDownloads, strconv.Itoa(downloads))
}

func (s *MemoryStore) SetReadme(ctx context.Context, name, lang, markdown string) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	doc := s.readme(name, lang)
	doc.Markdown = markdown
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) SetReadmeHTML(ctx context.Context, name, lang, html string) error {
	if s.failWrites != nil {
		return s.failWrites
	}
	doc := s.readme(name, lang)
	doc.HTML = html
	doc.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *MemoryStore) Readme(ctx context.Context, name, lang string) (*Readme, error) {
	doc, ok := s.readmes[readmeID(name, lang)]
	if !ok {
		return nil, nil
	}
	return doc, nil
}

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) readme(name, lang string) *Readme {
	id := readmeID(name, lang)
	doc, ok := s.readmes[id]
	if !ok {
		doc = &Readme{Name: name, Lang: lang}
		s.readmes[id] = doc
	}
	return doc
}

var (
	_ Store       = (*MemoryStore)(nil)
	_ ReadmeStore = (*MemoryStore)(nil)
)
