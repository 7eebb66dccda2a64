// Package store persists derived package metadata.
//
// The refresh job writes each field independently as its step completes;
// writes are last-writer-wins per field with no transactional grouping, so
// a partially failed refresh can leave some fields updated and others
// stale. That is accepted behavior.
//
// Scalar fields live in a Redis hash per package ([RedisStore]). Readme
// bodies are larger documents and live in MongoDB ([MongoReadmes]).
// [MemoryStore] backs tests.
package store

import (
	"context"
	"regexp"
	"time"
)

// unityVersionPattern is the accepted shape of an editor version requirement
// ("2019.4", "2021.3"). Anything else is stored as empty.
var unityVersionPattern = regexp.MustCompile(`^\d{4}\.\d+`)

// Store is the keyed metadata persistence layer. All setters replace the
// previous value for their field; SetScopes replaces the whole list.
type Store interface {
	SetScopes(ctx context.Context, name string, scopes []string) error
	Scopes(ctx context.Context, name string) ([]string, error)

	SetVersion(ctx context.Context, name, version string) error
	SetUpdatedTime(ctx context.Context, name string, t time.Time) error
	SetUnityVersion(ctx context.Context, name, unity string) error

	SetStars(ctx context.Context, name string, stars int) error
	SetParentStars(ctx context.Context, name string, stars int) error
	SetRepoPushedTime(ctx context.Context, name string, t time.Time) error
	SetRepoUpdatedTime(ctx context.Context, name string, t time.Time) error

	SetReadmeCacheKey(ctx context.Context, name, lang, key string) error
	ReadmeCacheKey(ctx context.Context, name, lang string) (string, error)

	SetMonthlyDownloads(ctx context.Context, name string, downloads int) error

	Close(ctx context.Context) error
}

// ReadmeStore persists readme bodies per package and language variant.
type ReadmeStore interface {
	SetReadme(ctx context.Context, name, lang, markdown string) error
	SetReadmeHTML(ctx context.Context, name, lang, html string) error
	Readme(ctx context.Context, name, lang string) (*Readme, error)
}

// Readme is a stored readme document for one language variant.
type Readme struct {
	Name      string    `bson:"name" json:"name"`
	Lang      string    `bson:"lang" json:"lang"`
	Markdown  string    `bson:"markdown" json:"markdown"`
	HTML      string    `bson:"html" json:"html"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidUnityVersion reports whether unity matches the accepted editor
// version shape. Invalid values are stored as empty rather than rejected,
// since curated upstream data is occasionally malformed.
func ValidUnityVersion(unity string) bool {
	return unityVersionPattern.MatchString(unity)
}
