package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Hash field names under pkg:<name>.
const (
	fieldScopes       = "scopes"
	fieldVersion      = "ver"
	fieldUpdatedTime  = "time"
	fieldUnityVersion = "unity"
	fieldStars        = "stars"
	fieldParentStars  = "pstars"
	fieldRepoPushed   = "repo_pushed"
	fieldRepoUpdated  = "repo_updated"
	fieldDownloads    = "dl_month"
)

// RedisStore keeps one hash per package under pkg:<name>.
type RedisStore struct {
	rdb *redis.Client
}

// RedisConfig holds connection settings for [NewRedisStore].
type RedisConfig struct {
	Addr     string // host:port, "localhost:6379" if empty
	Password string
	DB       int
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func pkgKey(name string) string { return "pkg:" + name }

func (s *RedisStore) setField(ctx context.Context, name, field, value string) error {
	if err := s.rdb.HSet(ctx, pkgKey(name), field, value).Err(); err != nil {
		return fmt.Errorf("persist %s for %s: %w", field, name, err)
	}
	return nil
}

// SetScopes replaces the stored dependency scope list for name.
func (s *RedisStore) SetScopes(ctx context.Context, name string, scopes []string) error {
	data, err := json.Marshal(scopes)
	if err != nil {
		return err
	}
	return s.setField(ctx, name, fieldScopes, string(data))
}

// Scopes returns the stored scope list, or nil if none was persisted yet.
func (s *RedisStore) Scopes(ctx context.Context, name string) ([]string, error) {
	data, err := s.rdb.HGet(ctx, pkgKey(name), fieldScopes).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var scopes []string
	if err := json.Unmarshal([]byte(data), &scopes); err != nil {
		return nil, err
	}
	return scopes, nil
}

func (s *RedisStore) SetVersion(ctx context.Context, name, version string) error {
	return s.setField(ctx, name, fieldVersion, version)
}

func (s *RedisStore) SetUpdatedTime(ctx context.Context, name string, t time.Time) error {
	return s.setField(ctx, name, fieldUpdatedTime, strconv.FormatInt(t.Unix(), 10))
}

// SetUnityVersion stores the editor version requirement, or empty if the
// value does not match the accepted YYYY.N shape.
func (s *RedisStore) SetUnityVersion(ctx context.Context, name, unity string) error {
	if !ValidUnityVersion(unity) {
		unity = ""
	}
	return s.setField(ctx, name, fieldUnityVersion, unity)
}

func (s *RedisStore) SetStars(ctx context.Context, name string, stars int) error {
	return s.setField(ctx, name, fieldStars, strconv.Itoa(stars))
}

func (s *RedisStore) SetParentStars(ctx context.Context, name string, stars int) error {
	return s.setField(ctx, name, fieldParentStars, strconv.Itoa(stars))
}

func (s *RedisStore) SetRepoPushedTime(ctx context.Context, name string, t time.Time) error {
	return s.setField(ctx, name, fieldRepoPushed, strconv.FormatInt(t.Unix(), 10))
}

func (s *RedisStore) SetRepoUpdatedTime(ctx context.Context, name string, t time.Time) error {
	return s.setField(ctx, name, fieldRepoUpdated, strconv.FormatInt(t.Unix(), 10))
}

func (s *RedisStore) SetReadmeCacheKey(ctx context.Context, name, lang, key string) error {
	return s.setField(ctx, name, readmeKeyField(lang), key)
}

// ReadmeCacheKey returns the stored cache key for the language variant, or
// "" if none was recorded yet.
func (s *RedisStore) ReadmeCacheKey(ctx context.Context, name, lang string) (string, error) {
	key, err := s.rdb.HGet(ctx, pkgKey(name), readmeKeyField(lang)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	return key, err
}

func (s *RedisStore) SetMonthlyDownloads(ctx context.Context, name string, downloads int) error {
	return s.setField(ctx, name, fieldDownloads, strconv.Itoa(downloads))
}

// Close releases the underlying connection pool.
func (s *RedisStore) Close(ctx context.Context) error {
	return s.rdb.Close()
}

func readmeKeyField(lang string) string {
	if lang == "" {
		lang = "en"
	}
	return "readme_key:" + lang
}

var _ Store = (*RedisStore)(nil)
