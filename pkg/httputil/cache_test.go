package httputil

import (
	"errors"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	type payload struct {
		Name  string `json:"name"`
		Stars int    `json:"stars"`
	}

	in := payload{Name: "com.example.pkg", Stars: 42}
	if err := c.Set("upm:com.example.pkg", in); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out payload
	ok, err := c.Get("upm:com.example.pkg", &out)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected cache hit")
	}
	if out != in {
		t.Errorf("Get = %+v, want %+v", out, in)
	}
}

func TestCacheMiss(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Hour)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	var v string
	ok, err := c.Get("absent", &v)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpiry(t *testing.T) {
	c, err := NewCache(t.TempDir(), time.Nanosecond)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	if err := c.Set("key", "value"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	time.Sleep(10 * time.Millisecond)

	var v string
	ok, err := c.Get("key", &v)
	if ok {
		t.Error("expected expired entry to miss")
	}
	if !errors.Is(err, ErrExpired) {
		t.Errorf("Get error = %v, want ErrExpired", err)
	}
}

func TestCacheNamespaceIsolation(t *testing.T) {
	c, err := NewCache(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}

	reg := c.Namespace("upm:")
	gh := c.Namespace("github:")

	if err := reg.Set("key", "registry"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := gh.Set("key", "github"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var v string
	if ok, _ := reg.Get("key", &v); !ok || v != "registry" {
		t.Errorf("registry namespace = %q (hit=%v), want \"registry\"", v, v != "")
	}
	if ok, _ := gh.Get("key", &v); !ok || v != "github" {
		t.Errorf("github namespace = %q, want \"github\"", v)
	}
}
