package upm

import (
	"encoding/json"
	"testing"
	"time"
)

func TestVersionInfoUnmarshalObjectForm(t *testing.T) {
	data := []byte(`{
		"version": "1.2.0",
		"unity": "2019.4",
		"dependencies": {"com.example.dep": "1.0.0"}
	}`)

	var v VersionInfo
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Version != "1.2.0" {
		t.Errorf("Version = %q, want 1.2.0", v.Version)
	}
	if v.Unity != "2019.4" {
		t.Errorf("Unity = %q, want 2019.4", v.Unity)
	}
	if v.Dependencies["com.example.dep"] != "1.0.0" {
		t.Errorf("Dependencies = %v, want com.example.dep 1.0.0", v.Dependencies)
	}
	if v.Tag != "" {
		t.Errorf("Tag = %q, want empty for object form", v.Tag)
	}
}

func TestVersionInfoUnmarshalAbbreviatedForm(t *testing.T) {
	var v VersionInfo
	if err := json.Unmarshal([]byte(`"latest"`), &v); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if v.Tag != TagLatest {
		t.Errorf("Tag = %q, want latest", v.Tag)
	}
}

func TestLatestVersionFromDistTag(t *testing.T) {
	m := &PackageMeta{
		DistTags: map[string]string{"latest": "2.0.0"},
		Versions: map[string]VersionInfo{
			"1.0.0":           {Version: "1.0.0"},
			"2.0.0":           {Version: "2.0.0"},
			"3.0.0-preview.1": {Version: "3.0.0-preview.1"},
		},
	}
	if got := m.LatestVersion(); got != "2.0.0" {
		t.Errorf("LatestVersion = %q, want 2.0.0 (dist-tag wins)", got)
	}
}

func TestLatestVersionFromTaggedEntry(t *testing.T) {
	m := &PackageMeta{
		Versions: map[string]VersionInfo{
			"1.0.0": {Tag: "latest"},
			"2.0.0": {},
		},
	}
	if got := m.LatestVersion(); got != "1.0.0" {
		t.Errorf("LatestVersion = %q, want 1.0.0 (tagged entry)", got)
	}
}

func TestLatestVersionFallsBackToHighestSemver(t *testing.T) {
	m := &PackageMeta{
		Versions: map[string]VersionInfo{
			"1.0.0":  {},
			"1.10.0": {},
			"1.2.0":  {},
		},
	}
	if got := m.LatestVersion(); got != "1.10.0" {
		t.Errorf("LatestVersion = %q, want 1.10.0 (semver order, not lexical)", got)
	}
}

func TestLatestVersionEmptyDocument(t *testing.T) {
	m := &PackageMeta{}
	if got := m.LatestVersion(); got != "" {
		t.Errorf("LatestVersion = %q, want empty for no versions", got)
	}
}

func TestUpdatedTime(t *testing.T) {
	published := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	modified := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	m := &PackageMeta{
		Time: map[string]time.Time{
			"1.0.0":    published,
			"modified": modified,
		},
	}

	if got := m.UpdatedTime("1.0.0"); !got.Equal(published) {
		t.Errorf("UpdatedTime(1.0.0) = %v, want %v", got, published)
	}
	if got := m.UpdatedTime("9.9.9"); !got.Equal(modified) {
		t.Errorf("UpdatedTime(9.9.9) = %v, want modified fallback %v", got, modified)
	}
}

func TestPackageMetaUnmarshalMixedVersions(t *testing.T) {
	data := []byte(`{
		"name": "com.example.pkg",
		"dist-tags": {"latest": "1.1.0"},
		"versions": {
			"1.0.0": "latest",
			"1.1.0": {"version": "1.1.0", "dependencies": {"com.example.dep": "2.0.0"}}
		}
	}`)

	var m PackageMeta
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m.Versions["1.0.0"].Tag != "latest" {
		t.Errorf("abbreviated entry Tag = %q, want latest", m.Versions["1.0.0"].Tag)
	}
	if m.Versions["1.1.0"].Dependencies["com.example.dep"] != "2.0.0" {
		t.Errorf("object entry dependencies not decoded: %v", m.Versions["1.1.0"])
	}
}
