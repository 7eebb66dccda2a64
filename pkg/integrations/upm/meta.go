package upm

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/Masterminds/semver/v3"
)

// TagLatest is the dist-tag pointing at a package's current version.
const TagLatest = "latest"

// PackageMeta is the registry metadata document for one package.
type PackageMeta struct {
	Name     string                 `json:"name"`
	DistTags map[string]string      `json:"dist-tags"`
	Versions map[string]VersionInfo `json:"versions"`
	Time     map[string]time.Time   `json:"time"`
}

// VersionInfo describes one published version of a package.
//
// In the registry's abbreviated document form the versions-map value is
// the bare dist-tag string instead of an object; in that case only Tag is
// populated.
type VersionInfo struct {
	Version      string            `json:"version"`
	Unity        string            `json:"unity"`
	Dependencies map[string]string `json:"dependencies"`
	Tag          string            `json:"-"`
}

// UnmarshalJSON accepts both the object form and the abbreviated
// bare-string form of a versions-map entry.
func (v *VersionInfo) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &v.Tag)
	}

	type versionInfo VersionInfo // avoid recursion
	var vi versionInfo
	if err := json.Unmarshal(data, &vi); err != nil {
		return err
	}
	*v = VersionInfo(vi)
	return nil
}

// LatestVersion resolves the package's current version: the "latest"
// dist-tag if present, else the version entry whose own tag marker is
// "latest", else the highest published version in semver order. Returns
// "" if the document has no versions at all.
func (m *PackageMeta) LatestVersion() string {
	if tag, ok := m.DistTags[TagLatest]; ok && tag != "" {
		return tag
	}
	for _, ver := range sortedVersions(m.Versions) {
		if m.Versions[ver].Tag == TagLatest {
			return ver
		}
	}
	if vers := sortedVersions(m.Versions); len(vers) > 0 {
		return vers[0]
	}
	return ""
}

// UpdatedTime returns the publish time of the given version, falling back
// to the document-level "modified" timestamp.
func (m *PackageMeta) UpdatedTime(version string) time.Time {
	if t, ok := m.Time[version]; ok {
		return t
	}
	return m.Time["modified"]
}

// sortedVersions orders version strings highest-first. Versions that do
// not parse as semver sort after those that do, in lexical order, so the
// result is deterministic for any input.
func sortedVersions(versions map[string]VersionInfo) []string {
	type parsed struct {
		raw string
		ver *semver.Version
	}
	all := make([]parsed, 0, len(versions))
	for raw := range versions {
		v, err := semver.NewVersion(raw)
		if err != nil {
			v = nil
		}
		all = append(all, parsed{raw: raw, ver: v})
	}

	sort.Slice(all, func(i, j int) bool {
		a, b := all[i], all[j]
		switch {
		case a.ver != nil && b.ver != nil:
			if a.ver.Equal(b.ver) {
				return a.raw > b.raw
			}
			return a.ver.GreaterThan(b.ver)
		case a.ver != nil:
			return true
		case b.ver != nil:
			return false
		default:
			return a.raw < b.raw
		}
	})

	out := make([]string, len(all))
	for i, p := range all {
		out[i] = p.raw
	}
	return out
}
