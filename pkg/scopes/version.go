package scopes

import "github.com/upmeta/upmeta/pkg/integrations/upm"

// EffectiveVersion resolves which published version of a package a
// dependency declaration refers to.
//
// The fallback order is:
//  1. requested == "" or "latest": the package's latest version
//  2. requested names a published version: that version
//  3. requested names an unpublished version: the latest version
//
// Case 3 tolerates stale version pins in dependency declarations; the
// declaring package's subtree keeps expanding instead of dead-ending
// on a bad pin.
func EffectiveVersion(meta *upm.PackageMeta, requested string) string {
	if requested == "" || requested == upm.TagLatest {
		return meta.LatestVersion()
	}
	if _, ok := meta.Versions[requested]; !ok {
		return meta.LatestVersion()
	}
	return requested
}
