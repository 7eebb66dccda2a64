// Package upm implements the client for the UPM package registry.
//
// The registry serves one metadata document per package containing
// dist-tags, the published versions with their dependency maps, and
// publish timestamps. [Client.GetPackageMeta] fetches and decodes that
// document into a typed [PackageMeta]; [Client.GetMonthlyDownloads]
// queries the downloads API for install counts.
//
// Registry responses come in two shapes: the full form, where each entry
// in the versions map is an object, and an abbreviated form where the
// entry is just the dist-tag string ("latest"). [VersionInfo] decodes
// both.
package upm
