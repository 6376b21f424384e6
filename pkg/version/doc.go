// Package version resolves the version identifier of a package.
//
// A producer uses GitTagResolver, which asks git for a tag pointing exactly at
// HEAD and falls back to DefaultVersion on any failure. A consumer validating a
// published package uses EnvResolver, which requires the exact version in an
// environment variable and fails when it is missing.
package version
