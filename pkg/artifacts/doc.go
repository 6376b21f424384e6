// Package artifacts uploads packaged folders and exported sources to S3.
//
// Archives are stored at <prefix>/<name>/<version>[/<user>/<channel>]/<kind>.tar.gz
// with the reference and the archive's sha256 as object metadata. An existing
// object is not overwritten unless the request sets Force.
package artifacts
