// Package recipe resolves the build configuration of a package.
//
// A Recipe bundles an option schema, requirement rules and a version
// strategy. The producer (the xviz library) and the consumer (a small example
// that requires the published library) are two Recipe values built by
// NewProducer and NewConsumer; both go through the same Resolve path.
package recipe
