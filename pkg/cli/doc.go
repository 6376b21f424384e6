// Package cli implements the xviz-recipe command-line interface.
//
// # Commands
//
// resolve: print the resolved settings, options, version and requirements
//
//	xviz-recipe resolve --profile linux-debug.yaml -o build_examples=True
//	xviz-recipe resolve --consumer
//
// generate: resolve and write the build descriptors into <build>/generators
//
//	xviz-recipe generate -s build_type=Debug
//
// build: generate, then configure and compile, optionally running the tests
//
//	xviz-recipe build --test --tool docker
//
// create: build, test and package the library
//
//	xviz-recipe create --package-dir ./dist
//
// test-package: build the consumer example against the version in XVIZ_CI_VERSION
//
//	XVIZ_CI_VERSION=0.3.1 xviz-recipe test-package --ci
//
// upload: store a packaged folder or the exported sources in S3
//
//	xviz-recipe upload --dir ./dist --bucket recipes
//	xviz-recipe upload --sources
//
// watch: regenerate the descriptors whenever the profile changes
//
//	xviz-recipe watch --profile linux-debug.yaml
//
// # Common Flags
//
// Every command accepts --profile, -o name=value and -s key=value (both
// repeatable), --source, --build-dir, --tool, --ci, --metrics-file and
// --log-level. Flags override the RECIPE_* environment configuration.
package cli
