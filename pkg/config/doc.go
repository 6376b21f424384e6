// Package config loads xviz-recipe configuration from environment variables.
//
// Build settings:
//
//	RECIPE_SOURCE_DIR="."
//	RECIPE_BUILD_DIR=""              # defaults to <source>/build/<build_type>
//	RECIPE_TOOL="cmake"              # cmake or docker
//	RECIPE_CMAKE_BIN="cmake"
//	RECIPE_CTEST_BIN="ctest"
//	RECIPE_DOCKER_IMAGE="xviz/toolchain:latest"
//	RECIPE_DOCKER_MEMORY_LIMIT="2147483648"
//	RECIPE_CI="false"                # falls back to CI
//	RECIPE_CI_VERSION_ENV="XVIZ_CI_VERSION"
//
// Artifact settings:
//
//	RECIPE_ARTIFACT_BUCKET="xviz-packages"
//	RECIPE_ARTIFACT_REGION="us-east-1"
//	RECIPE_ARTIFACT_PREFIX="packages"
//
// Observability settings:
//
//	RECIPE_LOG_LEVEL="info"          # debug, info, warn, error
//	RECIPE_METRICS_FILE=""           # Prometheus textfile written after each command
//
// Command-line flags override these values.
package config
