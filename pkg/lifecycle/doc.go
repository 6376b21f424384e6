// Package lifecycle drives a recipe through its states:
//
//	init -> options_resolved -> requirements_resolved -> generated
//	     -> built -> tested -> packaged
//
// The first three states are pure and run before anything external is
// touched, so a configuration error never leaves a half-configured build
// directory. generated always runs and only writes descriptors; built
// configures the build tool with the build variables and compiles. built,
// tested and packaged depend on the Request and on the build_tests option,
// and packaging is only accepted together with a build. A run is single pass
// with no retry.
package lifecycle
