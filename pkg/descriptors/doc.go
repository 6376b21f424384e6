// Package descriptors renders the files an external build tool reads: a
// CMake dependency descriptor, a YAML lockfile and a CMake toolchain file for
// every resolution pass, plus the package-info.yaml metadata written when a
// package is created.
//
// Output depends only on the resolution, so generating twice from equal
// inputs produces identical bytes.
package descriptors
