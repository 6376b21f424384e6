// Package buildtool drives the external native build tool.
//
// Tool is the seam between the lifecycle and the outside world. CMakeTool
// runs cmake and ctest on the host and streams their output through logrus;
// DockerTool runs the same commands inside a toolchain image. Package
// buildtooltest provides a recording fake.
package buildtool
