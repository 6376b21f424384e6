package descriptors

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
)

func testResolution(t *testing.T, settings options.Settings, overrides map[string]bool) *recipe.Resolution {
	t.Helper()
	values, err := options.ProducerSchema().Apply(overrides)
	require.NoError(t, err)
	values = options.Prune(settings, values)

	reqs, err := requirements.NewBuilder(requirements.ProducerRules()...).Build(values, requirements.Context{CI: true})
	require.NoError(t, err)

	return &recipe.Resolution{
		ID:     "pass",
		Recipe: "xviz",
		Role:   recipe.RoleProducer,
		Config: recipe.BuildConfiguration{
			Settings: settings,
			Options:  values,
			Version:  "1.2.0",
		},
		Requirements: reqs,
	}
}

var linux = options.Settings{OS: options.OSLinux, Compiler: "gcc", BuildType: options.BuildTypeDebug, Arch: "x86_64"}

func contentOf(t *testing.T, files []File, path string) string {
	t.Helper()
	for _, f := range files {
		if f.Path == path {
			return string(f.Content)
		}
	}
	t.Fatalf("file %s not generated", path)
	return ""
}

func TestDependencyGenerator(t *testing.T) {
	res := testResolution(t, linux, map[string]bool{options.BuildExamples: true})
	files, err := NewDependencyGenerator().Generate(&Request{Resolution: res})
	require.NoError(t, err)
	require.Len(t, files, 1)

	expected := `# Dependencies of xviz/1.2.0
# Generated by xviz-recipe. Do not edit.

# protobuf/3.21.9
set(PROTOBUF_VERSION "3.21.9")
find_package(protobuf REQUIRED CONFIG)

# fmt/9.1.0
set(FMT_VERSION "9.1.0")
find_package(fmt REQUIRED CONFIG)

# gtest/cci.20210126
set(GTEST_VERSION "cci.20210126")
find_package(gtest REQUIRED CONFIG)

# websocketpp/0.8.2
set(WEBSOCKETPP_VERSION "0.8.2")
set(WEBSOCKETPP_OPTION_ASIO "standalone")
set(WEBSOCKETPP_OPTION_WITH_OPENSSL "False")
find_package(websocketpp REQUIRED CONFIG)

# lodepng/cci.20200615
set(LODEPNG_VERSION "cci.20200615")
find_package(lodepng REQUIRED CONFIG)
`
	assert.Equal(t, "xviz-deps.cmake", files[0].Path)
	assert.Equal(t, expected, string(files[0].Content))
}

func TestToolchainGenerator(t *testing.T) {
	tests := []struct {
		name     string
		settings options.Settings
		contains []string
		excludes []string
	}{
		{
			name:     "linux",
			settings: linux,
			contains: []string{
				`set(CMAKE_BUILD_TYPE "Debug" CACHE STRING "" FORCE)`,
				`set(CMAKE_SYSTEM_NAME "Linux")`,
				`set(CMAKE_SYSTEM_PROCESSOR "x86_64")`,
				`set(CMAKE_CXX_COMPILER "g++")`,
				"set(BUILD_SHARED_LIBS OFF)",
				"set(CMAKE_POSITION_INDEPENDENT_CODE ON)",
			},
		},
		{
			name:     "windows has no PIC toggle",
			settings: options.Settings{OS: options.OSWindows, Compiler: "msvc", BuildType: options.BuildTypeRelease, Arch: "x86_64"},
			contains: []string{`set(CMAKE_SYSTEM_NAME "Windows")`, `set(CMAKE_CXX_COMPILER "cl")`},
			excludes: []string{"CMAKE_POSITION_INDEPENDENT_CODE"},
		},
		{
			name:     "unknown compiler is left to cmake",
			settings: options.Settings{OS: options.OSMacos, Compiler: "icc", BuildType: options.BuildTypeRelease, Arch: "armv8"},
			contains: []string{`set(CMAKE_SYSTEM_NAME "Darwin")`},
			excludes: []string{"CMAKE_CXX_COMPILER"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := testResolution(t, tt.settings, nil)
			files, err := NewToolchainGenerator().Generate(&Request{Resolution: res})
			require.NoError(t, err)
			require.Len(t, files, 1)
			assert.Equal(t, "xviz-toolchain.cmake", files[0].Path)

			content := string(files[0].Content)
			for _, s := range tt.contains {
				assert.Contains(t, content, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, content, s)
			}
		})
	}
}

func TestLockfileGenerator(t *testing.T) {
	res := testResolution(t, linux, map[string]bool{options.BuildExamples: true})
	files, err := NewLockfileGenerator().Generate(&Request{Resolution: res})
	require.NoError(t, err)

	lock, err := ReadLockfile(files[0].Content)
	require.NoError(t, err)
	assert.Equal(t, "xviz/1.2.0", lock.Package)
	assert.Equal(t, "Debug", lock.Settings["build_type"])
	require.Len(t, lock.Requires, 5)
	assert.Equal(t, "websocketpp/0.8.2", lock.Requires[3].Ref)
	assert.Equal(t, map[string]string{"asio": "standalone", "with_openssl": "False"}, lock.Requires[3].Options)
	assert.Nil(t, lock.Requires[0].Options)
}

func TestRegistry_GenerateIsStable(t *testing.T) {
	reg := DefaultRegistry()
	assert.Equal(t, []string{"cmake-deps", "cmake-toolchain", "lockfile"}, reg.Names())

	req := &Request{Resolution: testResolution(t, linux, map[string]bool{options.BuildExamples: true})}
	first, err := reg.Generate(req)
	require.NoError(t, err)
	require.Len(t, first, 3)

	for i := 0; i < 10; i++ {
		again, err := reg.Generate(&Request{Resolution: testResolution(t, linux, map[string]bool{options.BuildExamples: true})})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRegistry_Errors(t *testing.T) {
	reg := DefaultRegistry()

	_, err := reg.Get("pkg-config")
	assert.True(t, IsGeneratorNotFoundError(err))

	_, err = reg.Generate(&Request{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "generators")
	paths, err := Write(dir, []File{{Path: "a.cmake", Content: []byte("x")}, {Path: "sub/b.yaml", Content: []byte("y")}})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.cmake"), filepath.Join(dir, "sub", "b.yaml")}, paths)

	data, err := os.ReadFile(filepath.Join(dir, "sub", "b.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "y", string(data))
}

func TestPackageInfoFile(t *testing.T) {
	res := testResolution(t, linux, nil)
	f, err := PackageInfoFile(res, recipe.PackageInfo{Libs: []string{"xviz"}, BuildDirs: []string{"lib/cmake/xviz"}})
	require.NoError(t, err)
	assert.Equal(t, PackageInfoName, f.Path)

	meta, err := ReadPackageInfo(f.Content)
	require.NoError(t, err)
	assert.Equal(t, "xviz", meta.Name)
	assert.Equal(t, "1.2.0", meta.Version)
	assert.Equal(t, []string{"xviz"}, meta.Libs)
	assert.Equal(t, []string{"lib/cmake/xviz"}, meta.BuildDirs)
	assert.True(t, meta.Options[options.FPIC])

	_, err = PackageInfoFile(nil, recipe.PackageInfo{})
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestCmakeName(t *testing.T) {
	assert.Equal(t, "WITH_OPENSSL", cmakeName("with_openssl"))
	assert.Equal(t, "XVIZ_CONSUMER_EXAMPLE", cmakeName("xviz_consumer-example"))
}
