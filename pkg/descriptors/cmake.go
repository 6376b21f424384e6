package descriptors

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
	"unicode"

	"github.com/platinummonkey/xviz-recipe/pkg/options"
)

//go:embed templates/deps.cmake.tmpl
var depsTemplate string

//go:embed templates/toolchain.cmake.tmpl
var toolchainTemplate string

var funcs = template.FuncMap{
	"cmakeName": cmakeName,
}

// DependencyGenerator writes <recipe>-deps.cmake with one find_package call
// per requirement and the sub-option overrides as cache-style variables
type DependencyGenerator struct {
	tmpl *template.Template
}

// NewDependencyGenerator parses the embedded dependency template
func NewDependencyGenerator() *DependencyGenerator {
	return &DependencyGenerator{
		tmpl: template.Must(template.New("deps.cmake").Funcs(funcs).Parse(depsTemplate)),
	}
}

// Name returns the name of the generator
func (g *DependencyGenerator) Name() string {
	return "cmake-deps"
}

// Files returns the paths this generator writes
func (g *DependencyGenerator) Files(recipeName string) []string {
	return []string{recipeName + "-deps.cmake"}
}

// Generate renders the dependency descriptor
func (g *DependencyGenerator) Generate(req *Request) ([]File, error) {
	res := req.Resolution
	data := map[string]interface{}{
		"Package":      res.Reference().String(),
		"Requirements": res.Requirements,
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, NewTemplateExecutionFailedError(g.tmpl.Name(), err)
	}
	return []File{{Path: g.Files(res.Recipe)[0], Content: buf.Bytes()}}, nil
}

// ToolchainGenerator writes <recipe>-toolchain.cmake from the settings and the
// linkage options
type ToolchainGenerator struct {
	tmpl *template.Template
}

// NewToolchainGenerator parses the embedded toolchain template
func NewToolchainGenerator() *ToolchainGenerator {
	return &ToolchainGenerator{
		tmpl: template.Must(template.New("toolchain.cmake").Funcs(funcs).Parse(toolchainTemplate)),
	}
}

// Name returns the name of the generator
func (g *ToolchainGenerator) Name() string {
	return "cmake-toolchain"
}

// Files returns the paths this generator writes
func (g *ToolchainGenerator) Files(recipeName string) []string {
	return []string{recipeName + "-toolchain.cmake"}
}

type compilers struct {
	C   string
	CXX string
}

var knownCompilers = map[string]compilers{
	"gcc":         {C: "gcc", CXX: "g++"},
	"clang":       {C: "clang", CXX: "clang++"},
	"apple-clang": {C: "clang", CXX: "clang++"},
	"msvc":        {C: "cl", CXX: "cl"},
}

var systemNames = map[string]string{
	options.OSLinux:   "Linux",
	options.OSWindows: "Windows",
	options.OSMacos:   "Darwin",
	options.OSFreeBSD: "FreeBSD",
}

// Generate renders the toolchain descriptor
func (g *ToolchainGenerator) Generate(req *Request) ([]File, error) {
	res := req.Resolution
	cfg := res.Config

	data := map[string]interface{}{
		"Package":    res.Reference().String(),
		"Settings":   cfg.Settings,
		"SystemName": systemNames[cfg.Settings.OS],
		"Shared":     onOff(cfg.Options.Enabled(options.Shared)),
		"HasPIC":     cfg.Options.Has(options.FPIC),
		"PIC":        onOff(cfg.Options.Enabled(options.FPIC)),
	}
	if c, ok := knownCompilers[cfg.Settings.Compiler]; ok {
		data["Compilers"] = c
	}

	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, data); err != nil {
		return nil, NewTemplateExecutionFailedError(g.tmpl.Name(), err)
	}
	return []File{{Path: g.Files(res.Recipe)[0], Content: buf.Bytes()}}, nil
}

// cmakeName turns a package or option name into an upper-case CMake identifier
func cmakeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			return '_'
		}
		return unicode.ToUpper(r)
	}, s)
}

func onOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
