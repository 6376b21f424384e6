package recipe

import (
	"github.com/platinummonkey/xviz-recipe/pkg/options"
	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

// Role distinguishes the published library from the package that validates it
type Role string

const (
	RoleProducer Role = "producer"
	RoleConsumer Role = "consumer"
)

// PackageInfo is the metadata advertised to downstream consumers after packaging
type PackageInfo struct {
	Libs      []string `yaml:"libs" json:"libs"`
	BuildDirs []string `yaml:"build_dirs,omitempty" json:"build_dirs,omitempty"`
}

// Recipe describes how one package is configured. Producer and consumer are
// both Recipes that differ only in their data.
type Recipe struct {
	Name   string
	Role   Role
	Schema options.Schema
	Rules  []requirements.Rule
	// Version resolves the version of this pass
	Version       version.Resolver
	PackageInfo   PackageInfo
	ExportSources []string
	// VariablePrefix names the build-system variables; empty disables them
	VariablePrefix string
}

// BuildConfiguration is the state of one resolution pass
type BuildConfiguration struct {
	Settings options.Settings `yaml:"settings" json:"settings"`
	Options  options.Values   `yaml:"options" json:"options"`
	Version  string           `yaml:"version" json:"version"`
}

// Resolution is the complete, validated outcome of a resolution pass
type Resolution struct {
	ID            string                     `yaml:"id" json:"id"`
	Recipe        string                     `yaml:"recipe" json:"recipe"`
	Role          Role                       `yaml:"role" json:"role"`
	Config        BuildConfiguration         `yaml:"config" json:"config"`
	VersionMethod version.Method             `yaml:"version_method" json:"version_method"`
	Requirements  []requirements.Requirement `yaml:"requirements" json:"requirements"`
}

// Reference returns the reference of the package this resolution builds
func (r *Resolution) Reference() requirements.Reference {
	return requirements.Reference{Name: r.Recipe, Version: r.Config.Version}
}
