package descriptors

import (
	"gopkg.in/yaml.v3"

	"github.com/platinummonkey/xviz-recipe/pkg/recipe"
)

// PackageInfoName is the metadata file written into a packaged folder
const PackageInfoName = "package-info.yaml"

// PackageInfo tells downstream consumers how to link the package and where
// its CMake config files live
type PackageInfo struct {
	Name      string            `yaml:"name"`
	Version   string            `yaml:"version"`
	Libs      []string          `yaml:"libs"`
	BuildDirs []string          `yaml:"build_dirs,omitempty"`
	Settings  map[string]string `yaml:"settings"`
	Options   map[string]bool   `yaml:"options"`
}

// PackageInfoFile renders the packaging metadata of a resolution
func PackageInfoFile(res *recipe.Resolution, info recipe.PackageInfo) (File, error) {
	if res == nil {
		return File{}, NewMissingRequiredFieldError("resolution")
	}
	s := res.Config.Settings
	meta := PackageInfo{
		Name:      res.Recipe,
		Version:   res.Config.Version,
		Libs:      info.Libs,
		BuildDirs: info.BuildDirs,
		Settings: map[string]string{
			"os":         s.OS,
			"compiler":   s.Compiler,
			"build_type": s.BuildType,
			"arch":       s.Arch,
		},
		Options: res.Config.Options.Map(),
	}

	out, err := yaml.Marshal(&meta)
	if err != nil {
		return File{}, NewTemplateExecutionFailedError(PackageInfoName, err)
	}
	return File{Path: PackageInfoName, Content: out}, nil
}

// ReadPackageInfo parses package-info.yaml
func ReadPackageInfo(data []byte) (*PackageInfo, error) {
	var meta PackageInfo
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}
