package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/platinummonkey/xviz-recipe/pkg/buildtool"
	"github.com/platinummonkey/xviz-recipe/pkg/observability"
	"github.com/platinummonkey/xviz-recipe/pkg/version"
)

// Config holds all application configuration
type Config struct {
	// Build configuration
	Build BuildConfig

	// Artifact upload configuration
	Artifacts ArtifactsConfig

	// Observability configuration
	Observability ObservabilityConfig
}

// BuildConfig selects the source tree and the external build tool
type BuildConfig struct {
	SourceDir string
	BuildDir  string

	Tool              buildtool.Kind
	CMakeBin          string
	CTestBin          string
	DockerImage       string
	DockerMemoryLimit int64

	// CI marks CI validation runs
	CI bool
	// VersionEnv names the variable holding the consumer version
	VersionEnv string
}

// ArtifactsConfig holds S3 upload settings
type ArtifactsConfig struct {
	Bucket string
	Region string
	Prefix string
}

// ObservabilityConfig holds observability settings
type ObservabilityConfig struct {
	// Logging
	LogLevel observability.LogLevel

	// MetricsFile receives the Prometheus textfile after each command
	MetricsFile string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Build:         loadBuildConfig(),
		Artifacts:     loadArtifactsConfig(),
		Observability: loadObservabilityConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadBuildConfig loads build configuration from environment
func loadBuildConfig() BuildConfig {
	return BuildConfig{
		SourceDir:         getEnv("RECIPE_SOURCE_DIR", "."),
		BuildDir:          getEnv("RECIPE_BUILD_DIR", ""),
		Tool:              buildtool.Kind(strings.ToLower(getEnv("RECIPE_TOOL", string(buildtool.KindCMake)))),
		CMakeBin:          getEnv("RECIPE_CMAKE_BIN", "cmake"),
		CTestBin:          getEnv("RECIPE_CTEST_BIN", "ctest"),
		DockerImage:       getEnv("RECIPE_DOCKER_IMAGE", buildtool.DefaultImage),
		DockerMemoryLimit: getEnvInt64("RECIPE_DOCKER_MEMORY_LIMIT", buildtool.DefaultMemoryLimit),
		CI:                getEnvBool("RECIPE_CI", getEnvBool("CI", false)),
		VersionEnv:        getEnv("RECIPE_CI_VERSION_ENV", version.DefaultOverrideEnv),
	}
}

// loadArtifactsConfig loads artifact upload configuration from environment
func loadArtifactsConfig() ArtifactsConfig {
	return ArtifactsConfig{
		Bucket: getEnv("RECIPE_ARTIFACT_BUCKET", ""),
		Region: getEnv("RECIPE_ARTIFACT_REGION", "us-east-1"),
		Prefix: getEnv("RECIPE_ARTIFACT_PREFIX", "packages"),
	}
}

// loadObservabilityConfig loads observability configuration from environment
func loadObservabilityConfig() ObservabilityConfig {
	return ObservabilityConfig{
		LogLevel:    observability.ParseLogLevel(getEnv("RECIPE_LOG_LEVEL", "info")),
		MetricsFile: getEnv("RECIPE_METRICS_FILE", ""),
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Build.SourceDir == "" {
		return fmt.Errorf("source directory is required")
	}

	switch c.Build.Tool {
	case buildtool.KindCMake:
		if c.Build.CMakeBin == "" || c.Build.CTestBin == "" {
			return fmt.Errorf("cmake and ctest binaries are required for the cmake tool")
		}
	case buildtool.KindDocker:
		if c.Build.DockerImage == "" {
			return fmt.Errorf("docker image is required for the docker tool")
		}
		if c.Build.DockerMemoryLimit < 0 {
			return fmt.Errorf("docker memory limit cannot be negative")
		}
	default:
		return fmt.Errorf("invalid build tool: %s (must be cmake or docker)", c.Build.Tool)
	}

	if c.Build.VersionEnv == "" {
		return fmt.Errorf("version override variable name is required")
	}

	if c.Artifacts.Bucket != "" && c.Artifacts.Region == "" {
		return fmt.Errorf("artifact region is required when a bucket is set")
	}

	return nil
}

// ToolOptions returns the buildtool options described by the configuration
func (c *Config) ToolOptions() buildtool.Options {
	return buildtool.Options{
		Kind:        c.Build.Tool,
		CMakeBin:    c.Build.CMakeBin,
		CTestBin:    c.Build.CTestBin,
		Image:       c.Build.DockerImage,
		MemoryLimit: c.Build.DockerMemoryLimit,
	}
}

// getEnv returns an environment variable value or a default
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns a boolean environment variable or a default
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return strings.ToLower(value) == "true" || value == "1"
	}
	return defaultValue
}

// getEnvInt64 returns an int64 environment variable or a default
func getEnvInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}
