package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/platinummonkey/xviz-recipe/pkg/artifacts"
	"github.com/platinummonkey/xviz-recipe/pkg/descriptors"
	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
)

func (a *app) newUploadCommand() *Command {
	fs, common := a.newFlagSet("upload")
	dir := fs.String("dir", "", "Packaged folder containing package-info.yaml")
	sources := fs.Bool("sources", false, "Upload the exported sources instead of a package")
	bucket := fs.String("bucket", "", "S3 bucket (default RECIPE_ARTIFACT_BUCKET)")
	prefix := fs.String("prefix", "", "Key prefix (default RECIPE_ARTIFACT_PREFIX)")
	region := fs.String("region", "", "AWS region (default RECIPE_ARTIFACT_REGION)")
	force := fs.Bool("force", false, "Overwrite an existing upload")

	cmd := &Command{
		Name:        "upload",
		Description: "Upload a packaged folder or the exported sources to S3",
		Flags:       fs,
	}
	cmd.Run = func(args []string) error {
		if err := fs.Parse(args); err != nil {
			return err
		}
		if *dir == "" && !*sources {
			return errors.New("--dir or --sources is required")
		}
		s, err := a.newSession(common)
		if err != nil {
			return err
		}

		var req *artifacts.UploadRequest
		if *sources {
			req, err = a.sourcesRequest(s)
		} else {
			req, err = packageRequest(*dir)
		}
		if err != nil {
			return err
		}
		req.Force = *force

		cfg := &artifacts.Config{
			Bucket: firstNonEmpty(*bucket, s.cfg.Artifacts.Bucket),
			Prefix: firstNonEmpty(*prefix, s.cfg.Artifacts.Prefix),
			Region: firstNonEmpty(*region, s.cfg.Artifacts.Region),
		}
		up, err := a.newUploader(s.ctx, cfg)
		if err != nil {
			return err
		}

		result, err := up.Upload(s.ctx, req)
		if err != nil {
			return err
		}
		s.logger.WithFields(map[string]interface{}{
			"key":    result.Key,
			"sha256": result.Hash,
			"files":  result.Files,
		}).Info("upload complete")
		fmt.Fprintf(a.stdout, "uploaded %d files to s3://%s/%s (sha256 %s)\n", result.Files, result.Bucket, result.Key, result.Hash)
		return s.finish()
	}
	return cmd
}

// sourcesRequest selects the producer's exported sources at the resolved version
func (a *app) sourcesRequest(s *session) (*artifacts.UploadRequest, error) {
	r := s.producer()
	v, err := r.Version.Resolve(s.ctx)
	if err != nil {
		return nil, err
	}
	return &artifacts.UploadRequest{
		Ref:      requirements.Reference{Name: r.Name, Version: v.Version},
		Dir:      s.cfg.Build.SourceDir,
		Include:  r.ExportSources,
		Kind:     "sources",
		Metadata: map[string]string{"version_method": string(v.Method)},
	}, nil
}

// packageRequest names the upload after the package-info.yaml of dir
func packageRequest(dir string) (*artifacts.UploadRequest, error) {
	data, err := os.ReadFile(filepath.Join(dir, descriptors.PackageInfoName))
	if err != nil {
		return nil, fmt.Errorf("not a packaged folder: %w", err)
	}
	info, err := descriptors.ReadPackageInfo(data)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: %w", descriptors.PackageInfoName, err)
	}
	if info.Name == "" || info.Version == "" {
		return nil, fmt.Errorf("%s must name the package and its version", descriptors.PackageInfoName)
	}

	variant := []string{"package"}
	for _, key := range []string{"os", "arch", "build_type"} {
		if v := info.Settings[key]; v != "" {
			variant = append(variant, strings.ToLower(v))
		}
	}

	return &artifacts.UploadRequest{
		Ref:  requirements.Reference{Name: info.Name, Version: info.Version},
		Dir:  dir,
		Kind: strings.Join(variant, "-"),
		Metadata: map[string]string{
			"os":         info.Settings["os"],
			"arch":       info.Settings["arch"],
			"build_type": info.Settings["build_type"],
			"compiler":   info.Settings["compiler"],
		},
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
