package artifacts

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Manager uploads package folders to S3 as tar.gz archives
type S3Manager struct {
	client s3ClientAPI
	config *Config
}

// NewS3Manager creates a manager using the default AWS credential chain
func NewS3Manager(ctx context.Context, cfg *Config) (*S3Manager, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Manager{client: s3.NewFromConfig(awsCfg), config: cfg}, nil
}

// Key returns the object key of an archive
func (m *S3Manager) Key(req *UploadRequest) string {
	kind := req.Kind
	if kind == "" {
		kind = "package"
	}
	ref := req.Ref
	parts := []string{m.config.Prefix, ref.Name, ref.Version}
	if ref.User != "" {
		parts = append(parts, ref.User, ref.Channel)
	}
	parts = append(parts, kind+".tar.gz")
	return strings.TrimPrefix(path.Join(parts...), "/")
}

// Exists reports whether the object is already present
func (m *S3Manager) Exists(ctx context.Context, key string) (bool, error) {
	_, err := m.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(m.config.Bucket),
		Key:    aws.String(key),
	})
	if err == nil {
		return true, nil
	}
	var notFound *types.NotFound
	if errors.As(err, &notFound) {
		return false, nil
	}
	return false, fmt.Errorf("failed to check %s: %w", key, err)
}

// Upload archives req.Dir and stores it
func (m *S3Manager) Upload(ctx context.Context, req *UploadRequest) (*UploadResult, error) {
	if req == nil {
		return nil, fmt.Errorf("upload request cannot be nil")
	}
	key := m.Key(req)

	if !req.Force {
		exists, err := m.Exists(ctx, key)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, fmt.Errorf("%w: s3://%s/%s", ErrAlreadyExists, m.config.Bucket, key)
		}
	}

	files, err := collect(req.Dir, req.Include)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, req.Dir)
	}

	compressed, hash, size, err := compress(req.Dir, files)
	if err != nil {
		return nil, fmt.Errorf("failed to compress files: %w", err)
	}

	metadata := map[string]string{"reference": req.Ref.String(), "sha256": hash}
	for k, v := range req.Metadata {
		metadata[k] = v
	}

	_, err = m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.config.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(compressed),
		ContentType: aws.String("application/gzip"),
		Metadata:    metadata,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}

	return &UploadResult{
		Bucket:         m.config.Bucket,
		Key:            key,
		Hash:           hash,
		Files:          len(files),
		Size:           size,
		CompressedSize: int64(len(compressed)),
	}, nil
}

// collect returns the slash-separated relative paths of files below dir
// that match include, sorted
func collect(dir string, include []string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if matches(rel, include) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	sort.Strings(files)
	return files, nil
}

func matches(rel string, include []string) bool {
	if len(include) == 0 {
		return true
	}
	for _, pattern := range include {
		if prefix, ok := strings.CutSuffix(pattern, "/*"); ok {
			if strings.HasPrefix(rel, prefix+"/") {
				return true
			}
			continue
		}
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// compress writes files into a tar.gz with fixed headers so equal trees
// produce equal archives
func compress(dir string, files []string) ([]byte, string, int64, error) {
	var buf bytes.Buffer
	hasher := sha256.New()

	gzWriter := gzip.NewWriter(io.MultiWriter(&buf, hasher))
	tarWriter := tar.NewWriter(gzWriter)

	var totalSize int64
	for _, rel := range files {
		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(rel)))
		if err != nil {
			return nil, "", 0, err
		}
		header := &tar.Header{
			Name:     rel,
			Mode:     0o644,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return nil, "", 0, err
		}
		if _, err := tarWriter.Write(content); err != nil {
			return nil, "", 0, err
		}
		totalSize += int64(len(content))
	}

	if err := tarWriter.Close(); err != nil {
		return nil, "", 0, err
	}
	if err := gzWriter.Close(); err != nil {
		return nil, "", 0, err
	}

	return buf.Bytes(), hex.EncodeToString(hasher.Sum(nil)), totalSize, nil
}
