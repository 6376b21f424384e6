package artifacts

import (
	"context"
	"errors"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/platinummonkey/xviz-recipe/pkg/requirements"
)

var (
	// ErrUploadFailed is returned when the archive cannot be stored
	ErrUploadFailed = errors.New("failed to upload package")

	// ErrAlreadyExists is returned when a package is present and Force is not set
	ErrAlreadyExists = errors.New("package already uploaded")

	// ErrNoFiles is returned when nothing matched the include patterns
	ErrNoFiles = errors.New("no files to upload")

	// ErrMissingBucket is returned when no bucket is configured
	ErrMissingBucket = errors.New("artifact bucket not configured")
)

// s3ClientAPI is the subset of the S3 client used by the manager
type s3ClientAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Config holds artifact manager configuration
type Config struct {
	Bucket string
	Prefix string
	Region string
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Prefix: "packages",
		Region: "us-east-1",
	}
}

// UploadRequest describes a folder to archive and upload
type UploadRequest struct {
	Ref requirements.Reference
	Dir string
	// Include limits the archive to matching relative paths. "dir/*" matches
	// everything below dir. Empty means every file.
	Include  []string
	Metadata map[string]string
	// Kind distinguishes archives of one reference, e.g. "package" or "sources"
	Kind  string
	Force bool
}

// UploadResult describes a stored archive
type UploadResult struct {
	Bucket         string
	Key            string
	Hash           string
	Files          int
	Size           int64
	CompressedSize int64
}
