package texture

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// Source opens texture files by name
type Source interface {
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	String() string
}

// FileSource reads textures from a directory
type FileSource struct {
	Dir string
}

// NewFileSource creates a source rooted at dir
func NewFileSource(dir string) *FileSource {
	return &FileSource{Dir: dir}
}

func (s *FileSource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	return os.Open(filepath.Join(s.Dir, filepath.Clean("/"+name)))
}

func (s *FileSource) String() string {
	return "dir " + s.Dir
}

// ObjectGetter is the part of the S3 client used to fetch textures
type ObjectGetter interface {
	GetObjectWithContext(ctx aws.Context, input *s3.GetObjectInput, opts ...request.Option) (*s3.GetObjectOutput, error)
}

// S3Config holds the bucket settings of an S3Source
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Source reads textures from an S3 compatible bucket
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Source creates a session for the configured endpoint. Static
// credentials are used when an access key is set; otherwise the default
// AWS credential chain applies.
func NewS3Source(cfg S3Config) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 texture source needs a bucket")
	}

	awsCfg := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
		awsCfg.S3ForcePathStyle = aws.Bool(true)
	}
	if cfg.AccessKey != "" {
		awsCfg.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create s3 session: %v", err)
	}

	return NewS3SourceWithClient(s3.New(sess), cfg.Bucket, cfg.Prefix), nil
}

// NewS3SourceWithClient wraps an existing client
func NewS3SourceWithClient(client ObjectGetter, bucket, prefix string) *S3Source {
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Source) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	key := path.Join(s.prefix, name)
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %v", s.bucket, key, err)
	}
	return out.Body, nil
}

func (s *S3Source) String() string {
	return fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
}

// MemorySource serves textures from encoded bytes held in memory
type MemorySource map[string][]byte

func (m MemorySource) Open(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m[name]
	if !ok {
		return nil, fmt.Errorf("texture %s: %w", name, os.ErrNotExist)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m MemorySource) String() string {
	return "memory"
}
