package avatar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// Putter is the part of the S3 client the store needs.
type Putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads avatars to a bucket under avatars/<owner>/.
type S3Store struct {
	client    Putter
	bucket    string
	publicURL string
}

// NewS3Store loads the default AWS credential chain for region.
// publicURL is the base under which uploaded keys are served; when empty
// the bucket's virtual-hosted URL is used.
func NewS3Store(ctx context.Context, bucket, region, publicURL string) (*S3Store, error) {
	if bucket == "" {
		return nil, errors.New("missing S3 bucket")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return NewWithClient(s3.NewFromConfig(cfg), bucket, publicURL), nil
}

func NewWithClient(client Putter, bucket, publicURL string) *S3Store {
	return &S3Store{client: client, bucket: bucket, publicURL: strings.TrimRight(publicURL, "/")}
}

// Upload stores body as a new public object under a fresh key and returns
// its URL.
func (s *S3Store) Upload(ctx context.Context, ownerID, contentType string, body io.Reader) (string, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("read avatar: %w", err)
	}
	key := objectKey(ownerID, contentType)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		ACL:         s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return "", fmt.Errorf("upload avatar to S3: %w", err)
	}
	slog.InfoContext(ctx, "Uploaded avatar", "owner_id", ownerID, "key", key, "size", len(data))
	return s.publicURL + "/" + key, nil
}

func objectKey(ownerID, contentType string) string {
	return fmt.Sprintf("avatars/%s/%s%s", ownerID, uuid.NewString(), extension(contentType))
}

func extension(contentType string) string {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	switch mediaType {
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	if exts, _ := mime.ExtensionsByType(mediaType); len(exts) > 0 {
		return exts[0]
	}
	return ""
}
