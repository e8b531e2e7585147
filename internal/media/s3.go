package media

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

// S3Store uploads images to an S3 (or compatible) bucket under uploads/.
type S3Store struct {
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

// NewS3Store returns a store writing to bucket. When publicURL is set, returned URLs are
// built from it instead of the bucket endpoint.
func NewS3Store(client *s3.Client, bucket, publicURL string) (*S3Store, error) {
	if bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}
	return &S3Store{
		uploader:  manager.NewUploader(client),
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, obj Object) (*Result, error) {
	id := uuid.NewString()
	key := "uploads/" + id + strings.ToLower(filepath.Ext(obj.Name))

	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(obj.Data),
		ContentType: aws.String(obj.ContentType),
		ACL:         types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", key, err)
	}

	url := out.Location
	if s.publicURL != "" {
		url = s.publicURL + "/" + key
	}
	return &Result{
		FileID: key,
		Name:   obj.Name,
		URL:    url,
		Size:   int64(len(obj.Data)),
	}, nil
}
