package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStore uploads images to a Cloudinary folder.
type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	if cloudinaryURL == "" {
		return nil, fmt.Errorf("cloudinary url is required")
	}
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder}, nil
}

func (c *CloudinaryStore) Put(ctx context.Context, obj Object) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	overwrite := false
	res, err := c.cld.Upload.Upload(ctx, bytes.NewReader(obj.Data), uploader.UploadParams{
		Folder:       c.folder,
		PublicID:     "img_" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		ResourceType: "image",
		Overwrite:    &overwrite,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload failed: %w", err)
	}
	if res.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload failed: %s", res.Error.Message)
	}

	return &Result{
		FileID: res.PublicID,
		Name:   obj.Name,
		URL:    res.SecureURL,
		Size:   int64(res.Bytes),
		Width:  res.Width,
		Height: res.Height,
	}, nil
}
