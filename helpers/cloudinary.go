package helpers

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// UploadOptions address a blob inside the storage provider. PublicID is a
// generated opaque key, never the client filename.
type UploadOptions struct {
	PublicID     string
	Folder       string
	ResourceType string
	Format       string
}

// UploadResult is what the provider reports back for a stored blob.
// Duration is in seconds and zero when the provider does not report one.
type UploadResult struct {
	PublicID  string
	SecureURL string
	Duration  float64
}

// FileStorage is the narrow surface of the object-storage provider. Delete
// failures are expected to be tolerated by callers.
type FileStorage interface {
	Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

// CloudinaryStorage implements FileStorage on Cloudinary. Audio files go up
// under the "video" resource type, which is Cloudinary's bucket for av media.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryStorage builds the client from explicit credentials.
func NewCloudinaryStorage(cloudName, apiKey, apiSecret string) (*CloudinaryStorage, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryStorage{client: cld}, nil
}

// NewCloudinaryStorageFromEnv reads CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY
// and CLOUDINARY_API_SECRET.
func NewCloudinaryStorageFromEnv() (*CloudinaryStorage, error) {
	return NewCloudinaryStorage(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

func (s *CloudinaryStorage) Upload(ctx context.Context, file io.Reader, opts UploadOptions) (*UploadResult, error) {
	uploadResult, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		PublicID:     opts.PublicID,
		Folder:       opts.Folder,
		ResourceType: opts.ResourceType,
		Format:       opts.Format,
	})
	if err != nil {
		log.Println("❌ [cloudinary] Upload error:", err)
		return nil, err
	}

	// The Go SDK's upload result carries no duration, so it stays zero and
	// the song record keeps its duration unset.
	return &UploadResult{
		PublicID:  uploadResult.PublicID,
		SecureURL: uploadResult.SecureURL,
	}, nil
}

func (s *CloudinaryStorage) Delete(ctx context.Context, publicID string) error {
	result, err := s.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: "video",
	})
	if err != nil {
		return err
	}
	if result.Result != "ok" && result.Result != "not found" {
		return fmt.Errorf("cloudinary destroy %s: %s", publicID, result.Result)
	}
	return nil
}
