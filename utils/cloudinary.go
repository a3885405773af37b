package utils

import (
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

func getCloudinaryInstance() (*cloudinary.Cloudinary, error) {
	return cloudinary.NewFromParams(
		os.Getenv("CLOUDINARY_CLOUD_NAME"),
		os.Getenv("CLOUDINARY_API_KEY"),
		os.Getenv("CLOUDINARY_API_SECRET"),
	)
}

// CloudinaryStore is the authoritative blob backend.
type CloudinaryStore struct{}

func (s *CloudinaryStore) Authoritative() bool { return true }

func (s *CloudinaryStore) Store(ctx context.Context, file multipart.File, header *multipart.FileHeader, folder string) (*StoredFile, error) {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	uploadResp, err := cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return nil, fmt.Errorf("upload error: %v", err)
	}

	return &StoredFile{
		URL: uploadResp.SecureURL,
		ID:  uploadResp.PublicID,
	}, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, id string) error {
	cld, err := getCloudinaryInstance()
	if err != nil {
		return fmt.Errorf("cloudinary config error: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err = cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: id,
	})
	if err != nil {
		return fmt.Errorf("delete error: %v", err)
	}

	return nil
}
