package storage

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// MediaStorage defines contract for the asset storage provider (Cloudinary implementation).
type MediaStorage interface {
	// UploadImage uploads image from reader and returns the secure URL.
	// folder is optional logical folder in storage (e.g. "thumbnails").
	UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error)
	// UploadVideo uploads a video and returns its secure URL and the detected duration in seconds (0 if unknown).
	UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (*VideoAsset, error)
	// Delete removes an asset from storage using its URL.
	Delete(ctx context.Context, fileURL string) error
}

type VideoAsset struct {
	URL             string
	DurationSeconds int
}

type Options struct {
	CloudName string
	APIKey    string
	APISecret string
}

type cloudinaryStorage struct {
	cld *cloudinary.Cloudinary
}

// NewCloudinaryStorage creates Cloudinary-backed implementation of MediaStorage.
// With empty options it falls back to CLOUDINARY_URL from the environment.
func NewCloudinaryStorage(opts Options) (MediaStorage, error) {
	var (
		cld *cloudinary.Cloudinary
		err error
	)

	if opts.CloudName != "" && opts.APIKey != "" && opts.APISecret != "" {
		cld, err = cloudinary.NewFromParams(opts.CloudName, opts.APIKey, opts.APISecret)
	} else {
		cld, err = cloudinary.New()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary client: %w", err)
	}

	cld.Config.URL.Secure = true

	return &cloudinaryStorage{cld: cld}, nil
}

func (s *cloudinaryStorage) UploadImage(ctx context.Context, r io.Reader, folder, fileName string) (string, error) {
	params := s.baseParams(folder, fileName)

	ext := strings.ToLower(filepath.Ext(fileName))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".bmp", ".tiff", ".gif", ".webp":
		params.Format = "webp"
		params.Transformation = "q_auto"
	}

	resp, err := s.upload(ctx, r, params)
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (s *cloudinaryStorage) UploadVideo(ctx context.Context, r io.Reader, folder, fileName string) (*VideoAsset, error) {
	params := s.baseParams(folder, fileName)
	params.ResourceType = "video"

	resp, err := s.upload(ctx, r, params)
	if err != nil {
		return nil, err
	}

	return &VideoAsset{
		URL:             resp.SecureURL,
		DurationSeconds: durationFromRaw(resp.Response),
	}, nil
}

func (s *cloudinaryStorage) Delete(ctx context.Context, fileURL string) error {
	if s == nil || s.cld == nil {
		return fmt.Errorf("cloudinary storage is not initialized")
	}

	publicID, resourceType := extractPublicID(fileURL)
	if publicID == "" {
		return fmt.Errorf("could not extract public ID from URL: %s", fileURL)
	}

	params := uploader.DestroyParams{
		PublicID:     publicID,
		ResourceType: resourceType,
		Invalidate:   api.Bool(true),
	}

	resp, err := s.cld.Upload.Destroy(ctx, params)
	if err != nil {
		return fmt.Errorf("failed to delete asset from cloudinary: %w", err)
	}

	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("cloudinary destroy api returned result: %s", resp.Result)
	}

	return nil
}

func (s *cloudinaryStorage) baseParams(folder, fileName string) uploader.UploadParams {
	return uploader.UploadParams{
		Folder:         folder,
		UseFilename:    api.Bool(true),
		UniqueFilename: api.Bool(true),
		PublicID:       fmt.Sprintf("%d-%s", time.Now().UnixNano(), strings.TrimSuffix(fileName, filepath.Ext(fileName))),
		Overwrite:      api.Bool(false),
	}
}

func (s *cloudinaryStorage) upload(ctx context.Context, r io.Reader, params uploader.UploadParams) (*uploader.UploadResult, error) {
	if s == nil || s.cld == nil {
		return nil, fmt.Errorf("cloudinary storage is not initialized")
	}

	resp, err := s.cld.Upload.Upload(ctx, r, params)
	if err != nil {
		return nil, fmt.Errorf("failed to upload to cloudinary: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload rejected: %s", resp.Error.Message)
	}
	if resp.SecureURL == "" {
		return nil, fmt.Errorf("cloudinary upload succeeded but secure URL is empty")
	}
	return resp, nil
}

// durationFromRaw reads the "duration" attribute Cloudinary reports for video uploads.
func durationFromRaw(raw interface{}) int {
	fields, ok := raw.(map[string]interface{})
	if !ok {
		return 0
	}

	switch v := fields["duration"].(type) {
	case float64:
		if v > 0 {
			return int(math.Round(v))
		}
	case int:
		if v > 0 {
			return v
		}
	}
	return 0
}

// extractPublicID attempts to extract the public ID and resource type from a Cloudinary URL.
// Example: https://res.cloudinary.com/demo/video/upload/v123456789/folder/sample.mp4 -> folder/sample, video
func extractPublicID(fileURL string) (string, string) {
	u, err := url.Parse(fileURL)
	if err != nil {
		return "", ""
	}

	parts := strings.Split(u.Path, "/")
	uploadIndex := -1
	for i, p := range parts {
		if p == "upload" {
			uploadIndex = i
			break
		}
	}

	if uploadIndex == -1 || uploadIndex+1 >= len(parts) {
		return "", ""
	}

	resourceType := "image"
	if uploadIndex > 0 && parts[uploadIndex-1] != "" {
		resourceType = parts[uploadIndex-1]
	}

	relevantParts := parts[uploadIndex+1:]

	// versions look like v1699999999
	if len(relevantParts) > 1 && isVersionSegment(relevantParts[0]) {
		relevantParts = relevantParts[1:]
	}

	publicIDWithExt := strings.Join(relevantParts, "/")
	return strings.TrimSuffix(publicIDWithExt, filepath.Ext(publicIDWithExt)), resourceType
}

func isVersionSegment(s string) bool {
	if len(s) < 2 || s[0] != 'v' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
