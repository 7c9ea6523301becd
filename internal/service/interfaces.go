package service

import "context"

// ImageStorage accepts image bytes and a folder name and returns a publicly
// accessible URL. Implemented by ImageService; tests substitute fakes.
type ImageStorage interface {
	Upload(ctx context.Context, data []byte, folder, contentType string) (string, error)
}
