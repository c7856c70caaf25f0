package feed

import (
	"context"
	"fmt"
)

// maxImageBytes caps uploads at 5 MB
const maxImageBytes = 5 << 20

// UploadImage stores raw image bytes with the image host and returns
// the public URL for use in a later post creation
func (s *Service) UploadImage(ctx context.Context, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty image")
	}
	if len(data) > maxImageBytes {
		return "", fmt.Errorf("image exceeds %d bytes", maxImageBytes)
	}
	return s.storage.Upload(ctx, data)
}
