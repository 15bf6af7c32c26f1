package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
)

// Folders for the two kinds of student uploads.
const (
	FolderStudentPhotos     = "student_photos"
	FolderStudentSignatures = "student_signatures"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}

// BuildKey composes an object key under a logical folder, stamped so
// re-uploads never collide.
func BuildKey(folder string, ownerID int, ext string) string {
	return fmt.Sprintf("%s/%d_%d%s", folder, ownerID, time.Now().UnixNano(), ext)
}

// ExtensionFromContentType maps an image content type to a file
// extension for object keys.
func ExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			return "." + strings.Split(parts[1], "+")[0], nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: %q", contentType)
	}
}
