// Package imagestore keeps the uploaded notice images so confirmed records
// can link back to the original photo.
package imagestore

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Korixo/demolition-tracker/constants"
	"github.com/Korixo/demolition-tracker/internal/common"
)

// ImageStore writes an image and returns a URL under which it can be
// retrieved later.
type ImageStore interface {
	Put(ctx context.Context, contentType string, data []byte) (string, error)
}

// ValidatePayload checks an upload before it enters the pipeline and
// returns the sniffed content type.
func ValidatePayload(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("%w: empty image payload", common.ErrValidation)
	}
	if len(data) > constants.MaxImageBytes {
		return "", fmt.Errorf("%w: image exceeds %d bytes", common.ErrValidation, constants.MaxImageBytes)
	}
	contentType := http.DetectContentType(data)
	if !constants.IsImageContentType(contentType) {
		return "", fmt.Errorf("%w: unsupported content type %q", common.ErrValidation, contentType)
	}
	return contentType, nil
}

// ExtForContentType maps a sniffed content type to a storage extension.
func ExtForContentType(contentType string) string {
	switch {
	case strings.Contains(contentType, "png"):
		return ".png"
	case strings.Contains(contentType, "gif"):
		return ".gif"
	case strings.Contains(contentType, "webp"):
		return ".webp"
	default:
		return ".jpg"
	}
}
