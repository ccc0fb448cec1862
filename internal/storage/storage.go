package storage

import (
	"context"
	"io"
	"path"
	"strings"
)

// Object is what a media backend reports back after an upload.
type Object struct {
	URL string // publicly reachable URL
	Key string // backend-specific id (public_id, object name)
}

type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (Object, error)
}

// splitObjectName turns "products/ortho/abc.webp" into ("products/ortho", "abc").
func splitObjectName(objectName string) (folder, publicID string) {
	objectName = strings.Trim(objectName, "/")
	dir, file := path.Split(objectName)
	folder = strings.TrimSuffix(dir, "/")
	publicID = strings.TrimSuffix(file, path.Ext(file))
	return folder, publicID
}
