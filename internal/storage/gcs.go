package storage

import (
	"context"
	"io"
	"net/url"
	"strings"

	gcs "cloud.google.com/go/storage"
)

// GCSUploader writes catalog images to a bucket. Credentials come from the
// ambient Google application default credentials.
type GCSUploader struct {
	client *gcs.Client
	bucket string

	// ObjectACL grants allUsers read on each object. Leave it off for buckets
	// with uniform bucket-level access, where object ACL calls are rejected.
	ObjectACL bool
}

func NewGCSUploader(ctx context.Context, bucket string) (*GCSUploader, error) {
	c, err := gcs.NewClient(ctx)
	if err != nil {
		return nil, err
	}
	return &GCSUploader{client: c, bucket: bucket}, nil
}

func (u *GCSUploader) Close() error { return u.client.Close() }

func (u *GCSUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (Object, error) {
	obj := u.client.Bucket(u.bucket).Object(objectName)

	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "public, max-age=31536000, immutable"

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return Object{}, err
	}
	if err := w.Close(); err != nil {
		return Object{}, err
	}

	if u.ObjectACL {
		if err := obj.ACL().Set(ctx, gcs.AllUsers, gcs.RoleReader); err != nil {
			return Object{}, err
		}
	}
	return Object{URL: gcsPublicURL(u.bucket, objectName), Key: objectName}, nil
}

func gcsPublicURL(bucket, objectName string) string {
	segs := strings.Split(objectName, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return "https://storage.googleapis.com/" + bucket + "/" + strings.Join(segs, "/")
}
