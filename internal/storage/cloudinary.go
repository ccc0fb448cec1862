package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/signing"
)

const DefaultCloudinaryAPI = "https://api.cloudinary.com"

// CloudinaryUploader pushes images server-side, signing each request with
// the account secret.
type CloudinaryUploader struct {
	cloudName string
	apiKey    string
	apiSecret string

	BaseURL string
	Client  *http.Client
	Now     func() time.Time
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) *CloudinaryUploader {
	return &CloudinaryUploader{
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		BaseURL:   DefaultCloudinaryAPI,
		Client:    &http.Client{Timeout: 60 * time.Second},
		Now:       time.Now,
	}
}

func (u *CloudinaryUploader) Upload(ctx context.Context, objectName string, contentType string, r io.Reader) (Object, error) {
	folder, publicID := splitObjectName(objectName)
	ts := strconv.FormatInt(u.Now().Unix(), 10)

	params := signing.Params{"folder": folder, "public_id": publicID, "timestamp": ts}
	fields := map[string]string{
		"api_key":   u.apiKey,
		"timestamp": ts,
		"signature": signing.Sign(params, u.apiSecret),
	}
	if folder != "" {
		fields["folder"] = folder
	}
	if publicID != "" {
		fields["public_id"] = publicID
	}
	return postCloudinary(ctx, u.Client, u.BaseURL, u.cloudName, fields, path.Base(objectName), contentType, r)
}

// UploadWithAuthorization uploads using a credential issued by the signature
// endpoint. Only folder and timestamp are signed, so no public_id is sent.
func UploadWithAuthorization(ctx context.Context, client *http.Client, baseURL string, auth models.UploadAuthorization, filename, contentType string, r io.Reader) (Object, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if baseURL == "" {
		baseURL = DefaultCloudinaryAPI
	}
	fields := map[string]string{
		"api_key":   auth.APIKey,
		"timestamp": strconv.FormatInt(auth.Timestamp, 10),
		"signature": auth.Signature,
	}
	if auth.Folder != "" {
		fields["folder"] = auth.Folder
	}
	return postCloudinary(ctx, client, baseURL, auth.CloudName, fields, filename, contentType, r)
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func postCloudinary(ctx context.Context, client *http.Client, baseURL, cloudName string, fields map[string]string, filename, contentType string, r io.Reader) (Object, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return Object{}, err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	if err != nil {
		return Object{}, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return Object{}, err
	}
	if err := mw.Close(); err != nil {
		return Object{}, err
	}

	endpoint := strings.TrimRight(baseURL, "/") + "/v1_1/" + cloudName + "/image/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return Object{}, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := client.Do(req)
	if err != nil {
		return Object{}, err
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return Object{}, fmt.Errorf("cloudinary: status %d: %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := http.StatusText(resp.StatusCode)
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		return Object{}, fmt.Errorf("cloudinary: status %d: %s", resp.StatusCode, msg)
	}
	return Object{URL: out.SecureURL, Key: out.PublicID}, nil
}
