package services

import (
	"context"
	"strings"
	"time"

	"github.com/rxlens/catalog/config"
	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/signing"
	"github.com/rxlens/catalog/internal/utils"
)

// DefaultUploadFolder is used when the caller does not name a folder.
const DefaultUploadFolder = "products"

type SignatureService interface {
	Issue(ctx context.Context, folder string) (*models.UploadAuthorization, error)
}

type signatureService struct {
	creds config.Cloudinary
	now   func() time.Time
}

func NewSignatureService(creds config.Cloudinary, now func() time.Time) SignatureService {
	if now == nil {
		now = time.Now
	}
	return &signatureService{creds: creds, now: now}
}

// ResolveFolder applies the default folder to an empty request. Any other
// value is signed and returned exactly as given.
func ResolveFolder(folder string) string {
	if folder == "" {
		return DefaultUploadFolder
	}
	return folder
}

func (s *signatureService) Issue(_ context.Context, folder string) (*models.UploadAuthorization, error) {
	const op = "SignatureService.Issue"

	if missing := s.creds.Missing(); len(missing) > 0 {
		return nil, utils.E(utils.CodeMisconfigured, op, "Cloudinary is not configured",
			&MissingConfigError{Vars: missing})
	}

	resolved := ResolveFolder(folder)
	ts := s.now().Unix()

	return &models.UploadAuthorization{
		Timestamp: ts,
		Signature: signing.Sign(signing.UploadParams(resolved, ts), s.creds.APISecret),
		APIKey:    s.creds.APIKey,
		CloudName: s.creds.CloudName,
		Folder:    resolved,
	}, nil
}

// MissingConfigError names the unset variables for operator logs.
type MissingConfigError struct {
	Vars []string
}

func (e *MissingConfigError) Error() string {
	return "missing configuration: " + strings.Join(e.Vars, ", ")
}
