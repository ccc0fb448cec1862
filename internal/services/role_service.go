package services

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/rxlens/catalog/internal/identity"
	"github.com/rxlens/catalog/internal/models"
	pgrepo "github.com/rxlens/catalog/internal/repositories/postgres"
	"github.com/rxlens/catalog/internal/utils"
)

// GrantRequest is one attempt to self-elevate to admin.
type GrantRequest struct {
	Token         string // presented bootstrap secret
	Authorization string // caller's Authorization header, verified by the identity platform

	IP        string
	RequestID string
}

type RoleService interface {
	GrantAdmin(ctx context.Context, req GrantRequest) (*models.User, error)
	IsAdmin(ctx context.Context, userID string) (bool, error)
}

type roleService struct {
	roles     pgrepo.RoleRepository
	verifier  identity.Verifier
	audit     AuditService
	bootstrap string
}

// NewRoleService wires the admin grant flow. bootstrap is the shared secret
// (ADMIN_GRANT_TOKEN); an empty value makes every grant fail as misconfigured.
func NewRoleService(roles pgrepo.RoleRepository, verifier identity.Verifier, audit AuditService, bootstrap string) RoleService {
	if audit == nil {
		audit = NewAuditService(nil, nil)
	}
	return &roleService{roles: roles, verifier: verifier, audit: audit, bootstrap: bootstrap}
}

// GrantAdmin runs the checks in order and stops at the first failure:
// token present, secret configured, token matches, session valid.
// The secret is reusable; every call is gated on it, none consumes it.
func (s *roleService) GrantAdmin(ctx context.Context, req GrantRequest) (*models.User, error) {
	const op = "RoleService.GrantAdmin"

	entry := models.GrantAudit{IP: req.IP, RequestID: req.RequestID}
	fail := func(outcome models.GrantOutcome, err error) (*models.User, error) {
		entry.Outcome = outcome
		s.audit.Record(ctx, entry)
		return nil, err
	}

	if req.Token == "" {
		return fail(models.GrantMissingToken, utils.E(utils.CodeInvalidArgument, op, "Missing token", nil))
	}
	if s.bootstrap == "" {
		return fail(models.GrantMisconfigured, utils.E(utils.CodeMisconfigured, op, "Server misconfigured",
			&MissingConfigError{Vars: []string{"ADMIN_GRANT_TOKEN"}}))
	}
	if subtle.ConstantTimeCompare([]byte(req.Token), []byte(s.bootstrap)) != 1 {
		return fail(models.GrantInvalidToken, utils.E(utils.CodeForbidden, op, "Invalid token", nil))
	}

	if s.verifier == nil {
		return fail(models.GrantMisconfigured, utils.E(utils.CodeMisconfigured, op, "Server misconfigured", nil))
	}
	user, err := s.verifier.Verify(ctx, req.Authorization)
	if errors.Is(err, identity.ErrNotConfigured) {
		return fail(models.GrantMisconfigured, utils.E(utils.CodeMisconfigured, op, "Server misconfigured", err))
	}
	if err != nil || user == nil || user.ID == "" {
		return fail(models.GrantUnauthorized, utils.E(utils.CodeUnauthorized, op, "Unauthorized", err))
	}
	entry.UserID = user.ID

	if err := s.roles.Upsert(ctx, user.ID, models.RoleAdmin); err != nil {
		// the store's own message goes back to the caller
		return fail(models.GrantStoreError, utils.E(utils.CodeUpstream, op, err.Error(), err))
	}

	entry.Outcome = models.GrantGranted
	s.audit.Record(ctx, entry)
	return user, nil
}

func (s *roleService) IsAdmin(ctx context.Context, userID string) (bool, error) {
	const op = "RoleService.IsAdmin"

	if userID == "" {
		return false, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	ok, err := s.roles.HasRole(ctx, userID, models.RoleAdmin)
	if err != nil {
		return false, utils.E(utils.CodeUpstream, op, "failed to check role", err)
	}
	return ok, nil
}
