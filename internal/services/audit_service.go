package services

import (
	"context"
	"time"

	"github.com/rxlens/catalog/internal/models"
	mongorepo "github.com/rxlens/catalog/internal/repositories/mongo"
	"github.com/rxlens/catalog/internal/utils"
	"github.com/sirupsen/logrus"
)

type AuditService interface {
	// Record stores a grant attempt. Failures are logged and swallowed.
	Record(ctx context.Context, a models.GrantAudit)
	ListByUser(ctx context.Context, userID string) ([]models.GrantAudit, error)
}

type auditService struct {
	repo mongorepo.AuditRepository
	log  *logrus.Logger
}

// NewAuditService returns a recorder backed by repo. A nil repo disables the
// audit trail.
func NewAuditService(repo mongorepo.AuditRepository, log *logrus.Logger) AuditService {
	if log == nil {
		log = logrus.New()
	}
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Record(ctx context.Context, a models.GrantAudit) {
	if s.repo == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.repo.Insert(ctx, &a); err != nil {
		s.log.WithFields(logrus.Fields{
			"outcome":    a.Outcome,
			"user_id":    a.UserID,
			"request_id": a.RequestID,
		}).WithError(err).Warn("grant audit insert failed")
	}
}

func (s *auditService) ListByUser(ctx context.Context, userID string) ([]models.GrantAudit, error) {
	const op = "AuditService.ListByUser"

	if userID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "user_id is required", nil)
	}
	if s.repo == nil {
		return []models.GrantAudit{}, nil
	}
	out, err := s.repo.ListByUser(ctx, userID, 50)
	if err != nil {
		return nil, utils.E(utils.CodeUnavailable, op, "failed to read audit trail", err)
	}
	return out, nil
}
