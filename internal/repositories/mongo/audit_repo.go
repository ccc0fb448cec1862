package mongo

import (
	"context"
	"time"

	"github.com/rxlens/catalog/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Insert(ctx context.Context, a *models.GrantAudit) error
	ListByUser(ctx context.Context, userID string, limit int64) ([]models.GrantAudit, error)
}

type auditRepo struct {
	col *mongo.Collection
	ttl time.Duration
}

func NewAuditRepo(db *mongo.Database, ttl time.Duration) AuditRepository {
	return &auditRepo{col: db.Collection("grant_audit"), ttl: ttl}
}

func (r *auditRepo) Insert(ctx context.Context, a *models.GrantAudit) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.ExpiresAt.IsZero() {
		a.ExpiresAt = a.CreatedAt.Add(r.ttl)
	}
	_, err := r.col.InsertOne(ctx, a)
	return err
}

func (r *auditRepo) ListByUser(ctx context.Context, userID string, limit int64) ([]models.GrantAudit, error) {
	if limit <= 0 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.GrantAudit
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
