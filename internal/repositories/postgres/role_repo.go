package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rxlens/catalog/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository interface {
	// Upsert inserts (userID, role) or does nothing when it already exists.
	Upsert(ctx context.Context, userID string, role models.UserRole) error
	HasRole(ctx context.Context, userID string, role models.UserRole) (bool, error)
}

type roleRepo struct {
	db *gorm.DB
}

func NewRoleRepo(db *gorm.DB) RoleRepository {
	return &roleRepo{db: db}
}

func (r *roleRepo) Upsert(ctx context.Context, userID string, role models.UserRole) error {
	rec := &models.RoleRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "role"}},
			DoNothing: true,
		}).
		Create(rec).Error
}

func (r *roleRepo) HasRole(ctx context.Context, userID string, role models.UserRole) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RoleRecord{}).
		Where("user_id = ? AND role = ?", userID, role).
		Count(&count).Error
	return count > 0, err
}
