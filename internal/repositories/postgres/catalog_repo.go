package postgres

import (
	"context"
	"errors"

	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CatalogRepository interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CategoryExists(ctx context.Context, id string) (bool, error)
	ListProducts(ctx context.Context, categoryID string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	// SaveProduct upserts the product row and replaces its image list.
	SaveProduct(ctx context.Context, p *models.Product) error
	AddImage(ctx context.Context, img *models.ProductImage) error
}

type catalogRepo struct {
	db *gorm.DB
}

func NewCatalogRepo(db *gorm.DB) CatalogRepository {
	return &catalogRepo{db: db}
}

func (r *catalogRepo) ListCategories(ctx context.Context) ([]models.Category, error) {
	var out []models.Category
	err := r.db.WithContext(ctx).
		Order("position ASC, id ASC").
		Find(&out).Error
	return out, err
}

func (r *catalogRepo) CategoryExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", id).
		Count(&count).Error
	return count > 0, err
}

func (r *catalogRepo) ListProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	q := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Order("name ASC")
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	var out []models.Product
	err := q.Find(&out).Error
	return out, err
}

func (r *catalogRepo) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Where("id = ?", id).
		Take(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &p, err
}

func (r *catalogRepo) SaveProduct(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		images := p.Images
		err := tx.Omit("Images").
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "category_id", "description", "tags", "attributes", "updated_at"}),
			}).
			Create(p).Error
		if err != nil {
			return err
		}

		if err := tx.Where("product_id = ?", p.ID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if len(images) == 0 {
			return nil
		}
		for i := range images {
			images[i].ProductID = p.ID
		}
		return tx.Create(&images).Error
	})
}

func (r *catalogRepo) AddImage(ctx context.Context, img *models.ProductImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var next int
		err := tx.Model(&models.ProductImage{}).
			Where("product_id = ?", img.ProductID).
			Select("COALESCE(MAX(position), -1) + 1").
			Scan(&next).Error
		if err != nil {
			return err
		}
		img.Position = next
		return tx.Create(img).Error
	})
}
