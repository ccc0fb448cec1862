package services

import (
	"context"
	"errors"
	"io"
	"mime"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rxlens/catalog/internal/cache"
	"github.com/rxlens/catalog/internal/models"
	pgrepo "github.com/rxlens/catalog/internal/repositories/postgres"
	"github.com/rxlens/catalog/internal/storage"
	"github.com/rxlens/catalog/internal/utils"
	"gorm.io/datatypes"
)

const (
	keyCategories     = "catalog:categories"
	keyProductsPrefix = "catalog:products:"
)

type SaveProductInput struct {
	ID          string
	Name        string
	CategoryID  string
	Description string
	Tags        []string
	Attributes  datatypes.JSON
	Images      []models.ProductImage
}

type CatalogService interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	ListProducts(ctx context.Context, categoryID string) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	SaveProduct(ctx context.Context, in SaveProductInput) (*models.Product, error)
	AddImage(ctx context.Context, productID, fileName, contentType, alt string, r io.Reader) (*models.ProductImage, error)
}

type catalogService struct {
	repo     pgrepo.CatalogRepository
	cache    cache.Cache
	uploader storage.Uploader
	ttl      time.Duration
}

func NewCatalogService(repo pgrepo.CatalogRepository, c cache.Cache, uploader storage.Uploader, ttl time.Duration) CatalogService {
	return &catalogService{repo: repo, cache: c, uploader: uploader, ttl: ttl}
}

func (s *catalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	const op = "CatalogService.ListCategories"

	var out []models.Category
	if s.cached(ctx, keyCategories, &out) {
		return out, nil
	}
	out, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list categories", err)
	}
	s.store(ctx, keyCategories, out)
	return out, nil
}

func (s *catalogService) ListProducts(ctx context.Context, categoryID string) ([]models.Product, error) {
	const op = "CatalogService.ListProducts"

	key := productsKey(categoryID)
	var out []models.Product
	if s.cached(ctx, key, &out) {
		return out, nil
	}
	out, err := s.repo.ListProducts(ctx, categoryID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to list products", err)
	}
	if out == nil {
		out = []models.Product{}
	}
	s.store(ctx, key, out)
	return out, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	const op = "CatalogService.GetProduct"

	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "product id is required", nil)
	}
	p, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, utils.E(utils.CodeNotFound, op, "product not found", err)
		}
		return nil, utils.E(utils.CodeInternal, op, "failed to get product", err)
	}
	return p, nil
}

func (s *catalogService) SaveProduct(ctx context.Context, in SaveProductInput) (*models.Product, error) {
	const op = "CatalogService.SaveProduct"

	name := strings.TrimSpace(in.Name)
	if name == "" || in.CategoryID == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "name and categoryId are required", nil)
	}
	id := in.ID
	if id == "" {
		id = Slugify(name)
	}
	if id == "" {
		return nil, utils.E(utils.CodeInvalidArgument, op, "cannot derive product id from name", nil)
	}

	ok, err := s.repo.CategoryExists(ctx, in.CategoryID)
	if err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to check category", err)
	}
	if !ok {
		return nil, utils.E(utils.CodeInvalidArgument, op, "unknown category", nil)
	}

	now := time.Now().UTC()
	createdAt := now
	// remember the previous category so its cached listing is dropped too
	var prevCategory string
	if prev, err := s.repo.GetProduct(ctx, id); err == nil {
		prevCategory = prev.CategoryID
		createdAt = prev.CreatedAt
	} else if !errors.Is(err, utils.ErrNotFound) {
		return nil, utils.E(utils.CodeInternal, op, "failed to load product", err)
	}

	p := &models.Product{
		ID:          id,
		Name:        name,
		CategoryID:  in.CategoryID,
		Description: strings.TrimSpace(in.Description),
		Tags:        in.Tags,
		Attributes:  in.Attributes,
		CreatedAt:   createdAt,
		UpdatedAt:   now,
	}
	for i, img := range in.Images {
		if strings.TrimSpace(img.Src) == "" {
			return nil, utils.E(utils.CodeInvalidArgument, op, "image src is required", nil)
		}
		img.ID = uuid.NewString()
		img.ProductID = id
		img.Position = i
		p.Images = append(p.Images, img)
	}

	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to save product", err)
	}
	s.invalidate(ctx, in.CategoryID, prevCategory)
	if p.Images == nil {
		p.Images = []models.ProductImage{}
	}
	return p, nil
}

func (s *catalogService) AddImage(ctx context.Context, productID, fileName, contentType, alt string, r io.Reader) (*models.ProductImage, error) {
	const op = "CatalogService.AddImage"

	if s.uploader == nil {
		return nil, utils.E(utils.CodeMisconfigured, op, "media backend is not configured", nil)
	}
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" {
		if exts, _ := mime.ExtensionsByType(contentType); len(exts) > 0 {
			ext = exts[0]
		}
	}
	objectName := DefaultUploadFolder + "/" + p.CategoryID + "/" + uuid.NewString() + ext

	obj, err := s.uploader.Upload(ctx, objectName, contentType, r)
	if err != nil {
		return nil, utils.E(utils.CodeUpstream, op, "failed to upload image", err)
	}

	if alt == "" {
		alt = p.Name
	}
	img := &models.ProductImage{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Src:       obj.URL,
		Alt:       alt,
		PublicID:  obj.Key,
	}
	if err := s.repo.AddImage(ctx, img); err != nil {
		return nil, utils.E(utils.CodeInternal, op, "failed to persist image", err)
	}
	s.invalidate(ctx, p.CategoryID)
	return img, nil
}

func (s *catalogService) cached(ctx context.Context, key string, dst any) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.GetJSON(ctx, key, dst)
	return err == nil && hit
}

func (s *catalogService) store(ctx context.Context, key string, val any) {
	if s.cache == nil {
		return
	}
	_ = s.cache.SetJSON(ctx, key, val, s.ttl)
}

func (s *catalogService) invalidate(ctx context.Context, categoryIDs ...string) {
	if s.cache == nil {
		return
	}
	keys := []string{productsKey("")}
	for _, c := range categoryIDs {
		if c != "" {
			keys = append(keys, productsKey(c))
		}
	}
	_ = s.cache.Del(ctx, keys...)
}

func productsKey(categoryID string) string {
	if categoryID == "" {
		return keyProductsPrefix + "all"
	}
	return keyProductsPrefix + categoryID
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns "CalciFlex Tabs" into "calciflex-tabs".
func Slugify(name string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(name), "-"), "-")
}
