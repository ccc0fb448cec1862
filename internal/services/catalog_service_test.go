package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rxlens/catalog/internal/cache"
	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalogFixture() (CatalogService, *fakeCatalogRepo, *fakeUploader) {
	repo := newFakeCatalogRepo()
	up := &fakeUploader{}
	svc := NewCatalogService(repo, cache.NewMemoryCache(32, time.Minute), up, time.Minute)
	return svc, repo, up
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "calciflex-tabs", Slugify("CalciFlex Tabs"))
	assert.Equal(t, "femcare-syrup-200ml", Slugify("  FemCare Syrup (200ml) "))
	assert.Equal(t, "", Slugify("***"))
}

func TestCatalog_SaveProduct(t *testing.T) {
	svc, repo, _ := newCatalogFixture()
	ctx := context.Background()

	p, err := svc.SaveProduct(ctx, SaveProductInput{
		Name:       "CalciFlex Tabs",
		CategoryID: "ortho",
		Images: []models.ProductImage{
			{Src: "https://res.cloudinary.com/demo/a.webp", Alt: "blister"},
			{Src: "https://res.cloudinary.com/demo/b.webp", Alt: "bottle"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "calciflex-tabs", p.ID)
	require.Len(t, p.Images, 2)
	assert.Equal(t, 0, p.Images[0].Position)
	assert.Equal(t, 1, p.Images[1].Position)
	assert.NotEmpty(t, p.Images[0].ID)
	assert.Len(t, repo.saved, 1)
}

func TestCatalog_SaveProduct_Validation(t *testing.T) {
	svc, _, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.SaveProduct(ctx, SaveProductInput{CategoryID: "ortho"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))

	_, err = svc.SaveProduct(ctx, SaveProductInput{Name: "X", CategoryID: "dental"})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	assert.Equal(t, "unknown category", utils.MessageOf(err))

	_, err = svc.SaveProduct(ctx, SaveProductInput{Name: "X", CategoryID: "ortho", Images: []models.ProductImage{{Alt: "no src"}}})
	assert.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestCatalog_ListProducts_CachedAndInvalidated(t *testing.T) {
	svc, repo, _ := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.SaveProduct(ctx, SaveProductInput{Name: "CalciFlex", CategoryID: "ortho"})
	require.NoError(t, err)

	out, err := svc.ListProducts(ctx, "ortho")
	require.NoError(t, err)
	assert.Len(t, out, 1)
	_, err = svc.ListProducts(ctx, "ortho")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listCalls, "second read served from cache")

	// moving the product drops both the old and the new category listings
	_, err = svc.SaveProduct(ctx, SaveProductInput{ID: "calciflex", Name: "CalciFlex", CategoryID: "gyne"})
	require.NoError(t, err)

	out, err = svc.ListProducts(ctx, "ortho")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, 2, repo.listCalls)
}

func TestCatalog_GetProduct_NotFound(t *testing.T) {
	svc, _, _ := newCatalogFixture()
	_, err := svc.GetProduct(context.Background(), "nope")
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestCatalog_AddImage(t *testing.T) {
	svc, repo, up := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.SaveProduct(ctx, SaveProductInput{Name: "NeuroPlus Tabs", CategoryID: "ortho"})
	require.NoError(t, err)

	img, err := svc.AddImage(ctx, "neuroplus-tabs", "Pack.WEBP", "image/webp", "", strings.NewReader("bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(up.objectName, "products/ortho/"))
	assert.True(t, strings.HasSuffix(up.objectName, ".webp"))
	assert.Equal(t, "bytes", up.body)
	assert.Equal(t, "NeuroPlus Tabs", img.Alt)
	assert.Equal(t, "https://cdn.example/"+up.objectName, img.Src)
	assert.Len(t, repo.added, 1)
}

func TestCatalog_AddImage_Errors(t *testing.T) {
	svc, _, up := newCatalogFixture()
	ctx := context.Background()

	_, err := svc.AddImage(ctx, "missing", "a.png", "image/png", "", strings.NewReader("x"))
	assert.True(t, utils.IsCode(err, utils.CodeNotFound))

	_, err = svc.SaveProduct(ctx, SaveProductInput{Name: "A", CategoryID: "ortho"})
	require.NoError(t, err)
	up.err = errors.New("bucket gone")
	_, err = svc.AddImage(ctx, "a", "a.png", "image/png", "", strings.NewReader("x"))
	assert.True(t, utils.IsCode(err, utils.CodeUpstream))

	noUploader := NewCatalogService(newFakeCatalogRepo(), nil, nil, time.Minute)
	_, err = noUploader.AddImage(ctx, "a", "a.png", "image/png", "", strings.NewReader("x"))
	assert.True(t, utils.IsCode(err, utils.CodeMisconfigured))
}

func TestCatalog_SaveProduct_UpdateKeepsCreatedAt(t *testing.T) {
	svc, repo, _ := newCatalogFixture()
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	repo.products["calciflex-tabs"] = models.Product{ID: "calciflex-tabs", Name: "CalciFlex", CategoryID: "ortho", CreatedAt: created, UpdatedAt: created}

	p, err := svc.SaveProduct(ctx, SaveProductInput{ID: "calciflex-tabs", Name: "CalciFlex Tabs", CategoryID: "ortho"})
	require.NoError(t, err)
	assert.True(t, p.CreatedAt.Equal(created), "got %v", p.CreatedAt)
	assert.True(t, p.UpdatedAt.After(created))
	assert.True(t, repo.products["calciflex-tabs"].CreatedAt.Equal(created))
}
