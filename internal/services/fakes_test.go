package services

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/rxlens/catalog/internal/identity"
	"github.com/rxlens/catalog/internal/models"
	"github.com/rxlens/catalog/internal/storage"
	"github.com/rxlens/catalog/internal/utils"
)

// fakeRoleRepo mimics the UNIQUE(user_id, role) constraint of user_roles.
type fakeRoleRepo struct {
	mu      sync.Mutex
	rows    map[[2]string]int
	upserts int
	err     error
}

func newFakeRoleRepo() *fakeRoleRepo {
	return &fakeRoleRepo{rows: map[[2]string]int{}}
}

func (f *fakeRoleRepo) Upsert(_ context.Context, userID string, role models.UserRole) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.err != nil {
		return f.err
	}
	k := [2]string{userID, string(role)}
	if _, ok := f.rows[k]; !ok {
		f.rows[k] = 1
	}
	return nil
}

func (f *fakeRoleRepo) HasRole(_ context.Context, userID string, role models.UserRole) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	_, ok := f.rows[[2]string{userID, string(role)}]
	return ok, nil
}

func (f *fakeRoleRepo) count(userID string, role models.UserRole) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rows[[2]string{userID, string(role)}]
}

type fakeVerifier struct {
	users map[string]string // authorization header -> user id
	calls int
	mu    sync.Mutex
}

func (v *fakeVerifier) Verify(_ context.Context, authorization string) (*models.User, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	if _, err := identity.BearerToken(authorization); err != nil {
		return nil, err
	}
	id, ok := v.users[authorization]
	if !ok {
		return nil, identity.ErrInvalidSession
	}
	return &models.User{ID: id}, nil
}

type fakeAuditRepo struct {
	mu   sync.Mutex
	rows []models.GrantAudit
	err  error
}

func (f *fakeAuditRepo) Insert(_ context.Context, a *models.GrantAudit) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, *a)
	return nil
}

func (f *fakeAuditRepo) ListByUser(_ context.Context, userID string, _ int64) ([]models.GrantAudit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.GrantAudit
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, f.err
}

func (f *fakeAuditRepo) outcomes() []models.GrantOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.GrantOutcome, 0, len(f.rows))
	for _, r := range f.rows {
		out = append(out, r.Outcome)
	}
	return out
}

type fakeCatalogRepo struct {
	categories []models.Category
	products   map[string]models.Product
	listCalls  int
	saved      []models.Product
	added      []models.ProductImage
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		categories: []models.Category{{ID: "ortho", Name: "Ortho", Position: 1}, {ID: "gyne", Name: "Gyne", Position: 2}},
		products:   map[string]models.Product{},
	}
}

func (f *fakeCatalogRepo) ListCategories(context.Context) ([]models.Category, error) {
	return f.categories, nil
}

func (f *fakeCatalogRepo) CategoryExists(_ context.Context, id string) (bool, error) {
	for _, c := range f.categories {
		if c.ID == id {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCatalogRepo) ListProducts(_ context.Context, categoryID string) ([]models.Product, error) {
	f.listCalls++
	var out []models.Product
	for _, p := range f.products {
		if categoryID == "" || p.CategoryID == categoryID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCatalogRepo) GetProduct(_ context.Context, id string) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, utils.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalogRepo) SaveProduct(_ context.Context, p *models.Product) error {
	f.products[p.ID] = *p
	f.saved = append(f.saved, *p)
	return nil
}

func (f *fakeCatalogRepo) AddImage(_ context.Context, img *models.ProductImage) error {
	p := f.products[img.ProductID]
	img.Position = len(p.Images)
	p.Images = append(p.Images, *img)
	f.products[img.ProductID] = p
	f.added = append(f.added, *img)
	return nil
}

type fakeUploader struct {
	objectName  string
	contentType string
	body        string
	err         error
}

func (u *fakeUploader) Upload(_ context.Context, objectName, contentType string, r io.Reader) (storage.Object, error) {
	if u.err != nil {
		return storage.Object{}, u.err
	}
	b, _ := io.ReadAll(r)
	u.objectName, u.contentType, u.body = objectName, contentType, string(b)
	return storage.Object{URL: "https://cdn.example/" + objectName, Key: objectName}, nil
}
