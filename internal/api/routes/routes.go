package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/rxlens/catalog/internal/api/handlers"
	"github.com/rxlens/catalog/internal/api/middleware"
	"github.com/rxlens/catalog/internal/identity"
)

type Deps struct {
	Signature  *handlers.SignatureHandler
	AdminGrant *handlers.AdminGrantHandler
	Roles      *handlers.RoleHandler
	Catalog    *handlers.CatalogHandler

	Verifier identity.Verifier
	Admins   middleware.AdminChecker
}

// RegisterRoutes mounts the API. CORS and request logging are expected to be
// installed on r beforehand so that pre-flight requests never reach a handler.
func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	api := r.Group("/api")

	// no Auth middleware here: grant-admin resolves the session itself,
	// after its token checks, so the check order stays observable
	api.POST("/cloudinary-signature", d.Signature.Issue)
	api.POST("/grant-admin", d.AdminGrant.Grant)

	api.GET("/categories", d.Catalog.Categories)
	api.GET("/products", d.Catalog.Products)
	api.GET("/products/:id", d.Catalog.Product)

	// Protected routes
	auth := api.Group("/")
	auth.Use(middleware.Auth(d.Verifier))
	auth.GET("/roles/me", d.Roles.Me)

	admin := api.Group("/admin")
	admin.Use(middleware.Auth(d.Verifier), middleware.RequireAdmin(d.Admins))
	admin.POST("/products", d.Catalog.SaveProduct)
	admin.POST("/products/:id/images", d.Catalog.UploadImage)
	admin.GET("/grant-audit/:user_id", d.Roles.GrantAudit)
}
