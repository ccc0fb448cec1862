package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rxlens/catalog/config"
	"github.com/rxlens/catalog/internal/api/handlers"
	"github.com/rxlens/catalog/internal/api/middleware"
	"github.com/rxlens/catalog/internal/api/routes"
	"github.com/rxlens/catalog/internal/cache"
	"github.com/rxlens/catalog/internal/identity"
	"github.com/rxlens/catalog/internal/logger"
	"github.com/rxlens/catalog/internal/migrations"
	mongorepo "github.com/rxlens/catalog/internal/repositories/mongo"
	pgrepo "github.com/rxlens/catalog/internal/repositories/postgres"
	"github.com/rxlens/catalog/internal/services"
	"github.com/rxlens/catalog/internal/storage"
)

func main() {
	_ = godotenv.Load()

	l := logger.New()
	srv := config.LoadServer()
	idCfg := config.LoadIdentity()
	cld := config.LoadCloudinary()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Init PostgreSQL
	if err := config.InitPostgres(ctx); err != nil {
		l.WithError(err).Fatal("PostgreSQL init error")
	}
	sqlDB, err := config.PostgresDB.DB()
	if err != nil {
		l.WithError(err).Fatal("PostgreSQL pool error")
	}
	if err := migrations.Run(ctx, sqlDB); err != nil {
		l.WithError(err).Fatal("migrations failed")
	}
	l.Info("PostgreSQL connected")

	// Init Redis (optional)
	var c cache.Cache
	if err := config.InitRedis(ctx); err != nil {
		l.WithError(err).Warn("Redis unavailable, using in-process catalog cache")
		c = cache.NewMemoryCache(512, srv.CatalogTTL)
	} else {
		l.Info("Redis connected")
		c = cache.NewRedisCache(config.RedisClient, config.RedisKeyPrefix())
	}

	// Init MongoDB (optional, grant audit trail)
	var auditRepo mongorepo.AuditRepository
	if err := config.InitMongo(ctx); err != nil {
		l.WithError(err).Warn("MongoDB unavailable, grant audit disabled")
	} else {
		if err := config.EnsureMongoIndexes(ctx); err != nil {
			l.WithError(err).Warn("MongoDB index setup failed")
		}
		auditRepo = mongorepo.NewAuditRepo(config.MongoClient.Database(config.MongoDatabaseName()), srv.AuditTTL)
		l.Info("MongoDB connected")
	}

	if missing := cld.Missing(); len(missing) > 0 {
		l.WithField("missing", missing).Warn("Cloudinary not configured; signature endpoint will return errors")
	}
	if missing := idCfg.Missing(); len(missing) > 0 {
		l.WithField("missing", missing).Error("identity platform not configured; authenticated routes and grant-admin will report server misconfigured")
	}
	if idCfg.AdminGrantToken == "" {
		l.Warn("ADMIN_GRANT_TOKEN is not set; grant-admin will report server misconfigured")
	}

	uploader, err := newUploader(ctx, srv, cld)
	if err != nil {
		l.WithError(err).Warn("media backend unavailable; server-side image upload disabled")
	}

	verifier := newVerifier(idCfg)

	audit := services.NewAuditService(auditRepo, l)
	roleSvc := services.NewRoleService(pgrepo.NewRoleRepo(config.PostgresDB), verifier, audit, idCfg.AdminGrantToken)
	sigSvc := services.NewSignatureService(cld, time.Now)
	catSvc := services.NewCatalogService(pgrepo.NewCatalogRepo(config.PostgresDB), c, uploader, srv.CatalogTTL)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(srv.AllowedOrigins), middleware.RequestLogger(l))
	routes.RegisterRoutes(r, routes.Deps{
		Signature:  handlers.NewSignatureHandler(sigSvc, l),
		AdminGrant: handlers.NewAdminGrantHandler(roleSvc, l),
		Roles:      handlers.NewRoleHandler(roleSvc, audit),
		Catalog:    handlers.NewCatalogHandler(catSvc),
		Verifier:   verifier,
		Admins:     roleSvc,
	})

	httpSrv := &http.Server{
		Addr:              ":" + srv.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = httpSrv.Shutdown(shutdownCtx)
	}()

	l.WithField("port", srv.Port).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		l.WithError(err).Fatal("server error")
	}
}

func newVerifier(cfg config.Identity) identity.Verifier {
	if cfg.Mode == config.IdentityModeJWT {
		return identity.NewJWTVerifier(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)
	}
	return identity.NewSupabaseVerifier(cfg.SupabaseURL, cfg.SupabaseAnonKey, nil)
}

// newUploader returns a nil Uploader (and an error) when the selected backend
// cannot be built; the rest of the API keeps working.
func newUploader(ctx context.Context, srv config.Server, cld config.Cloudinary) (storage.Uploader, error) {
	switch srv.MediaBackend {
	case config.MediaBackendGCS:
		if srv.GCSBucket == "" {
			return nil, errMissing("GCS_BUCKET")
		}
		u, err := storage.NewGCSUploader(ctx, srv.GCSBucket)
		if err != nil {
			return nil, err
		}
		u.ObjectACL = srv.GCSObjectACL
		return u, nil
	case config.MediaBackendS3:
		if srv.S3Bucket == "" {
			return nil, errMissing("S3_BUCKET")
		}
		u, err := storage.NewS3Uploader(ctx, storage.S3Options{
			Bucket:    srv.S3Bucket,
			Region:    srv.S3Region,
			Endpoint:  srv.S3Endpoint,
			AccessKey: srv.S3AccessKey,
			SecretKey: srv.S3SecretKey,
			PublicURL: srv.S3PublicURL,
		})
		if err != nil {
			return nil, err
		}
		return u, nil
	default:
		if !cld.Configured() {
			return nil, &services.MissingConfigError{Vars: cld.Missing()}
		}
		return storage.NewCloudinaryUploader(cld.CloudName, cld.APIKey, cld.APISecret), nil
	}
}

func errMissing(name string) error {
	return &services.MissingConfigError{Vars: []string{name}}
}
