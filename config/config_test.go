package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearCloudinaryEnv(t *testing.T) {
	for _, k := range []string{
		"CLOUDINARY_CLOUD_NAME", "CLOUD_NAME",
		"CLOUDINARY_API_KEY", "API_KEY",
		"CLOUDINARY_API_SECRET", "API_SECRET",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadCloudinary_PrimaryNames(t *testing.T) {
	clearCloudinaryEnv(t)
	t.Setenv("CLOUDINARY_CLOUD_NAME", "demo")
	t.Setenv("CLOUDINARY_API_KEY", "123")
	t.Setenv("CLOUDINARY_API_SECRET", "s3cr3t")
	t.Setenv("CLOUD_NAME", "ignored")

	c := LoadCloudinary()
	assert.Equal(t, Cloudinary{CloudName: "demo", APIKey: "123", APISecret: "s3cr3t"}, c)
	assert.True(t, c.Configured())
}

func TestLoadCloudinary_FallbackNames(t *testing.T) {
	clearCloudinaryEnv(t)
	t.Setenv("CLOUD_NAME", "demo")
	t.Setenv("API_KEY", "123")
	t.Setenv("API_SECRET", "s3cr3t")

	c := LoadCloudinary()
	assert.Equal(t, "demo", c.CloudName)
	assert.Equal(t, "123", c.APIKey)
	assert.Equal(t, "s3cr3t", c.APISecret)
}

func TestCloudinary_Missing(t *testing.T) {
	c := Cloudinary{CloudName: "demo"}
	assert.Equal(t, []string{"CLOUDINARY_API_KEY", "CLOUDINARY_API_SECRET"}, c.Missing())
	assert.False(t, c.Configured())
}

func TestLoadIdentity(t *testing.T) {
	t.Setenv("IDENTITY_MODE", "JWT")
	t.Setenv("SUPABASE_URL", "https://x.supabase.co/")
	t.Setenv("ADMIN_GRANT_TOKEN", "bootstrap")

	id := LoadIdentity()
	assert.Equal(t, IdentityModeJWT, id.Mode)
	assert.Equal(t, "https://x.supabase.co", id.SupabaseURL)
	assert.Equal(t, "bootstrap", id.AdminGrantToken)

	t.Setenv("IDENTITY_MODE", "")
	assert.Equal(t, IdentityModeSupabase, LoadIdentity().Mode)
}

func TestLoadServer_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("MEDIA_BACKEND", "")
	t.Setenv("CATALOG_CACHE_TTL", "bogus")
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	s := LoadServer()
	assert.Equal(t, "8080", s.Port)
	assert.Equal(t, MediaBackendCloudinary, s.MediaBackend)
	assert.Equal(t, 5*time.Minute, s.CatalogTTL)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, s.AllowedOrigins)
}

func TestRedisOptions(t *testing.T) {
	opt, err := redisOptions("redis://:pw@cache.internal:6380/2")
	assert.NoError(t, err)
	assert.Equal(t, "cache.internal:6380", opt.Addr)
	assert.Equal(t, "pw", opt.Password)
	assert.Equal(t, 2, opt.DB)

	opt, err = redisOptions("localhost:6379")
	assert.NoError(t, err)
	assert.Equal(t, "localhost:6379", opt.Addr)
}

func TestRedisKeyPrefix(t *testing.T) {
	t.Setenv("REDIS_KEY_PREFIX", "")
	assert.Equal(t, "rxcatalog:", RedisKeyPrefix())
	t.Setenv("REDIS_KEY_PREFIX", "staging:")
	assert.Equal(t, "staging:", RedisKeyPrefix())
}

func TestInitRedis_MissingAddr(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("REDIS_URI", "")
	t.Setenv("REDIS_URL", "")
	assert.Error(t, InitRedis(context.Background()))
}

func TestInitPostgres_MissingDSN(t *testing.T) {
	t.Setenv("POSTGRES_URI", "")
	t.Setenv("DATABASE_URL", "")
	assert.Error(t, InitPostgres(context.Background()))
}

func TestInitMongo_MissingURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	assert.Error(t, InitMongo(context.Background()))
}

func TestMongoClientOptions(t *testing.T) {
	t.Setenv("MONGO_CONNECT_TIMEOUT", "3s")
	opts := mongoClientOptions("mongodb://localhost:27017")
	if assert.NotNil(t, opts.ConnectTimeout) {
		assert.Equal(t, 3*time.Second, *opts.ConnectTimeout)
	}
	if assert.NotNil(t, opts.AppName) {
		assert.Equal(t, "rxcatalog", *opts.AppName)
	}
}

func TestIntEnv(t *testing.T) {
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "7")
	assert.Equal(t, 7, intEnv("POSTGRES_MAX_OPEN_CONNS", 20))
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "-1")
	assert.Equal(t, 20, intEnv("POSTGRES_MAX_OPEN_CONNS", 20))
}

func TestMongoDatabaseName(t *testing.T) {
	t.Setenv("MONGO_DB", "")
	assert.Equal(t, "rxcatalog", MongoDatabaseName())
}

func TestIdentity_Missing(t *testing.T) {
	assert.Equal(t, []string{"SUPABASE_URL", "SUPABASE_ANON_KEY"}, Identity{Mode: IdentityModeSupabase}.Missing())
	assert.Empty(t, Identity{Mode: IdentityModeSupabase, SupabaseURL: "https://x", SupabaseAnonKey: "anon"}.Missing())
	assert.Equal(t, []string{"SUPABASE_JWT_SECRET"}, Identity{Mode: IdentityModeJWT, SupabaseURL: "https://x"}.Missing())
	assert.Empty(t, Identity{Mode: IdentityModeJWT, JWTSecret: "s"}.Missing())
}

func TestLoadIdentity_BootstrapSecretKeepsWhitespace(t *testing.T) {
	t.Setenv("ADMIN_GRANT_TOKEN", " s3cr3t\t")
	assert.Equal(t, " s3cr3t\t", LoadIdentity().AdminGrantToken)
}
