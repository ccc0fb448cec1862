package config

import "time"

const (
	MediaBackendCloudinary = "cloudinary"
	MediaBackendGCS        = "gcs"
	MediaBackendS3         = "s3"
)

type Server struct {
	Port           string
	AllowedOrigins []string // empty means "*"
	CatalogTTL     time.Duration
	AuditTTL       time.Duration

	MediaBackend string
	GCSBucket    string
	GCSObjectACL bool

	S3Bucket    string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3SecretKey string
	S3PublicURL string
}

func LoadServer() Server {
	port := firstEnv("PORT")
	if port == "" {
		port = "8080"
	}
	backend := firstEnv("MEDIA_BACKEND")
	if backend == "" {
		backend = MediaBackendCloudinary
	}
	region := firstEnv("S3_REGION", "AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}
	return Server{
		Port:           port,
		AllowedOrigins: listEnv("CORS_ALLOWED_ORIGINS"),
		CatalogTTL:     durationEnv("CATALOG_CACHE_TTL", 5*time.Minute),
		AuditTTL:       durationEnv("GRANT_AUDIT_TTL", 90*24*time.Hour),

		MediaBackend: backend,
		GCSBucket:    firstEnv("GCS_BUCKET"),
		GCSObjectACL: firstEnv("GCS_OBJECT_ACL") == "public",

		S3Bucket:    firstEnv("S3_BUCKET"),
		S3Region:    region,
		S3Endpoint:  firstEnv("S3_ENDPOINT"),
		S3AccessKey: firstEnv("S3_ACCESS_KEY", "AWS_ACCESS_KEY_ID"),
		S3SecretKey: firstEnv("S3_SECRET_KEY", "AWS_SECRET_ACCESS_KEY"),
		S3PublicURL: firstEnv("S3_PUBLIC_URL"),
	}
}
