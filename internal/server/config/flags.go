package config

import (
	"flag"
	"os"
	"time"

	"github.com/dberzins/accountd/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string              HTTP bind address (e.g., ":8080")
//	-d string              PostgreSQL DSN
//	-access-secret string  JWT HMAC secret for access tokens
//	-refresh-secret string JWT HMAC secret for refresh tokens
//	-access-ttl int        access token validity, minutes
//	-refresh-ttl int       refresh token validity, minutes
//	-max-upload int        max logo upload size, bytes
//	-blob-backend string   "s3" or "disk"
//	-s3-user / -s3-password / -s3-bucket / -s3-region / -s3-endpoint
//	-upload-dir string     directory for the disk backend
//	-upload-base-url string URL prefix for disk-stored files
//	-log-level string      debug, info, warn, error
//
// The function first filters os.Args to only the flags it recognizes using
// flagx.FilterArgs, avoiding collisions with the -c/-config flags handled by
// the JSON overlay.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{
		"-a", "-d", "-access-secret", "-refresh-secret", "-access-ttl", "-refresh-ttl",
		"-max-upload", "-blob-backend", "-s3-user", "-s3-password", "-s3-bucket",
		"-s3-region", "-s3-endpoint", "-upload-dir", "-upload-base-url", "-log-level",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.AccessTokenSecret, "access-secret", config.AccessTokenSecret, "access token secret")
	fs.StringVar(&config.RefreshTokenSecret, "refresh-secret", config.RefreshTokenSecret, "refresh token secret")

	accessTTL := fs.Int("access-ttl", int(config.AccessTokenTTL.Minutes()), "access token validity (in minutes)")
	refreshTTL := fs.Int("refresh-ttl", int(config.RefreshTokenTTL.Minutes()), "refresh token validity (in minutes)")

	fs.Int64Var(&config.MaxUploadBytes, "max-upload", config.MaxUploadBytes, "max upload size (bytes)")
	fs.StringVar(&config.BlobBackend, "blob-backend", config.BlobBackend, "blob storage backend (s3 or disk)")
	fs.StringVar(&config.S3RootUser, "s3-user", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "s3-password", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "s3-bucket", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "s3-region", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "s3-endpoint", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.UploadDir, "upload-dir", config.UploadDir, "upload directory (disk backend)")
	fs.StringVar(&config.UploadBaseURL, "upload-base-url", config.UploadBaseURL, "upload base URL (disk backend)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AccessTokenTTL = time.Duration(*accessTTL) * time.Minute
	config.RefreshTokenTTL = time.Duration(*refreshTTL) * time.Minute
}
