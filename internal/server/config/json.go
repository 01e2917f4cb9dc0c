package config

import (
	"encoding/json"
	"os"

	"github.com/dberzins/accountd/internal/flagx"
	"github.com/dberzins/accountd/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON configuration
// files. It uses timex.Duration for lifetime fields, which allows parsing
// both string values such as "15m" and integer nanoseconds. After
// unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr       string         `json:"endpoint_addr"`
	DatabaseDSN        string         `json:"database_dsn"`
	AccessTokenSecret  string         `json:"access_token_secret"`
	RefreshTokenSecret string         `json:"refresh_token_secret"`
	AccessTokenTTL     timex.Duration `json:"access_token_ttl"`
	RefreshTokenTTL    timex.Duration `json:"refresh_token_ttl"`
	MaxUploadBytes     int64          `json:"max_upload_bytes"`
	BlobBackend        string         `json:"blob_backend"`
	S3RootUser         string         `json:"s3_root_user"`
	S3RootPassword     string         `json:"s3_root_password"`
	S3Bucket           string         `json:"s3_bucket"`
	S3Region           string         `json:"s3_region"`
	S3BaseEndpoint     string         `json:"s3_base_endpoint"`
	UploadDir          string         `json:"upload_dir"`
	UploadBaseURL      string         `json:"upload_base_url"`
	LogLevel           string         `json:"log_level"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no file is named, nothing is
// loaded. If the file cannot be read or contains invalid JSON, the function
// panics: a broken config file should not start the server.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.AccessTokenSecret != "" {
		config.AccessTokenSecret = c.AccessTokenSecret
	}
	if c.RefreshTokenSecret != "" {
		config.RefreshTokenSecret = c.RefreshTokenSecret
	}
	if c.AccessTokenTTL.Duration != 0 {
		config.AccessTokenTTL = c.AccessTokenTTL.Duration
	}
	if c.RefreshTokenTTL.Duration != 0 {
		config.RefreshTokenTTL = c.RefreshTokenTTL.Duration
	}
	if c.MaxUploadBytes != 0 {
		config.MaxUploadBytes = c.MaxUploadBytes
	}
	if c.BlobBackend != "" {
		config.BlobBackend = c.BlobBackend
	}
	if c.S3RootUser != "" {
		config.S3RootUser = c.S3RootUser
	}
	if c.S3RootPassword != "" {
		config.S3RootPassword = c.S3RootPassword
	}
	if c.S3Bucket != "" {
		config.S3Bucket = c.S3Bucket
	}
	if c.S3Region != "" {
		config.S3Region = c.S3Region
	}
	if c.S3BaseEndpoint != "" {
		config.S3BaseEndpoint = c.S3BaseEndpoint
	}
	if c.UploadDir != "" {
		config.UploadDir = c.UploadDir
	}
	if c.UploadBaseURL != "" {
		config.UploadBaseURL = c.UploadBaseURL
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
}
