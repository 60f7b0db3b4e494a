// Package config provides configuration management for the service.
//
// It utilizes Viper for loading configuration from environment variables and an
// optional .env file (values already present in the environment take precedence).
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (SERVER_PORT, SERVER_API_KEY)
//   - Storage: object storage credentials and bucket (AWS_REGION, AWS_ACCESS_KEY_ID,
//     AWS_SECRET_ACCESS_KEY, AWS_S3_BUCKET_NAME, AWS_S3_*)
//   - Log: Logging level and format (LOG_LEVEL, LOG_FORMAT)
//   - Database: optional MySQL audit store (DATABASE_*)
//
// LoadConfig does not validate; storage.NewClient does, so a missing credential
// fails at startup rather than on the first signing call.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client, err := storage.NewClient(cfg.Storage)
package config
