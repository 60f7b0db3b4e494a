// Package server holds the HTTP server configuration.
//
// While the main application entry point handles the server startup, this package
// defines the configuration structure for server settings.
//
// # Configuration
//
// The Config struct defines the HTTP port (SERVER_PORT), the API key (SERVER_API_KEY)
// and the request read timeout (SERVER_READ_TIMEOUT_SECONDS).
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings
// and by cmd/start.go to configure Fiber and the auth middleware.
package server
