package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"object-signer/core/config"
	"object-signer/core/database"
	"object-signer/core/loader"
	"object-signer/core/logger"
	"object-signer/core/middleware/auth"
	"object-signer/core/middleware/rayid"
	"object-signer/core/storage"
	"object-signer/feature/integrity"
	"object-signer/feature/presign"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "object-signer/docs/swagger"
)

// @title Object Signer API
// @version 1.0
// @description Issues presigned download URLs for objects in the configured bucket.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-API-Key

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the HTTP server",
	Long:  `Builds the storage client once, then serves presigned URLs over HTTP until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Validate storage settings before touching the database
		if err := cfg.Storage.Validate(); err != nil {
			logg.Fatal("Invalid storage configuration", zap.Error(err))
		}

		// 4. Connect to Database (Optional)
		db := connectAuditDB(cfg.Database, logg)

		app, err := newApp(cfg, logg, storage.NewClient, db)
		if err != nil {
			logg.Fatal("Failed to build server", zap.Error(err))
		}

		// 5. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(":" + cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 6. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		shutdown(app, logg)
	},
}

// shutdown stops the server and reports whether it stopped cleanly.
func shutdown(app *fiber.App, logg *zap.Logger) bool {
	logg.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		logg.Error("Server shutdown failed", zap.Error(err))
		return false
	}
	logg.Info("Server stopped")
	return true
}

// connectAuditDB returns nil when the database is disabled or unreachable.
func connectAuditDB(cfg database.Config, logg *zap.Logger) *gorm.DB {
	conn, err := database.Connect(cfg)
	if err != nil {
		if !errors.Is(err, database.ErrDisabled) {
			logg.Warn("Optional database connection failed", zap.Error(err))
		}
		return nil
	}

	if err := presign.Migrate(conn); err != nil {
		logg.Warn("Failed to migrate audit table, audit disabled", zap.Error(err))
		return nil
	}

	logg.Info("Connected to audit database")
	return conn
}

// newApp builds the storage client once and wires middleware and features around it.
func newApp(cfg *config.Config, logg *zap.Logger, newClient storage.Factory, db *gorm.DB) (*fiber.App, error) {
	store, err := newClient(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	logg.Info("Storage client ready", zap.Object("storage", cfg.Storage))

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           cfg.Server.ReadTimeout(),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
	})

	mgr := loader.NewManager()
	mgr.Register(presign.NewFeature(store, cfg.Storage, logg, db))
	mgr.Register(integrity.NewFeature(store, cfg.Storage.Bucket, logg, db))

	// 1. RayID (Must be first to trace everything)
	app.Use(rayid.New())

	// 2. Request logging
	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// 3. Public endpoints
	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// 4. Auth
	if !cfg.Server.AuthEnabled() {
		logg.Warn("SERVER_API_KEY is empty, API authentication is disabled")
	}
	app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

	// 5. Features
	loaded, err := mgr.LoadAll(app)
	if err != nil {
		return nil, err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	return app, nil
}

func init() {
	RootCmd.AddCommand(startCmd)
}
