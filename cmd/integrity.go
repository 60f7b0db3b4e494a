package cmd

import (
	"context"
	"fmt"
	"io"

	"object-signer/core/config"
	"object-signer/core/logger"
	"object-signer/core/storage"
	"object-signer/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Check that the configured bucket and audit table are usable",
	Long: `Signing never contacts the provider, so bad credentials or a wrong bucket name only
surface when a URL is followed. This command checks them directly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runIntegrity(cmd.Context(), cmd.OutOrStdout(), cfg, storage.NewClient)
	},
}

func runIntegrity(ctx context.Context, out io.Writer, cfg *config.Config, newClient storage.Factory) error {
	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logg.Sync()

	store, err := newClient(cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage client: %w", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, logg, connectAuditDB(cfg.Database, logg))

	bucket, err := svc.CheckBucket(ctx)
	if err != nil {
		return err
	}
	audit, err := svc.CheckAudit(ctx)
	if err != nil {
		logg.Warn("Audit check failed", zap.Error(err))
	}

	data, err := json.MarshalIndent(map[string]any{"bucket": bucket, "audit": audit}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(data))

	if !bucket.Exists {
		return fmt.Errorf("bucket %s does not exist", bucket.Bucket)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(integrityCmd)
}
