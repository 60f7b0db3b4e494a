package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"object-signer/core/config"
	"object-signer/core/logger"
	"object-signer/core/storage"
	"object-signer/feature/presign"

	"github.com/spf13/cobra"
)

var (
	presignExpiresIn time.Duration
	presignJSON      bool
)

// presignCmd signs a single key and prints the URL
var presignCmd = &cobra.Command{
	Use:   "presign <key>",
	Short: "Print a presigned download URL for an object key",
	Long: `Signs a GET request for the object key against the configured bucket and prints the URL.
No request is sent to the storage provider, so the key is not checked for existence.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return runPresign(cmd.Context(), cmd.OutOrStdout(), cfg, storage.NewClient, args[0], presignExpiresIn, presignJSON)
	},
}

func runPresign(ctx context.Context, out io.Writer, cfg *config.Config, newClient storage.Factory, key string, expiry time.Duration, asJSON bool) error {
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

	svc := presign.NewService(store, cfg.Storage, logg, nil)
	signed, err := svc.Sign(ctx, key, expiry)
	if err != nil {
		return err
	}

	if !asJSON {
		_, err = fmt.Fprintln(out, signed.URL)
		return err
	}

	data, err := json.MarshalIndent(signed, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

func init() {
	presignCmd.Flags().DurationVar(&presignExpiresIn, "expires-in", 0, "URL lifetime (default from AWS_S3_PRESIGN_EXPIRY_SECONDS, max 168h)")
	presignCmd.Flags().BoolVar(&presignJSON, "json", false, "Print key, url and expires_at as JSON")
	RootCmd.AddCommand(presignCmd)
}
