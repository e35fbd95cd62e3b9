// Package cli implements opticashctl, the operations tool that runs next to the API:
// schema migration, category seeding, admin creation and store checks.
package cli

import (
	"context"
	"fmt"

	"opticash-backend/internal/config"
	"opticash-backend/internal/infrastructure/db"
	"opticash-backend/pkg/logger"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// loadConfig is replaced by tests.
var loadConfig = config.Load

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "opticashctl",
		Short:         "Operate the OptiCash backend",
		Long:          `Operations for the OptiCash backend. Every command reads the same environment as the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newUserCmd(), newCheckDBCmd())
	return root
}

// Execute runs the root command against the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

// openStore loads and validates config, then opens the database.
func openStore(ctx context.Context) (*config.Config, *gorm.DB, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: true, Service: "opticashctl"})
	gdb, err := db.OpenGorm(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return cfg, gdb, nil
}

// withStore runs fn against an open store and closes it afterwards.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, cfg *config.Config, gdb *gorm.DB) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, gdb, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close(gdb) }()
	return fn(ctx, cfg, gdb)
}
