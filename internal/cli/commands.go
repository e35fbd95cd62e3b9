package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"opticash-backend/internal/adapter/repository/mysql"
	"opticash-backend/internal/config"
	"opticash-backend/internal/infrastructure/db"
	"opticash-backend/internal/usecase/category"
	"opticash-backend/internal/usecase/user"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// ─── migrate ────────────────────────────────────────────────────────────────

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, _ *config.Config, gdb *gorm.DB) error {
				if err := db.Migrate(ctx, gdb); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %d tables\n", len(db.Models()))
				return nil
			})
		},
	}
}

// ─── seed-categories ────────────────────────────────────────────────────────

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-categories",
		Short: "Insert the default income and expense categories",
		Long:  `Insert the default categories. Categories that already exist (same name and type) are skipped.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, _ *config.Config, gdb *gorm.DB) error {
				n, err := category.NewUsecase(mysql.NewCategoryRepository(gdb)).Seed(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %d of %d default categories\n", n, len(category.DefaultCategories))
				return nil
			})
		},
	}
}

// ─── user create ────────────────────────────────────────────────────────────

func newUserCmd() *cobra.Command {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}

	var (
		in    user.RegisterInput
		admin bool
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account with a local password. Registration through the API always
creates regular users; --admin is the only way to create an administrator.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.Name == "" || in.Email == "" || len(in.Password) < 8 {
				return errors.New("--name, --email and a --password of at least 8 characters are required")
			}
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, gdb *gorm.DB) error {
				uc := user.NewUsecase(mysql.NewUserRepository(gdb), mysql.NewGormUoW(gdb), nil, cfg.BcryptCost)
				fn := uc.Register
				if admin {
					fn = uc.CreateAdmin
				}
				dto, err := fn(ctx, in)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "created %s %s (%s)\n", dto.Role, dto.Email, dto.ID)
				return nil
			})
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "Display name")
	create.Flags().StringVar(&in.Email, "email", "", "Login email")
	create.Flags().StringVar(&in.Password, "password", "", "Initial password")
	create.Flags().BoolVar(&admin, "admin", false, "Grant the admin role")

	userCmd.AddCommand(create)
	return userCmd
}

// ─── check-db ───────────────────────────────────────────────────────────────

func newCheckDBCmd() *cobra.Command {
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "check-db",
		Short: "Verify that the database answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withStore(cmd, func(ctx context.Context, cfg *config.Config, gdb *gorm.DB) error {
				pctx, cancel := context.WithTimeout(ctx, timeout)
				defer cancel()
				start := time.Now()
				if err := db.Ping(pctx, gdb); err != nil {
					return fmt.Errorf("%s unreachable: %w", cfg.DBDriver, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s ok (%s)\n", cfg.DBDriver, time.Since(start).Round(time.Millisecond))
				return nil
			})
		},
	}
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "Ping timeout")
	return cmd
}
