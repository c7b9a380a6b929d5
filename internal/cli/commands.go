package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"storyhub/internal/db"
	"storyhub/internal/logger"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/spf13/cobra"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, closeFn, err := opts.open()
			if err != nil {
				return err
			}
			defer closeFn()
			if err := db.Migrate(gdb); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

// NewSeedCommand creates the seed command.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the default categories into an empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gdb, closeFn, err := opts.open()
			if err != nil {
				return err
			}
			defer closeFn()
			log := logger.New(cmd.ErrOrStderr(), "storyctl", "warn")
			n, err := db.SeedCategories(cmd.Context(), gdb, log)
			if err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created %d categories\n", n)
			return nil
		},
	}
}

// NewPromoteCommand creates the promote command.
func NewPromoteCommand(opts *RootOptions) *cobra.Command {
	var (
		role    string
		premium bool
	)
	cmd := &cobra.Command{
		Use:   "promote <username>",
		Short: "Change a user's role or premium flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			ctx := cmd.Context()
			user, err := st.GetUserByUsername(ctx, args[0])
			if err != nil {
				return err
			}
			update := store.AdminUserUpdate{Role: &role}
			if cmd.Flags().Changed("premium") {
				update.IsPremium = &premium
			}
			user, err = st.UpdateUserAdmin(ctx, user.ID, update)
			if err != nil {
				return err
			}
			return output(cmd.OutOrStdout(), opts.Format, user,
				fmt.Sprintf("%s is now %s (premium: %t)", user.Username, user.Role, user.IsPremium))
		},
	}
	cmd.Flags().StringVar(&role, "role", models.RoleAdmin, "role to assign (user|admin)")
	cmd.Flags().BoolVar(&premium, "premium", false, "set the premium flag")
	return cmd
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the admin dashboard counters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, closeFn, err := opts.openStore()
			if err != nil {
				return err
			}
			defer closeFn()

			stats, err := st.GetAdminStats(cmd.Context())
			if err != nil {
				return err
			}
			text := fmt.Sprintf("users: %d (premium %d)\nstories: %d\ncomments: %d\nreports: %d (pending %d)",
				stats.TotalUsers, stats.PremiumUsers, stats.TotalStories, stats.TotalComments,
				stats.TotalReports, stats.PendingReports)
			return output(cmd.OutOrStdout(), opts.Format, stats, text)
		},
	}
}

func output(w io.Writer, format string, v interface{}, text string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	_, err := fmt.Fprintln(w, text)
	return err
}
