package cli

import (
	"fmt"

	"storyhub/internal/config"
	"storyhub/internal/db"
	"storyhub/internal/store"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Driver string
	DSN    string
	Format string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the storyctl root command. Flag defaults come from
// cfg so the CLI talks to the same database as the server.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "storyctl",
		Short: "storyhub administration",
		Long:  "Maintenance commands for a storyhub database: schema, seed data, roles and statistics.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", cfg.Database.Driver, "database driver (postgres|mysql|sqlite)")
	cmd.PersistentFlags().StringVar(&opts.DSN, "dsn", cfg.Database.URL, "database connection string")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewPromoteCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))

	return cmd
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// open connects to the configured database. The caller closes it.
func (o *RootOptions) open() (*gorm.DB, func(), error) {
	gdb, err := db.Open(o.Driver, o.DSN)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	}
	return gdb, closeFn, nil
}

func (o *RootOptions) openStore() (*store.Store, func(), error) {
	gdb, closeFn, err := o.open()
	if err != nil {
		return nil, nil, err
	}
	return store.New(gdb), closeFn, nil
}
