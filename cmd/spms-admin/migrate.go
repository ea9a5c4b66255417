package main

import (
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/spms-api/pkg/database"
)

// mockable
var migrateFuncs = map[string]func(*sql.DB, *zap.Logger) error{
	"up":     database.Migrate,
	"down":   database.Rollback,
	"status": database.Status,
}

func (cli *commandLine) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect schema migrations",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			run, ok := migrateFuncs[args[0]]
			if !ok {
				return fmt.Errorf("unknown migrate command %q", args[0])
			}
			if err := run(cli.db, cli.logger); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "migrate %s: done\n", args[0])
			return nil
		},
	}
}
