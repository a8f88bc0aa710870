// Command prometheusctl performs operator tasks against the API database:
// applying migrations, inviting members and curating users.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/prometheusfi/prometheus/internal/api/app"
	"github.com/prometheusfi/prometheus/internal/api/store/drivers/sqlite"
)

var Version = "dev"

func main() {
	if err := newRootCmd(app.LoadConfig()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// options are shared by every subcommand.
type options struct {
	cfg    app.Config
	dbFile string
}

func newRootCmd(cfg app.Config) *cobra.Command {
	opts := &options{cfg: cfg}

	rootCmd := &cobra.Command{
		Use:           "prometheusctl",
		Short:         "Operator tool for the Prometheus API",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.dbFile, "db", cfg.DatabaseFile, "path to the SQLite database file")

	rootCmd.AddCommand(migrateCmd(opts))
	rootCmd.AddCommand(inviteCmd(opts))
	rootCmd.AddCommand(userCmd(opts))

	return rootCmd
}

// openStore opens the database with migrations applied.
func (o *options) openStore() (*sqlite.Store, error) {
	st, err := sqlite.NewStore(fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", o.dbFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := st.ApplyMigrations(); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return st, nil
}
