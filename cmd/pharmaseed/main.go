package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/tordrt/pharmaseed"
	"github.com/tordrt/pharmaseed/internal/config"
	"github.com/tordrt/pharmaseed/internal/log"
	"github.com/tordrt/pharmaseed/internal/pharmacy"
)

// dbFlags holds the mutually exclusive connection flags
type dbFlags struct {
	dbURL      string
	mysqlURL   string
	sqlitePath string
}

var (
	flags    dbFlags
	branches string
	cfg      *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pharmaseed",
	Short: "Provision and seed the pharmacy inventory database",
	Long: `pharmaseed creates one inventory table per branch plus the shared stock_movements table,
then resets every branch table and fills it with the reference drug catalog.

The connection string is read from DATABASE_URL (environment or .env) unless a flag overrides it.`,
	Args:              cobra.NoArgs,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd.Context(), pharmaseed.Setup)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the tables without touching their contents",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd.Context(), pharmaseed.Migrate)
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Reset the branch tables and insert the drug catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStage(cmd.Context(), pharmaseed.Seed)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the provisioned tables against the drug catalog",
	Args:  cobra.NoArgs,
	RunE:  runVerify,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.dbURL, "db-url", "", "PostgreSQL connection string (default: $DATABASE_URL)")
	pf.StringVar(&flags.mysqlURL, "mysql-url", "", "MySQL connection string")
	pf.StringVar(&flags.sqlitePath, "sqlite", "", "SQLite database file path")
	pf.StringVarP(&branches, "branches", "b", "", "Branches to provision (comma-separated, default: all)")

	rootCmd.AddCommand(migrateCmd, seedCmd, verifyCmd)
}

func setup(cmd *cobra.Command, args []string) error {
	cfg = config.Load()
	log.InitWithOutput(log.ParseLevel(cfg.LogLevel), cmd.OutOrStdout())
	return nil
}

func runStage(ctx context.Context, stage func(context.Context, string, *pharmaseed.Options) error) error {
	databaseURL, opts, err := resolve()
	if err != nil {
		return err
	}
	return stage(ctx, databaseURL, opts)
}

func runVerify(cmd *cobra.Command, args []string) error {
	databaseURL, opts, err := resolve()
	if err != nil {
		return err
	}

	report, verifyErr := pharmaseed.Verify(cmd.Context(), databaseURL, opts)
	if report != nil {
		if err := pharmaseed.FormatReport(report, cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}
	return verifyErr
}

func resolve() (string, *pharmaseed.Options, error) {
	databaseURL, err := resolveDatabaseURL(flags, cfg.DatabaseURL)
	if err != nil {
		return "", nil, err
	}

	branchList, err := pharmacy.ParseBranches(branches)
	if err != nil {
		return "", nil, err
	}

	return databaseURL, &pharmaseed.Options{Branches: branchList}, nil
}

// resolveDatabaseURL picks the connection URL from the flags, falling back
// to the configured one when no flag is set
func resolveDatabaseURL(f dbFlags, fallback string) (string, error) {
	dbCount := 0
	for _, v := range []string{f.dbURL, f.mysqlURL, f.sqlitePath} {
		if v != "" {
			dbCount++
		}
	}
	if dbCount > 1 {
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}

	switch {
	case f.sqlitePath != "":
		return "sqlite://" + f.sqlitePath, nil
	case f.mysqlURL != "":
		if strings.HasPrefix(f.mysqlURL, "mysql://") {
			return f.mysqlURL, nil
		}
		return "mysql://" + f.mysqlURL, nil
	case f.dbURL != "":
		return f.dbURL, nil
	case fallback != "":
		return fallback, nil
	default:
		return "", fmt.Errorf("no database configured: set DATABASE_URL or pass one of --db-url, --mysql-url, or --sqlite")
	}
}

// run executes the command line and returns the process exit status.
// Logs and command output both go to out.
func run(ctx context.Context, args []string, out io.Writer) int {
	log.InitWithOutput(logrus.InfoLevel, out)
	rootCmd.SetOut(out)
	rootCmd.SetArgs(args)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logrus.Errorf("Error: %v", err)
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()

	os.Exit(code)
}
