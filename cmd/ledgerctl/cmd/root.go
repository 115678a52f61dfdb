// Package cmd provides the ledgerctl commands.
package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/operator"
	"github.com/carson-networks/finance-ledger/internal/service"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/migrations"
)

type options struct {
	envFile  string
	dbPath   string
	logLevel string
}

// NewRootCmd builds the command tree. Every command opens the database
// named by the environment (or --db), applies pending migrations and closes
// it again before returning.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect and maintain a finance ledger database",
		Long: `ledgerctl works directly on the ledger's SQLite file. Run it while
the server is stopped, or accept that writes wait on the server's lock.

Example:
  ledgerctl balances --currency EUR
  ledgerctl rates set GBP 1.27
  ledgerctl check`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file to load (default is .env when present)")
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "database path, overrides LEDGER_DB_PATH")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level written to stderr")

	root.AddCommand(newMigrateCmd(opts))
	root.AddCommand(newAccountsCmd(opts))
	root.AddCommand(newBalancesCmd(opts))
	root.AddCommand(newRatesCmd(opts))
	root.AddCommand(newCheckCmd(opts))

	return root
}

type ledger struct {
	config    *config.Config
	logger    *logrus.Logger
	storage   *storage.Storage
	delegator *operator.OperatorDelegator
	service   *service.Service
	migration migrations.Status
}

func (o *options) open(cmd *cobra.Command) (*ledger, error) {
	var envFiles []string
	if o.envFile != "" {
		envFiles = append(envFiles, o.envFile)
	}
	cfg, err := config.ProcessEnvironmentVariables(envFiles...)
	if err != nil {
		return nil, err
	}
	if o.dbPath != "" {
		cfg.DBPath = o.dbPath
	}

	logger := logging.SetupLogging(o.logLevel)
	logger.SetOutput(cmd.ErrOrStderr())

	store, err := storage.NewStorage(cfg)
	if err != nil {
		return nil, err
	}
	status, err := store.Migrate()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	staticRates, err := currency.ParseStaticRates(cfg.StaticRates)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	delegator := operator.NewOperatorDelegator(store, 1, logger)
	delegator.Start()

	return &ledger{
		config:    cfg,
		logger:    logger,
		storage:   store,
		delegator: delegator,
		service:   service.NewService(store.Reader, delegator, currency.NewStaticSource(staticRates), cfg.ReportingCurrency, logger),
		migration: status,
	}, nil
}

func (l *ledger) Close() {
	l.delegator.Stop()
	if err := l.storage.Close(); err != nil {
		l.logger.WithError(err).Warn("ledgerctl.Close")
	}
}
