package backend

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/simaogato/cashhealth-backend/internal/adapter/repository/sqlstore"
	"github.com/simaogato/cashhealth-backend/internal/adapter/source/csvfile"
	"github.com/simaogato/cashhealth-backend/internal/adapter/source/sheets"
	"github.com/simaogato/cashhealth-backend/internal/config"
	"github.com/simaogato/cashhealth-backend/internal/domain"
)

// Result is an opened ledger source plus whatever must be released on shutdown
type Result struct {
	Source  domain.TransactionSource
	Cleanup func() error
}

// Factory opens the ledger source selected by the configuration
type Factory struct {
	logger zerolog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger zerolog.Logger) *Factory {
	return &Factory{logger: logger}
}

// Open implements the DATA_SOURCE switch
func (f *Factory) Open(ctx context.Context, cfg *config.Config) (*Result, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		f.logger.Info().Str("path", cfg.DataPath).Msg("Using CSV ledger source")
		return &Result{Source: csvfile.New(cfg.DataPath), Cleanup: noop}, nil
	case config.SourceSQLite:
		return f.openSQL(sqlstore.DriverSQLite, cfg.SQLiteDBPath, cfg.RunMigration)
	case config.SourcePostgres:
		return f.openSQL(sqlstore.DriverPostgres, cfg.DBConnStr, cfg.RunMigration)
	case config.SourceSheets:
		src, err := sheets.New(ctx, cfg.SpreadsheetID, cfg.SheetRange, cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets source: %w", err)
		}
		f.logger.Info().Str("range", cfg.SheetRange).Msg("Using Google Sheets ledger source")
		return &Result{Source: src, Cleanup: noop}, nil
	default:
		return nil, fmt.Errorf("unsupported data source: %s", cfg.DataSource)
	}
}

// OpenRepository opens the SQL ledger table for writing; only sql sources qualify
func (f *Factory) OpenRepository(cfg *config.Config) (*sqlstore.TransactionRepository, func() error, error) {
	var res *Result
	var err error
	switch cfg.DataSource {
	case config.SourceSQLite:
		res, err = f.openSQL(sqlstore.DriverSQLite, cfg.SQLiteDBPath, cfg.RunMigration)
	case config.SourcePostgres:
		res, err = f.openSQL(sqlstore.DriverPostgres, cfg.DBConnStr, cfg.RunMigration)
	default:
		return nil, nil, fmt.Errorf("data source %s is read-only", cfg.DataSource)
	}
	if err != nil {
		return nil, nil, err
	}
	return res.Source.(*sqlstore.TransactionRepository), res.Cleanup, nil
}

func (f *Factory) openSQL(driver, dsn string, migrate bool) (*Result, error) {
	db, err := sqlstore.NewDB(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s database: %w", driver, err)
	}

	if migrate {
		if err := db.RunMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to migrate %s database: %w", driver, err)
		}
	}

	repo := sqlstore.NewTransactionRepository(db)
	f.logger.Info().Str("driver", driver).Str("source", repo.Name()).Bool("migrated", migrate).Msg("Using SQL ledger source")

	return &Result{Source: repo, Cleanup: db.Close}, nil
}

func noop() error { return nil }
