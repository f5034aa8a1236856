package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/simaogato/cashhealth-backend/internal/adapter/backend"
	"github.com/simaogato/cashhealth-backend/internal/adapter/source/csvfile"
	"github.com/simaogato/cashhealth-backend/internal/config"
	"github.com/simaogato/cashhealth-backend/internal/domain"
	"github.com/simaogato/cashhealth-backend/internal/logger"
	"github.com/simaogato/cashhealth-backend/internal/report"
	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashhealth-backend/internal/usecase/ledger"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var run func(zerolog.Logger, *config.Config) error
	switch os.Args[1] {
	case "report":
		run = runReport
	case "periods":
		run = runPeriods
	case "import":
		run = runImport
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	// Commands return instead of exiting so their deferred cleanups run first
	if err := run(log, cfg); err != nil {
		log.Error().Err(err).Str("command", os.Args[1]).Msg("Command failed")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Cash Health Report")
	fmt.Println("\nUsage:")
	fmt.Println("  cashreport <command> [options]")
	fmt.Println("\nCommands:")
	fmt.Println("  report    Print the dashboard for the selected months")
	fmt.Println("  periods   List the months present in the ledger")
	fmt.Println("  import    Copy a CSV ledger into the configured SQL database")
	fmt.Println("  help      Show this help message")
	fmt.Println("\nThe ledger source is chosen with DATA_SOURCE (csv, sqlite, postgres, sheets).")
	fmt.Println("Run 'cashreport <command> -h' for more information on a command.")
}

func loadStore(ctx context.Context, log zerolog.Logger, cfg *config.Config) (*ledger.Store, error) {
	result, err := backend.NewFactory(log).Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger source: %w", err)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			log.Warn().Err(err).Msg("Failed to release ledger source")
		}
	}()

	store, err := ledger.Load(ctx, result.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	return store, nil
}

func runReport(log zerolog.Logger, cfg *config.Config) error {
	fs := flag.NewFlagSet("report", flag.ExitOnError)
	months := fs.String("months", "", "Comma separated YYYY-MM months (default: every month in the ledger)")
	invest := fs.String("invest", "0", "What-if investment amount")
	investDate := fs.String("invest-date", "", "What-if investment date, YYYY-MM-DD (default: today)")
	at := fs.String("at", "", "Evaluate statuses as of this date, YYYY-MM-DD (default: now)")
	fs.Parse(os.Args[2:])

	var q dashboard.Query
	if *months != "" {
		periods, err := parsePeriods(*months)
		if err != nil {
			return fmt.Errorf("invalid -months: %w", err)
		}
		q.Periods = periods
	}
	if *at != "" {
		evaluatedAt, err := domain.ParseDate(*at)
		if err != nil {
			return fmt.Errorf("invalid -at: %w", err)
		}
		q.EvaluatedAt = evaluatedAt
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(*invest))
	if err != nil {
		return fmt.Errorf("invalid -invest: %w", err)
	}
	sim := domain.Simulation{InvestmentAmount: amount, InvestmentDate: domain.DateOf(time.Now())}
	if *investDate != "" {
		date, err := domain.ParseDate(*investDate)
		if err != nil {
			return fmt.Errorf("invalid -invest-date: %w", err)
		}
		sim.InvestmentDate = date
	}

	ctx := logger.WithContext(context.Background(), log)
	store, err := loadStore(ctx, log, cfg)
	if err != nil {
		return err
	}
	if *months == "" {
		q.Periods = store.Periods()
	}

	svc := dashboard.NewDashboardService(store, cfg.CacheTTL, log)
	ov, err := svc.GetOverview(ctx, q, sim)
	if err != nil {
		return fmt.Errorf("failed to compute dashboard: %w", err)
	}

	return report.Render(os.Stdout, ov)
}

func runPeriods(log zerolog.Logger, cfg *config.Config) error {
	fs := flag.NewFlagSet("periods", flag.ExitOnError)
	fs.Parse(os.Args[2:])

	ctx := logger.WithContext(context.Background(), log)
	store, err := loadStore(ctx, log, cfg)
	if err != nil {
		return err
	}

	for _, p := range store.Periods() {
		fmt.Println(p)
	}
	return nil
}

func runImport(log zerolog.Logger, cfg *config.Config) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	from := fs.String("from", "", "Path to the CSV ledger to import")
	replace := fs.Bool("replace", false, "Replace the stored ledger instead of appending to it")
	fs.Parse(os.Args[2:])

	if *from == "" {
		return fmt.Errorf("-from is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()
	ctx = logger.WithContext(ctx, log)

	// Validate the whole file before touching the database
	store, err := ledger.Load(ctx, csvfile.New(*from))
	if err != nil {
		return fmt.Errorf("failed to read CSV ledger: %w", err)
	}

	repo, cleanup, err := backend.NewFactory(log).OpenRepository(cfg)
	if err != nil {
		return fmt.Errorf("failed to open ledger database: %w", err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			log.Warn().Err(err).Msg("Failed to close ledger database")
		}
	}()

	write := repo.Append
	if *replace {
		write = repo.Replace
	}
	if err := write(ctx, store.Transactions()); err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	total, err := repo.Count(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to count stored transactions")
	}
	log.Info().Str("from", *from).Bool("replace", *replace).Int("imported", store.Len()).Int("stored", total).Msg("Import completed")
	fmt.Printf("Imported %d transactions into %s\n", store.Len(), repo.Name())
	return nil
}

func parsePeriods(s string) ([]domain.Period, error) {
	var periods []domain.Period
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		p, err := domain.ParsePeriod(part)
		if err != nil {
			return nil, err
		}
		periods = append(periods, p)
	}
	return periods, nil
}
