package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"hushall/internal/config"
	"hushall/internal/core"
	"hushall/internal/history"
	applog "hushall/internal/log"
	"hushall/internal/services"
	"hushall/internal/storage"
)

// hushall-import pastes a bank statement into a period from the command
// line. Without -commit it only prints the preview.
func main() {
	_ = godotenv.Load()

	var (
		periodID   = flag.String("period", "", "budget period id to import into (required)")
		author     = flag.String("author", "", "household member recording the rows (required)")
		file       = flag.String("file", "", "read pasted text from this file instead of stdin")
		autoFormat = flag.Bool("autoformat", true, "regroup line-per-field pastes before parsing")
		commit     = flag.Bool("commit", false, "write the candidates instead of just previewing")
	)
	flag.Parse()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if *periodID == "" || *author == "" {
		fmt.Fprintln(os.Stderr, "both -period and -author are required")
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	text, err := readInput(*file)
	if err != nil {
		logger.Error("Failed to read input", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ref, err := history.Load(cfg.HistoryDumpPath)
	if err != nil {
		logger.Error("Failed to load transaction history dump", applog.FieldError, err)
		os.Exit(1)
	}

	budget := services.NewBudgetService(repo, nil, ref)
	ctx := context.Background()

	candidates, dropped, err := budget.ImportPreview(ctx, *periodID, *author, text, *autoFormat, nil)
	if err != nil {
		logger.Error("Import preview failed", applog.FieldError, err)
		os.Exit(1)
	}

	for _, t := range candidates {
		fmt.Printf("%s  %-30s  %10.2f  %s\n",
			t.Date.Format("2006-01-02"), t.Label, t.Amount, t.Category)
	}
	if dropped > 0 {
		fmt.Printf("dropped %d unresolvable row(s)\n", dropped)
	}

	if !*commit {
		fmt.Printf("%d candidate(s); re-run with -commit to write them\n", len(candidates))
		return
	}

	n, err := budget.CommitImport(ctx, candidates)
	if err != nil {
		logger.Error("Import commit failed", applog.FieldError, err, applog.FieldCount, n)
		os.Exit(1)
	}
	fmt.Printf("committed %d transaction(s) to period %s\n", n, *periodID)
	printSummary(ctx, budget, *periodID)
}

func readInput(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func printSummary(ctx context.Context, budget *services.BudgetService, periodID string) {
	summary, err := budget.Summary(ctx, periodID)
	if err != nil {
		return
	}
	fmt.Printf("income %d  expenses %d  left %d\n",
		core.DisplayMoney(summary.TotalIncome),
		core.DisplayMoney(summary.TotalExpenses),
		core.DisplayMoney(summary.TotalLeft))
}
