package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"quickai/internal/domain"
	"quickai/internal/infra"
	"quickai/internal/quota"
)

func main() {
	var (
		idFlag    string
		resetFlag bool
	)

	flag.StringVar(&idFlag, "id", "", "identity provider user ID to inspect")
	flag.BoolVar(&resetFlag, "reset", false, "reset the free usage counter to 0")
	flag.Parse()

	userID := domain.Identity(strings.TrimSpace(idFlag))
	if userID == "" {
		exitWithError(errors.New("-id must be provided"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "userplan").Logger()
	store := quota.NewPostgresStore(infra.NewSQLRunner(pool, logger))

	if resetFlag {
		if err := quota.NewLedger(store, logger).Reset(ctx, userID); err != nil {
			exitWithError(fmt.Errorf("failed to reset free usage: %w", err))
		}
	}

	count, found, err := store.Load(ctx, userID)
	if err != nil {
		exitWithError(fmt.Errorf("failed to load free usage: %w", err))
	}
	if !found {
		fmt.Printf("User %s has no free usage record\n", userID)
		return
	}
	fmt.Printf("User %s free_usage=%d/%d\n", userID, count, domain.FreeUsageCeiling)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
