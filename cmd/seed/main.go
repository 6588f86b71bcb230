// Command seed fills a local database with demo data so the dashboard has
// something to show during development.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/joho/godotenv"

	"nami/internal/auth"
	"nami/internal/core"
	applog "nami/internal/log"
	"nami/internal/storage"
)

var incomeCategories = []string{"Salário", "Freelance", "Investimentos", "Presente"}

func main() {
	_ = godotenv.Load()

	var (
		dbPath   = flag.String("db", "./data/nami.db", "path to the SQLite database")
		email    = flag.String("email", "demo@nami.local", "demo account email")
		password = flag.String("password", "demo-password", "demo account password")
		months   = flag.Int("months", 6, "how many trailing months to fill")
		perMonth = flag.Int("per-month", 20, "transactions per month")
	)
	flag.Parse()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	if err := run(*dbPath, *email, *password, *months, *perMonth, logger); err != nil {
		logger.Error("Seeding failed", applog.FieldError, err)
		os.Exit(1)
	}
}

func run(dbPath, email, password string, months, perMonth int, logger *applog.Logger) error {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		return fmt.Errorf("open repository: %w", err)
	}
	defer repo.Close()

	ctx := context.Background()

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.CreateUser(ctx, email, hash, gofakeit.Name())
	if err != nil {
		return fmt.Errorf("create demo user: %w", err)
	}
	logger.Info("Demo user created", "email", email, applog.FieldOwner, user.ID)

	now := time.Now()
	total := 0
	for m := 0; m < months; m++ {
		anchor := time.Date(now.Year(), now.Month()-time.Month(m), 1, 0, 0, 0, 0, time.UTC)
		daysInMonth := anchor.AddDate(0, 1, -1).Day()

		// One salary entry per month, then a spread of expenses.
		salary := core.Transaction{
			Owner:    user.ID,
			Kind:     core.Income,
			Category: "Salário",
			Amount:   core.Money{Cents: int64(gofakeit.Number(300000, 800000))},
			Date:     core.NewDate(anchor.Year(), int(anchor.Month()), 5),
		}
		if _, err := repo.CreateTransaction(ctx, salary); err != nil {
			return fmt.Errorf("seed salary: %w", err)
		}
		total++

		for i := 0; i < perMonth; i++ {
			t := core.Transaction{
				Owner:       user.ID,
				Date:        core.NewDate(anchor.Year(), int(anchor.Month()), rand.Intn(daysInMonth)+1),
				Description: gofakeit.ProductName(),
			}
			if gofakeit.Number(1, 10) == 1 {
				t.Kind = core.Income
				t.Category = incomeCategories[rand.Intn(len(incomeCategories))]
				t.Amount = core.Money{Cents: int64(gofakeit.Number(5000, 100000))}
			} else {
				t.Kind = core.Expense
				t.Category = core.ExpenseCategories[rand.Intn(len(core.ExpenseCategories))]
				t.Amount = core.Money{Cents: int64(gofakeit.Number(500, 40000))}
			}
			if _, err := repo.CreateTransaction(ctx, t); err != nil {
				return fmt.Errorf("seed transaction: %w", err)
			}
			total++
		}
	}

	// A few budgets so the progress bars and alert tiers light up.
	for _, category := range []string{"Alimentação", "Transporte", "Lazer", "Casa"} {
		b := core.Budget{
			Owner:    user.ID,
			Category: category,
			Limit:    core.Money{Cents: int64(gofakeit.Number(50000, 200000))},
		}
		if _, err := repo.CreateBudget(ctx, b); err != nil {
			return fmt.Errorf("seed budget %s: %w", category, err)
		}
	}

	logger.Info("Seeding complete", "transactions", total, "budgets", 4)
	return nil
}
