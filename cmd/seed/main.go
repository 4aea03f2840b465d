// Package main provides a CLI tool for seeding the database with initial data:
// the base currency, a default company and an admin user.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"

	"fakturo/internal/core/apperror"
	"fakturo/internal/domain/auth"
	"fakturo/internal/domain/catalogs/company"
	"fakturo/internal/domain/catalogs/currency"
	"fakturo/internal/infrastructure/storage/postgres"
	"fakturo/internal/infrastructure/storage/postgres/auth_repo"
	"fakturo/internal/infrastructure/storage/postgres/catalog_repo"
	"fakturo/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txManager := postgres.NewTxManager(pool)

	baseCurrency, err := seedBaseCurrency(ctx, txManager, log)
	if err != nil {
		log.Fatalw("failed to seed base currency", "error", err)
	}

	defaultCompany, err := seedDefaultCompany(ctx, txManager, baseCurrency, log)
	if err != nil {
		log.Fatalw("failed to seed default company", "error", err)
	}

	if err := seedAdminUser(ctx, txManager, defaultCompany, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	log.Info("seeding completed successfully")
}

// seedBaseCurrency creates the base currency unless one already exists.
func seedBaseCurrency(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) (*currency.Currency, error) {
	isoCode := getEnv("BASE_CURRENCY", "EUR")

	repo := catalog_repo.NewCurrencyRepo(txManager)
	service := currency.NewService(repo, txManager)

	existing, err := service.FindByISOCode(ctx, isoCode)
	if err == nil {
		log.Infow("base currency already exists", "iso_code", isoCode, "id", existing.ID)
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check currency exists: %w", err)
	}

	symbol := getEnv("BASE_CURRENCY_SYMBOL", "€")
	curr := currency.NewCurrency(isoCode, getEnv("BASE_CURRENCY_NAME", "Euro"), &symbol)
	curr.IsBase = true

	if err := service.Create(ctx, curr); err != nil {
		return nil, err
	}

	log.Infow("base currency created", "iso_code", isoCode, "id", curr.ID)
	return curr, nil
}

// seedDefaultCompany creates the default issuing company unless one
// with the same code already exists.
func seedDefaultCompany(ctx context.Context, txManager *postgres.TxManager, baseCurrency *currency.Currency, log *logger.Logger) (*company.Company, error) {
	code := getEnv("COMPANY_CODE", "MAIN")

	repo := catalog_repo.NewCompanyRepo(txManager)
	service := company.NewService(repo, txManager)

	existing, err := service.GetByCode(ctx, code)
	if err == nil {
		log.Infow("default company already exists", "code", code, "id", existing.ID)
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, fmt.Errorf("check company exists: %w", err)
	}

	comp := company.NewCompany(code, getEnv("COMPANY_NAME", "Default Company"))
	comp.IsDefault = true
	comp.BaseCurrencyID = baseCurrency.ID

	if err := service.Create(ctx, comp); err != nil {
		return nil, err
	}

	log.Infow("default company created", "code", code, "id", comp.ID)
	return comp, nil
}

// seedAdminUser creates the initial admin account unless it exists.
func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, comp *company.Company, log *logger.Logger) error {
	adminEmail := getEnv("ADMIN_EMAIL", "admin@fakturo.local")
	adminPassword := getEnv("ADMIN_PASSWORD", "Admin123!")

	userRepo := auth_repo.NewUserRepo(txManager)

	if existing, err := userRepo.GetByEmail(ctx, adminEmail); err == nil {
		log.Infow("admin user already exists", "email", adminEmail, "user_id", existing.ID)
		return nil
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	admin := auth.NewUser(adminEmail, string(passwordHash), comp.ID)
	admin.FirstName = "System"
	admin.LastName = "Admin"
	admin.IsAdmin = true

	err = txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := userRepo.Create(ctx, admin); err != nil {
			return fmt.Errorf("insert admin user: %w", err)
		}
		// Admins bypass role checks; the manager role is assigned so the
		// account also shows up in role-scoped user listings.
		return userRepo.AssignRole(ctx, admin.ID, auth.RoleCompanyManager, admin.ID)
	})
	if err != nil {
		return err
	}

	log.Infow("admin user created", "email", adminEmail, "user_id", admin.ID)
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
