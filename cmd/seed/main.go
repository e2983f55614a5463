// Package main provides a CLI tool for seeding the database with
// initial data: the first admin user and, optionally, a demo dataset
// for local development.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	appctx "sklad/internal/core/context"
	"sklad/internal/core/id"
	"sklad/internal/core/types"
	"sklad/internal/domain/auth"
	"sklad/internal/domain/catalogs/district"
	"sklad/internal/domain/catalogs/product"
	"sklad/internal/domain/catalogs/shop"
	"sklad/internal/infrastructure/storage/postgres"
	"sklad/internal/infrastructure/storage/postgres/auth_repo"
	"sklad/internal/infrastructure/storage/postgres/catalog_repo"
	"sklad/pkg/logger"
)

func main() {
	_ = godotenv.Load()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

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

	if err := seedAdminUser(ctx, txManager, log); err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoData(ctx, txManager, log); err != nil {
			log.Fatalw("failed to seed demo data", "error", err)
		}
	}

	log.Info("seeding complete")
}

// seedAdminUser creates the first admin from ADMIN_TG_IDS. Login
// normally provisions users on the fly; seeding just makes sure the
// allowlisted admin exists before the bot sends any links.
func seedAdminUser(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	adminIDs := auth.ParseAdminTgIDs(os.Getenv("ADMIN_TG_IDS"))
	if len(adminIDs) == 0 {
		log.Warn("ADMIN_TG_IDS not set, skipping admin user")
		return nil
	}

	userRepo := auth_repo.NewUserRepo(txManager)

	tgID := adminIDs[0]
	if existing, err := userRepo.GetByTgID(ctx, tgID); err == nil {
		log.Infow("admin user already exists", "tg_id", tgID, "id", existing.ID)
		return nil
	}

	user := auth.NewUser(tgID, appctx.RoleAdmin)
	if err := userRepo.Create(ctx, user); err != nil {
		return err
	}

	log.Infow("admin user created", "tg_id", tgID, "id", user.ID)
	return nil
}

// seedDemoData loads a small dataset: two districts, a few shops and
// products, and opening stock receipts bulk-inserted via COPY.
func seedDemoData(ctx context.Context, txManager *postgres.TxManager, log *logger.Logger) error {
	districtRepo := catalog_repo.NewDistrictRepo(txManager)
	shopRepo := catalog_repo.NewShopRepo(txManager)
	productRepo := catalog_repo.NewProductRepo(txManager)

	return txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		districts := []*district.District{
			district.NewDistrict("Chilonzor"),
			district.NewDistrict("Yunusobod"),
		}
		for _, d := range districts {
			if err := districtRepo.Create(ctx, d); err != nil {
				return err
			}
		}

		shopNames := map[string][]string{
			"Chilonzor": {"Baraka do'koni", "Omad market"},
			"Yunusobod": {"Yulduz savdo"},
		}
		for _, d := range districts {
			for _, name := range shopNames[d.Name] {
				if err := shopRepo.Create(ctx, shop.NewShop(name, d.ID)); err != nil {
					return err
				}
			}
		}

		products := make([]*product.Product, 0, 3)
		for _, spec := range []struct {
			name  string
			kind  string
			price string
		}{
			{"Makaron Premium", "makaron", "12000"},
			{"Un oliy nav", "un", "8500"},
			{"Yog' 5L", "yog", ""},
		} {
			p := product.NewProduct(spec.name)
			kind := spec.kind
			p.Kind = &kind
			if spec.price != "" {
				price := types.MustMoney(spec.price)
				p.PricePerKg = &price
			}
			if err := productRepo.Create(ctx, p); err != nil {
				return err
			}
			products = append(products, p)
		}

		if err := seedOpeningStock(ctx, txManager, products); err != nil {
			return err
		}

		log.Infow("demo data created",
			"districts", len(districts),
			"products", len(products),
		)
		return nil
	})
}

// seedOpeningStock bulk-inserts opening receipts for each product.
func seedOpeningStock(ctx context.Context, txManager *postgres.TxManager, products []*product.Product) error {
	columns := []string{"id", "product_id", "kind", "qty_kg", "shop_id", "note", "created_at"}
	note := "opening balance"
	now := time.Now().UTC()

	rows := make([][]any, 0, len(products))
	for _, p := range products {
		qty := types.NewQuantityFromFloat64(500)
		rows = append(rows, []any{
			id.New(), p.ID, "kirim", qty.Int64Scaled(), nil, &note, now,
		})
	}

	inserter := postgres.NewBatchInserter(txManager)
	_, err := inserter.CopyFromSlice(ctx, "reg_stock_moves", columns, rows)
	return err
}
