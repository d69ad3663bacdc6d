// seed crea el usuario administrador inicial y, opcionalmente, importa productos desde un CSV.
//
// Uso: go run ./cmd/seed [--admin-email admin@stockpilot.com] [--admin-password ...] [--products productos.csv] [--encoding auto|utf-8|latin1]
// Sin --products se cargan tres productos de ejemplo si el catálogo está vacío.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/jhoicas/stockpilot-api/internal/application/auth"
	"github.com/jhoicas/stockpilot-api/internal/application/dto"
	"github.com/jhoicas/stockpilot-api/internal/application/usecase"
	"github.com/jhoicas/stockpilot-api/internal/domain"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
	"github.com/jhoicas/stockpilot-api/internal/domain/repository"
	"github.com/jhoicas/stockpilot-api/internal/infrastructure/postgres"
	"github.com/jhoicas/stockpilot-api/pkg/config"
	"github.com/jhoicas/stockpilot-api/pkg/logger"
)

func main() {
	adminEmail := pflag.String("admin-email", envOr("DEFAULT_ADMIN_EMAIL", "admin@stockpilot.com"), "email del administrador")
	adminPassword := pflag.String("admin-password", envOr("DEFAULT_ADMIN_PASSWORD", "Admin@123456"), "contraseña del administrador")
	productsPath := pflag.String("products", "", "CSV de productos a importar")
	encoding := pflag.String("encoding", "auto", "codificación del CSV: auto, utf-8 o latin1")
	pflag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: "seed"})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB, log.Component("postgres"))
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	userRepo := postgres.NewUserRepository(pool)
	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{Secret: cfg.JWT.Secret}, log.Component("auth"))
	admin, err := authUC.RegisterUser(ctx, dto.RegisterRequest{
		Name:     "Admin User",
		Email:    *adminEmail,
		Password: *adminPassword,
		Role:     entity.RoleAdmin,
	})
	var adminID string
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		existing, ferr := userRepo.FindByEmail(ctx, *adminEmail)
		if ferr != nil || existing == nil {
			log.Fatal().Err(ferr).Msg("leer administrador existente")
		}
		adminID = existing.ID
		log.Info().Str("email", *adminEmail).Msg("el administrador ya existe")
	case err != nil:
		log.Fatal().Err(err).Msg("crear administrador")
	default:
		adminID = admin.ID
		log.Info().Str("email", admin.Email).Msg("administrador creado")
	}

	productRepo := postgres.NewProductRepository(pool)
	productUC := usecase.NewProductUseCase(productRepo)

	var products []dto.CreateProductRequest
	if *productsPath != "" {
		raw, err := os.ReadFile(*productsPath)
		if err != nil {
			log.Fatal().Err(err).Str("path", *productsPath).Msg("abrir CSV")
		}
		data, err := decodeCSV(raw, *encoding)
		if err != nil {
			log.Fatal().Err(err).Msg("decodificar CSV")
		}
		if products, err = parseProductsCSV(data); err != nil {
			log.Fatal().Err(err).Msg("leer CSV")
		}
	} else {
		existing, err := productRepo.List(ctx, repository.ProductFilter{Limit: 1})
		if err != nil {
			log.Fatal().Err(err).Msg("consultar catálogo")
		}
		if len(existing) == 0 {
			products = sampleProducts()
		}
	}

	created, skipped := 0, 0
	for _, p := range products {
		_, err := productUC.Create(ctx, adminID, p)
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		case err != nil:
			log.Error().Err(err).Str("sku", p.SKU).Msg("producto no importado")
			skipped++
		default:
			created++
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("seed de productos terminado")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func sampleProducts() []dto.CreateProductRequest {
	p := func(sku, name, category, brand string, purchase, selling, qty, reorder int64) dto.CreateProductRequest {
		return dto.CreateProductRequest{
			SKU: sku, Name: name, Category: category, Brand: brand, Unit: entity.UnitPiece,
			Pricing: dto.PricingDTO{
				PurchasePrice: decimal.NewFromInt(purchase),
				SellingPrice:  decimal.NewFromInt(selling),
				TaxRate:       decimal.NewFromInt(18),
			},
			Stock: dto.StockDTO{Quantity: decimal.NewFromInt(qty), ReorderPoint: decimal.NewFromInt(reorder), Warehouse: "Main"},
		}
	}
	return []dto.CreateProductRequest{
		p("ELEC-LAP-001", "Premium Laptop", "Electronics", "TechBrand", 40000, 50000, 25, 5),
		p("ELEC-MSE-001", "Wireless Mouse", "Electronics", "TechBrand", 300, 450, 100, 20),
		p("FURN-CHR-001", "Office Chair", "Furniture", "ComfortSeating", 3000, 4500, 15, 5),
	}
}
