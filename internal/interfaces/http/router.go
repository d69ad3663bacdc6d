package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/stockpilot-api/internal/application/auth"
	"github.com/jhoicas/stockpilot-api/internal/application/sales"
	"github.com/jhoicas/stockpilot-api/internal/application/usecase"
	"github.com/jhoicas/stockpilot-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	CustomerUC *usecase.CustomerUseCase
	SupplierUC *usecase.SupplierUseCase
	SalesUC    *sales.UseCase
	PDFUC      *sales.PDFUseCase
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	perm := func(perms ...string) fiber.Handler { return RequirePermission(deps.AuthUC, perms...) }

	protected.Get("/auth/me", authHandler.Me)
	protected.Put("/auth/change-password", authHandler.ChangePassword)

	// Products
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/categories", perm(entity.PermViewProducts), productHandler.Categories)
	products.Get("/brands", perm(entity.PermViewProducts), productHandler.Brands)
	products.Get("/low-stock", perm(entity.PermViewProducts), productHandler.LowStock)
	products.Post("/", perm(entity.PermCreateProducts), productHandler.Create)
	products.Get("/", perm(entity.PermViewProducts), productHandler.List)
	products.Get("/:id", perm(entity.PermViewProducts), productHandler.GetByID)
	products.Put("/:id", perm(entity.PermEditProducts), productHandler.Update)
	products.Delete("/:id", perm(entity.PermDeleteProducts), productHandler.Delete)

	// Customers
	customers := protected.Group("/customers")
	customerHandler := NewCustomerHandler(deps.CustomerUC)
	customers.Post("/", customerHandler.Create)
	customers.Get("/", customerHandler.List)
	customers.Get("/:id", customerHandler.GetByID)
	customers.Put("/:id", customerHandler.Update)
	customers.Delete("/:id", customerHandler.Delete)

	// Suppliers
	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.SupplierUC)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)

	// Sales
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.SalesUC, deps.PDFUC)
	salesGroup.Post("/", perm(entity.PermCreateSales), saleHandler.Create)
	salesGroup.Get("/", perm(entity.PermViewSales), saleHandler.List)
	salesGroup.Get("/stats", perm(entity.PermViewSales), saleHandler.Stats)
	salesGroup.Get("/:id", perm(entity.PermViewSales), saleHandler.GetByID)
	salesGroup.Get("/:id/invoice", perm(entity.PermViewSales), saleHandler.Invoice)
	salesGroup.Put("/:id", perm(entity.PermEditSales), saleHandler.Update)
	salesGroup.Post("/:id/return", perm(entity.PermEditSales), saleHandler.Return)
	salesGroup.Delete("/:id", perm(entity.PermDeleteSales), saleHandler.Cancel)

	// Libro de transacciones
	protected.Get("/transactions", perm(entity.PermViewSales), saleHandler.Transactions)
}
