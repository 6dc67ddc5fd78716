// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/andresuchdata/stockroom/backend-go/internal/api/handlers"
	"github.com/andresuchdata/stockroom/backend-go/internal/api/middleware"
	"github.com/andresuchdata/stockroom/backend-go/internal/domain"
	"github.com/andresuchdata/stockroom/backend-go/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func init() {
	// Money goes out as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

type Options struct {
	AllowedOrigins []string
	JWTSecret      string
	// RateLimit is applied to every /api/v1 route when set.
	RateLimit gin.HandlerFunc
}

var (
	writers = []domain.Role{domain.RoleAdmin, domain.RoleManager}
	readers = []domain.Role{domain.RoleAdmin, domain.RoleManager, domain.RoleOfficer, domain.RoleUser}
)

func NewRouter(services *service.Services, opts Options) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(opts.AllowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(opts.AllowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")
	apiGroup.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	if opts.RateLimit != nil {
		apiGroup.Use(opts.RateLimit)
	}

	if services == nil {
		return router
	}

	auth := middleware.NewAuthenticator(opts.JWTSecret)
	read := auth.Authenticate(readers...)
	write := auth.Authenticate(writers...)

	supplierHandler := handlers.NewSupplierHandler(services.Suppliers)
	suppliers := apiGroup.Group("/suppliers")
	{
		suppliers.POST("", write, supplierHandler.Create)
		suppliers.GET("", read, supplierHandler.List)
		suppliers.GET("/total", read, supplierHandler.Total)
		suppliers.GET("/:id", read, supplierHandler.Get)
		suppliers.PUT("/:id", write, supplierHandler.Update)
		suppliers.DELETE("/:id", write, supplierHandler.Delete)
	}

	categoryHandler := handlers.NewCategoryHandler(services.Categories)
	categories := apiGroup.Group("/categories")
	{
		categories.POST("", write, categoryHandler.Create)
		categories.GET("", read, categoryHandler.List)
		categories.GET("/total", read, categoryHandler.Total)
		categories.GET("/:id", read, categoryHandler.Get)
		categories.PUT("/:id", write, categoryHandler.Update)
		categories.DELETE("/:id", write, categoryHandler.Delete)
	}

	productHandler := handlers.NewProductHandler(services.Products, services.Summary)
	products := apiGroup.Group("/products")
	{
		products.POST("", write, productHandler.Create)
		products.GET("", read, productHandler.List)
		products.GET("/total", read, productHandler.Total)
		products.GET("/:id", read, productHandler.Get)
		products.GET("/:id/stock", read, productHandler.Stock)
		products.PUT("/:id", write, productHandler.Update)
		products.DELETE("/:id", write, productHandler.Delete)
	}

	stockInHandler := handlers.NewStockInHandler(services.StockIn)
	stockIn := apiGroup.Group("/stock-in")
	{
		stockIn.GET("/total", read, stockInHandler.Total)

		invoices := stockIn.Group("/invoices")
		invoices.POST("", write, stockInHandler.CreateInvoice)
		invoices.GET("", read, stockInHandler.ListInvoices)
		invoices.GET("/total", read, stockInHandler.InvoiceTotal)
		invoices.GET("/:id", read, stockInHandler.GetInvoice)
		invoices.DELETE("/:id", write, stockInHandler.DeleteInvoice)
		invoices.PUT("/:id/items/:itemId", write, stockInHandler.UpdateInvoiceItem)
		invoices.DELETE("/:id/items/:itemId", write, stockInHandler.DeleteItem)

		items := stockIn.Group("/items")
		items.GET("", read, stockInHandler.ListItems)
		items.GET("/:id", read, stockInHandler.GetItem)
	}

	stockOutHandler := handlers.NewStockOutHandler(services.StockOut)
	stockOut := apiGroup.Group("/stock-out")
	{
		stockOut.POST("", read, stockOutHandler.Create)
		stockOut.GET("", read, stockOutHandler.List)
		stockOut.GET("/total", read, stockOutHandler.Total)
	}

	summaryHandler := handlers.NewStockSummaryHandler(services.Summary)
	apiGroup.GET("/stock/summary", read, summaryHandler.Summary)

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
