package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technocare/internal/metrics"
)

type Deps struct {
	AccountHandler *AccountHTTP
	CatalogHandler *CatalogHTTP
	// Ready reports whether the document backend answers.
	Ready func(ctx context.Context) error
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready == nil {
			return c.NoContent(http.StatusOK)
		}
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()
		if err := d.Ready(ctx); err != nil {
			return c.NoContent(http.StatusServiceUnavailable)
		}
		return c.NoContent(http.StatusOK)
	})
	e.GET("/metrics", metrics.Handler())

	e.GET("/", Landing)
	e.GET("/brands", Brands)

	users := e.Group("/users")
	users.GET("", d.AccountHandler.ListAccounts)
	users.GET("/:subjectId", d.AccountHandler.GetAccount)
	users.GET("/cart/:subjectId", d.AccountHandler.GetCart)
	users.POST("", d.AccountHandler.CreateAccount)
	users.PUT("", d.AccountHandler.UpsertProfile)
	users.PATCH("", d.AccountHandler.TouchLastAccess)
	users.PATCH("/cart", d.AccountHandler.ReplaceCart)

	products := e.Group("/products")
	products.GET("", d.CatalogHandler.ListProducts)
	products.GET("/:sku", d.CatalogHandler.GetProduct)
	products.GET("/pathname/:pathname", d.CatalogHandler.GetByPathname)
	products.GET("/brand/:brand", d.CatalogHandler.ListByBrand)
	products.GET("/category/:category", d.CatalogHandler.ListByCategory)
	products.POST("", d.CatalogHandler.CreateProduct)
	products.PUT("", d.CatalogHandler.ReplaceProduct)
}
