package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/service"
	"github.com/Skotchmaster/technocare/internal/transport"
	"github.com/Skotchmaster/technocare/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) ListProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_products")

	items, err := h.Svc.ListProducts(ctx)
	if err != nil {
		l.Error("list_products_failed", "status", 500, "reason", "cannot read products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}

	return c.JSON(http.StatusOK, items)
}

// respondOne writes the product, or JSON null when nothing matched.
func respondOne(c echo.Context, event string, prod *models.Product, err error) error {
	l := logging.FromContext(c.Request().Context())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Info(event+"_absent", "status", 200)
			return c.JSON(http.StatusOK, nil)
		case errors.Is(err, service.ErrValidation):
			l.Warn(event+"_failed", "status", 400, "reason", "invalid lookup key", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid lookup key")
		default:
			l.Error(event+"_failed", "status", 500, "reason", "cannot read product", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
		}
	}
	return c.JSON(http.StatusOK, prod)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	sku, err := transport.ParseSKU(c.Param("sku"))
	if err != nil {
		l.Warn("get_product_failed", "status", 400, "reason", "sku is not integer", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "sku is not integer")
	}

	prod, err := h.Svc.GetBySKU(ctx, sku)
	return respondOne(c, "get_product", prod, err)
}

func (h *CatalogHTTP) GetByPathname(c echo.Context) error {
	ctx := c.Request().Context()

	prod, err := h.Svc.GetByPathname(ctx, c.Param("pathname"))
	return respondOne(c, "get_product_by_pathname", prod, err)
}

func (h *CatalogHTTP) ListByBrand(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_by_brand")

	items, err := h.Svc.ListByBrand(ctx, c.Param("brand"))
	if err != nil {
		l.Error("list_by_brand_failed", "status", 500, "reason", "cannot read products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) ListByCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.list_by_category")

	items, err := h.Svc.ListByCategory(ctx, c.Param("category"))
	if err != nil {
		l.Error("list_by_category_failed", "status", 500, "reason", "cannot read products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_create_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod := req.Product()
	id, err := h.Svc.CreateProduct(ctx, &prod)
	if err != nil {
		l.Error("product_create_error", "status", 500, "reason", "cannot add product to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add product to db")
	}

	l.Info("create_product_success", "id", id, "sku", prod.SKU)
	return c.JSON(http.StatusCreated, transport.Inserted(id))
}

// ReplaceProduct answers matchedCount 0 when the sku is unknown; nothing is inserted.
func (h *CatalogHTTP) ReplaceProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.replace_product")

	var req transport.ProductRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("product_replace_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !req.SKU.Set {
		l.Warn("product_replace_error", "status", 400, "reason", "sku is required")
		return echo.NewHTTPError(http.StatusBadRequest, "sku is required")
	}

	res, err := h.Svc.ReplaceProduct(ctx, req.Product())
	if err != nil {
		l.Error("product_replace_error", "status", 500, "reason", "cannot replace product", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot replace product")
	}

	l.Info("replace_product_success", "sku", req.SKU.Value, "matched", res.Matched)
	return c.JSON(http.StatusOK, transport.Updated(res))
}
