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

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) ListAccounts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_accounts")

	accounts, err := h.Svc.ListAccounts(ctx)
	if err != nil {
		l.Error("list_accounts_failed", "status", 500, "reason", "cannot read users", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read users")
	}

	return c.JSON(http.StatusOK, accounts)
}

// GetAccount answers a JSON null when no account has the subject id.
func (h *AccountHTTP) GetAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.get_account")

	acc, err := h.Svc.GetAccountBySubject(ctx, c.Param("subjectId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Info("get_account_absent", "status", 200)
			return c.JSON(http.StatusOK, nil)
		case errors.Is(err, service.ErrValidation):
			l.Warn("get_account_failed", "status", 400, "reason", "invalid subject id", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid subject id")
		default:
			l.Error("get_account_failed", "status", 500, "reason", "cannot read user", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read user")
		}
	}

	return c.JSON(http.StatusOK, acc)
}

// GetCart answers 404 when the account is missing, unlike an empty cart.
func (h *AccountHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.get_cart")

	cart, err := h.Svc.GetCart(ctx, c.Param("subjectId"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("get_cart_failed", "status", 404, "reason", "user with this subject id dont exist", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "user with this subject id dont exist")
		case errors.Is(err, service.ErrValidation):
			l.Warn("get_cart_failed", "status", 400, "reason", "invalid subject id", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "invalid subject id")
		default:
			l.Error("get_cart_failed", "status", 500, "reason", "cannot read cart", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
		}
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *AccountHTTP) CreateAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.create_account")

	var acc models.Account
	if err := c.Bind(&acc); err != nil {
		l.Warn("create_account_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	id, err := h.Svc.CreateAccount(ctx, &acc)
	if err != nil {
		l.Error("create_account_failed", "status", 500, "reason", "cannot add user to db", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add user to db")
	}

	l.Info("create_account_success", "id", id)
	return c.JSON(http.StatusCreated, transport.Inserted(id))
}

func (h *AccountHTTP) UpsertProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.upsert_profile")

	var acc models.Account
	if err := c.Bind(&acc); err != nil {
		l.Warn("upsert_profile_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.UpsertProfile(ctx, acc)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("upsert_profile_failed", "status", 400, "reason", "email is required", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "email is required")
		}
		l.Error("upsert_profile_failed", "status", 500, "reason", "cannot save user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot save user")
	}

	l.Info("upsert_profile_success", "matched", res.Matched, "upserted", res.UpsertedID != "")
	return c.JSON(http.StatusOK, transport.Updated(res))
}

func (h *AccountHTTP) TouchLastAccess(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.touch_last_access")

	var req transport.TouchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("touch_last_access_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.TouchLastAccess(ctx, req.Email, req.LastAccessAt)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("touch_last_access_failed", "status", 400, "reason", "email and lastAccessAt are required", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "email and lastAccessAt are required")
		}
		l.Error("touch_last_access_failed", "status", 500, "reason", "cannot update user", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update user")
	}

	l.Info("touch_last_access_success", "matched", res.Matched)
	return c.JSON(http.StatusOK, transport.Updated(res))
}

func (h *AccountHTTP) ReplaceCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.replace_cart")

	var req transport.CartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("replace_cart_failed", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.ReplaceCart(ctx, req.Email, req.UpdatedCart)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("replace_cart_failed", "status", 400, "reason", "email and updatedCart are required", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "email and updatedCart are required")
		}
		l.Error("replace_cart_failed", "status", 500, "reason", "cannot update cart", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
	}

	l.Info("replace_cart_success", "matched", res.Matched, "upserted", res.UpsertedID != "")
	return c.JSON(http.StatusOK, transport.Updated(res))
}
