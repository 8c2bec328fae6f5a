package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/technocare/internal/events"
	"github.com/Skotchmaster/technocare/internal/models"
	"github.com/Skotchmaster/technocare/internal/service"
	"github.com/Skotchmaster/technocare/internal/storage/storagetest"
	"github.com/Skotchmaster/technocare/internal/transport"
)

type testEnv struct {
	T *testing.T
	E *echo.Echo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := storagetest.NewBackend(t)

	e := echo.New()
	Register(e, &Deps{
		AccountHandler: &AccountHTTP{Svc: &service.AccountService{Repo: backend.Accounts, Publisher: events.Nop{}}},
		CatalogHandler: &CatalogHTTP{Svc: &service.CatalogService{Repo: backend.Products, Publisher: events.Nop{}}},
		Ready:          backend.Ping,
	})
	return &testEnv{T: t, E: e}
}

func (env *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestProducts_Scenario(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/products", map[string]any{
		"sku": 100, "pathname": "widget-a", "gadgetName": "Widget A",
		"brand": "Acme", "category": "tools", "price": 9.99,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	ack := decode[transport.InsertAck](t, rec)
	assert.True(t, ack.Acknowledged)
	require.NotEmpty(t, ack.InsertedID)

	rec = env.do(http.MethodGet, "/products/100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	prod := decode[models.Product](t, rec)
	assert.Equal(t, ack.InsertedID, prod.ID)

	rec = env.do(http.MethodGet, "/products/pathname/widget-a", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, prod, decode[models.Product](t, rec))

	rec = env.do(http.MethodGet, "/products/brand/Acme", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Product](t, rec), 1)

	rec = env.do(http.MethodPut, "/products", map[string]any{
		"sku": "100", "pathname": "widget-a", "gadgetName": "Widget A",
		"brand": "Acme", "category": "tools", "price": 12.99,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	upd := decode[transport.UpdateAck](t, rec)
	assert.EqualValues(t, 1, upd.Matched)

	rec = env.do(http.MethodGet, "/products/100", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 12.99, decode[models.Product](t, rec).Price)
}

func TestProducts_AbsentAndMalformed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/products/42", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	rec = env.do(http.MethodGet, "/products/pathname/missing", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	rec = env.do(http.MethodGet, "/products/category/none", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	rec = env.do(http.MethodGet, "/products/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/products", `{"sku":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/products", `{"pathname":"no-sku"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPut, "/products", map[string]any{"sku": 5, "price": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[transport.UpdateAck](t, rec).Matched)

	rec = env.do(http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUsers_ProfileAndCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/users", map[string]any{
		"email": "a@b.com", "displayName": "A", "subjectId": "sub-1",
		"createdAt": "2026-01-02T03:04:05Z", "lastAccessAt": "2026-01-02T03:04:05Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[transport.UpdateAck](t, rec).UpsertedID)

	rec = env.do(http.MethodPut, "/users", map[string]any{
		"email": "a@b.com", "displayName": "B", "subjectId": "sub-1",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[transport.UpdateAck](t, rec).Matched)

	rec = env.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[[]models.Account](t, rec)
	require.Len(t, users, 1)
	assert.Equal(t, "B", users[0].DisplayName)

	rec = env.do(http.MethodPatch, "/users/cart", map[string]any{
		"email":       "a@b.com",
		"updatedCart": []map[string]any{{"sku": 100, "quantity": 2}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/users/cart/sub-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"sku":100,"quantity":2}]`, rec.Body.String())

	rec = env.do(http.MethodPatch, "/users", map[string]any{
		"email": "a@b.com", "lastAccessAt": "2026-05-06T07:08:09Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, decode[transport.UpdateAck](t, rec).Matched)

	rec = env.do(http.MethodGet, "/users/sub-1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	acc := decode[models.Account](t, rec)
	require.NotNil(t, acc.LastAccessAt)
	assert.Equal(t, 2026, acc.LastAccessAt.Year())
	assert.Equal(t, "a@b.com", acc.Email)
}

func TestUsers_AbsentVersusMissingCart(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/users/nobody", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "null", rec.Body.String())

	rec = env.do(http.MethodGet, "/users/cart/nobody", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPatch, "/users", map[string]any{
		"email": "ghost@b.com", "lastAccessAt": "2026-05-06T07:08:09Z",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Zero(t, decode[transport.UpdateAck](t, rec).Matched)

	rec = env.do(http.MethodGet, "/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestUsers_Malformed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPut, "/users", map[string]any{"displayName": "no email"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/users", map[string]any{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPatch, "/users/cart", map[string]any{"email": "a@b.com"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(http.MethodPost, "/users", `{"email":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUsers_CreateAccount(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/users", map[string]any{
		"subjectId": "sub-7", "email": "c@b.com", "verified": true,
		"cart": []map[string]any{{"sku": 1}},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	ack := decode[transport.InsertAck](t, rec)
	require.NotEmpty(t, ack.InsertedID)

	rec = env.do(http.MethodGet, "/users/sub-7", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	acc := decode[models.Account](t, rec)
	assert.Equal(t, ack.InsertedID, acc.ID)
	assert.True(t, acc.Verified)
	require.Len(t, acc.Cart, 1)
}

func TestStaticAndHealth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Technocare")

	rec = env.do(http.MethodGet, "/brands", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decode[[]string](t, rec))

	rec = env.do(http.MethodGet, "/health/ready", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
