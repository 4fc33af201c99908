package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/banyumasfresh/shop/internal/service/token"
)

var testSecret = []byte("test-secret")

func request(t *testing.T, e *echo.Echo, method, path, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func newAuthedEcho() *echo.Echo {
	e := echo.New()
	g := e.Group("/api/v1", JWT(testSecret))
	ok := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	g.GET("/products", ok)
	g.GET("/orders", ok)
	g.POST("/products", ok, AdminOnly)
	g.POST("/users/login", ok)
	return e
}

func TestPublicPathsSkipAuth(t *testing.T) {
	e := newAuthedEcho()

	require.Equal(t, http.StatusOK, request(t, e, http.MethodGet, "/api/v1/products", "").Code)
	require.Equal(t, http.StatusOK, request(t, e, http.MethodPost, "/api/v1/users/login", "").Code)
}

func TestProtectedPathRequiresToken(t *testing.T) {
	e := newAuthedEcho()

	require.Equal(t, http.StatusUnauthorized, request(t, e, http.MethodGet, "/api/v1/orders", "").Code)

	tok, err := token.SignAccessToken(1, false, testSecret)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, request(t, e, http.MethodGet, "/api/v1/orders", tok).Code)
}

func TestRejectsForeignSignature(t *testing.T) {
	e := newAuthedEcho()

	tok, err := token.SignAccessToken(1, false, []byte("other-secret"))
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, request(t, e, http.MethodGet, "/api/v1/orders", tok).Code)
}

func TestAdminOnly(t *testing.T) {
	e := newAuthedEcho()

	user, err := token.SignAccessToken(1, false, testSecret)
	require.NoError(t, err)
	require.Equal(t, http.StatusForbidden, request(t, e, http.MethodPost, "/api/v1/products", user).Code)

	admin, err := token.SignAccessToken(1, true, testSecret)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, request(t, e, http.MethodPost, "/api/v1/products", admin).Code)
}

func TestUserIDFromClaims(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	c.Set("user", &jwt.Token{Claims: jwt.MapClaims{"userId": float64(7), "isAdmin": false}})

	id, err := UserID(c)
	require.NoError(t, err)
	require.Equal(t, uint(7), id)
}

func TestUserIDWithoutToken(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	_, err := UserID(c)
	require.Error(t, err)
}
