package auth

import (
	"net/http"
	"strings"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// JWT guards the API group. Reads, auth endpoints and static uploads stay
// public; everything else needs a valid bearer token.
func JWT(secret []byte) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningMethod: "HS256",
		SigningKey:    secret,
		ContextKey:    "user",
		Skipper:       isPublicPath,
	})
}

func isPublicPath(c echo.Context) bool {
	path := c.Request().URL.Path
	method := c.Request().Method

	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/public/uploads"):
		return true
	case path == "/api/v1/users/login",
		path == "/api/v1/users/register",
		path == "/api/v1/users/send-verification-email",
		strings.HasPrefix(path, "/api/v1/users/verify-email/"):
		return true
	case method == http.MethodGet &&
		(strings.HasPrefix(path, "/api/v1/products") || strings.HasPrefix(path, "/api/v1/categories")):
		return true
	}
	return false
}
