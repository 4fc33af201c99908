package auth

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// AdminOnly rejects authenticated users without the admin flag.
func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims, err := Claims(c)
		if err != nil {
			return err
		}
		if isAdmin, _ := claims["isAdmin"].(bool); !isAdmin {
			return echo.NewHTTPError(http.StatusForbidden, "you don't have enough rights")
		}
		return next(c)
	}
}

// Claims returns the verified token claims the JWT middleware stored.
func Claims(c echo.Context) (jwt.MapClaims, error) {
	tok, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}

// UserID extracts the authenticated user's id from the request context.
func UserID(c echo.Context) (uint, error) {
	claims, err := Claims(c)
	if err != nil {
		return 0, err
	}
	sub, ok := claims["userId"].(float64)
	if !ok {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid userId claim")
	}
	return uint(sub), nil
}
