package middleware

import (
	"errors"
	"net/http"
	"strings"

	"dealer-service/pkg/jwtutil"
	"dealer-service/pkg/logger"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthMiddleware validates the JWT token and extracts the dealer
// identity. Routes behind it can rely on a dealer_id in the context.
func AuthMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, err := parseBearer(c)
		if err != nil {
			log.Warn("Rejected request token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)

		if claims.DealerID == nil {
			log.Warn("JWT token does not contain dealer_id")
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "dealer_id is required in the token"})
		}
		c.Set("dealer_id", *claims.DealerID)

		return next(c)
	}
}

// AdminMiddleware validates the JWT token and requires the admin role.
func AdminMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		log := logger.FromContext(c)

		claims, err := parseBearer(c)
		if err != nil {
			log.Warn("Rejected request token", zap.Error(err))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
		}

		if claims.Role != jwtutil.RoleAdmin {
			log.Warn("Non-admin token on admin route", zap.String("role", claims.Role))
			return c.JSON(http.StatusForbidden, echo.Map{"error": "admin role required"})
		}

		c.Set("username", claims.Username)
		c.Set("user_role", claims.Role)
		return next(c)
	}
}

func parseBearer(c echo.Context) (*jwtutil.DealerClaims, error) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization token")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, errors.New("invalid authorization format, expected Bearer token")
	}

	claims, err := jwtutil.ValidateToken(parts[1])
	if err != nil {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

// GetDealerIDFromContext retrieves the dealer ID from the context.
// Returns 0, false if the dealer ID is not set.
func GetDealerIDFromContext(c echo.Context) (uint, bool) {
	dealerID, ok := c.Get("dealer_id").(uint)
	return dealerID, ok
}
