package jwtutil

import (
	"time"

	"dealer-service/pkg/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	signingKey      = []byte("defaultsecretkey")
	expirationHours = 24
)

// RoleAdmin is the role claim carried by administrator tokens.
const RoleAdmin = "admin"

// DealerClaims represents the JWT claims for an authenticated caller.
// Dealer tokens carry the dealer ID; admin tokens carry the admin role
// and no dealer ID.
type DealerClaims struct {
	Username string `json:"username"`
	DealerID *uint  `json:"dealer_id,omitempty"`
	Role     string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Initialize sets the signing configuration for the package
func Initialize(cfg *config.JWTConfig) {
	signingKey = []byte(cfg.SigningKey)
	if cfg.ExpirationHours > 0 {
		expirationHours = cfg.ExpirationHours
	}
}

// GenerateToken creates a signed token for a dealer or admin principal.
func GenerateToken(username string, dealerID *uint, role string) (string, error) {
	claims := DealerClaims{
		Username: username,
		DealerID: dealerID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expirationHours) * time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// ValidateToken validates and parses the JWT token
func ValidateToken(tokenString string) (*DealerClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &DealerClaims{}, func(token *jwt.Token) (interface{}, error) {
		return signingKey, nil
	})
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*DealerClaims); ok && token.Valid {
		return claims, nil
	}

	return nil, jwt.ErrSignatureInvalid
}
