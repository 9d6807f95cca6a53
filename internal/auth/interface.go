package auth

import "oliveprod/internal/models"

// JWTVerifier validates bearer tokens and extracts their claims.
type JWTVerifier interface {
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)
	Close() error
}
