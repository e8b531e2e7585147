package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// JWTVerifier verifies HS256 identity tokens signed with a shared secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, tokenString string) (*models.Identity, error) {
	claims := &models.IdentityClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}

	return &models.Identity{
		TokenIdentifier: claims.Subject,
		Email:           claims.Email,
		Name:            claims.Name,
		Picture:         claims.Picture,
	}, nil
}
