package middleware

import (
	"context"
	"fmt"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/inkwell/backend/internal/models"
)

// FirebaseVerifier verifies Firebase ID tokens
type FirebaseVerifier struct {
	client *auth.Client
}

func NewFirebaseVerifier(client *auth.Client) *FirebaseVerifier {
	return &FirebaseVerifier{client: client}
}

func (v *FirebaseVerifier) Verify(ctx context.Context, idToken string) (*models.Identity, error) {
	token, err := v.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return nil, fmt.Errorf("verify firebase id token: %w", err)
	}
	return &models.Identity{
		TokenIdentifier: token.UID,
		Email:           claimString(token.Claims, "email"),
		Name:            claimString(token.Claims, "name"),
		Picture:         claimString(token.Claims, "picture"),
	}, nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
