package util

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/api/idtoken"
)

// ErrGoogleTokenInvalid is returned whenever a Google ID token fails
// signature, audience, or expiry verification.
var ErrGoogleTokenInvalid = errors.New("invalid google id token")

// GoogleClaims are the identity claims extracted from a verified Google ID
// token.
type GoogleClaims struct {
	Email      string
	GivenName  string
	FamilyName string
}

// GoogleTokenVerifier verifies a raw Google-issued ID token against an
// audience and returns its identity claims.
type GoogleTokenVerifier func(ctx context.Context, token, audience string) (GoogleClaims, error)

var googleVerifier GoogleTokenVerifier = verifyWithGoogle

// VerifyGoogleIDToken verifies token signature and audience against
// Google's published keys and extracts the profile claims.
func VerifyGoogleIDToken(ctx context.Context, token, audience string) (GoogleClaims, error) {
	return googleVerifier(ctx, token, audience)
}

// SetGoogleVerifierForTesting swaps out the real verifier. Tests use this to
// avoid calling Google's certificate endpoints.
func SetGoogleVerifierForTesting(v GoogleTokenVerifier) {
	if v == nil {
		googleVerifier = verifyWithGoogle
		return
	}
	googleVerifier = v
}

func verifyWithGoogle(ctx context.Context, token, audience string) (GoogleClaims, error) {
	payload, err := idtoken.Validate(ctx, token, audience)
	if err != nil {
		return GoogleClaims{}, fmt.Errorf("%w: %v", ErrGoogleTokenInvalid, err)
	}

	claims := GoogleClaims{
		Email:      claimString(payload.Claims, "email"),
		GivenName:  claimString(payload.Claims, "given_name"),
		FamilyName: claimString(payload.Claims, "family_name"),
	}
	if claims.Email == "" {
		return GoogleClaims{}, fmt.Errorf("%w: missing email claim", ErrGoogleTokenInvalid)
	}
	return claims, nil
}

func claimString(claims map[string]interface{}, key string) string {
	if v, ok := claims[key].(string); ok {
		return v
	}
	return ""
}
