package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "mashd"

// getJWT extracts the bearer token from an incoming request's Authorization
// header, mirroring the teacher's own Bearer-scheme parsing
// (server/token.go's getJWT).
func getJWT(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	tok := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}
	return tok, nil
}

// generateJWT issues a bearer token for subject (an opaque client
// identifier, since this server has no user database to attach the token
// to -- see server/config.go's APIKeyHash). Grounded on the teacher's
// generateJWT (server/token.go), minus the per-user password/logout-time
// salting the teacher mixes into its signing key, since there is no user
// record here to invalidate a token against.
func generateJWT(secret []byte, subject string, ttl time.Duration) (string, error) {
	claims := &jwt.MapClaims{
		"iss":        tokenIssuer,
		"sub":        subject,
		"exp":        time.Now().Add(ttl).Unix(),
		"authorized": true,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}

// validateJWT checks tok's signature, issuer, and expiry against secret and
// returns the subject it was issued for.
func validateJWT(secret []byte, tok string) (string, error) {
	parsed, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}), jwt.WithIssuer(tokenIssuer), jwt.WithLeeway(time.Minute))
	if err != nil {
		return "", err
	}
	subj, err := parsed.Claims.GetSubject()
	if err != nil {
		return "", fmt.Errorf("cannot get subject: %w", err)
	}
	return subj, nil
}
