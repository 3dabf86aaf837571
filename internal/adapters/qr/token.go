package qr

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"memberadmission/internal/domain"
)

// tokenPurpose marks identity tokens so other HS256 tokens signed with the same key are refused.
const tokenPurpose = "member_qr"

type tokenClaims struct {
	jwt.RegisteredClaims
	Purpose string `json:"pur"`
}

type jwtTokens struct {
	key    []byte
	issuer string
	now    func() time.Time
}

// NewJWTIssuer returns an IdentityTokenIssuer that signs HS256 JWTs. The subject is the
// member ID and every token carries a random jti, so two members never share a token.
// Identity tokens do not expire.
func NewJWTIssuer(key []byte, issuer string) domain.IdentityTokenIssuer {
	return &jwtTokens{key: key, issuer: issuer, now: time.Now}
}

// NewJWTVerifier returns an IdentityTokenVerifier for tokens produced by NewJWTIssuer.
func NewJWTVerifier(key []byte, issuer string) domain.IdentityTokenVerifier {
	return &jwtTokens{key: key, issuer: issuer, now: time.Now}
}

func (j *jwtTokens) Issue(ctx context.Context, memberID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if memberID == "" {
		return "", fmt.Errorf("member id is required: %w", domain.ErrInvalidInput)
	}
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   j.issuer,
			Subject:  memberID,
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(j.now()),
		},
		Purpose: tokenPurpose,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(j.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign identity token: %w", err)
	}
	return signed, nil
}

func (j *jwtTokens) Verify(token string) (string, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(j.issuer),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Purpose != tokenPurpose || claims.Subject == "" {
		return "", domain.ErrInvalidToken
	}
	return claims.Subject, nil
}

