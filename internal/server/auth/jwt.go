// Package auth implements the credential primitives of the service: the
// JWT token codec, password hashing, and the role-based authorization rule.
package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/avelichko/inkwell-auth/internal/common"
	"github.com/avelichko/inkwell-auth/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set carried by access tokens. Access tokens are
// stateless: signature plus expiry is the whole check, no store lookup.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Role  models.Role `json:"role"`
}

// AuthorID returns the numeric account id stored in the subject claim.
func (c *AccessClaims) AuthorID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// RefreshClaims is the claim set carried by refresh tokens. TokenID is the
// identifier of the stored refresh-token record the token rotates.
type RefreshClaims struct {
	jwt.RegisteredClaims
	TokenID string `json:"rtid"`
}

// AuthorID returns the numeric account id stored in the subject claim.
func (c *RefreshClaims) AuthorID() (int64, error) {
	return strconv.ParseInt(c.Subject, 10, 64)
}

// TokenCodec signs and verifies access and refresh tokens with HS256.
// Access and refresh tokens use distinct secrets so one kind can never be
// presented as the other. All construction-time configuration is explicit;
// the codec never reads ambient state while handling a request.
type TokenCodec struct {
	accessSecret    []byte
	refreshSecret   []byte
	accessValidity  time.Duration
	refreshValidity time.Duration
}

// NewTokenCodec builds a TokenCodec. Empty secrets are a configuration
// error and refuse construction.
func NewTokenCodec(accessSecret, refreshSecret []byte, accessValidity, refreshValidity time.Duration) (*TokenCodec, error) {
	if len(accessSecret) == 0 || len(refreshSecret) == 0 {
		return nil, errors.New("token codec: signing secret is not configured")
	}
	return &TokenCodec{
		accessSecret:    accessSecret,
		refreshSecret:   refreshSecret,
		accessValidity:  accessValidity,
		refreshValidity: refreshValidity,
	}, nil
}

// AccessValidity returns the configured access-token lifetime.
func (c *TokenCodec) AccessValidity() time.Duration { return c.accessValidity }

// RefreshValidity returns the configured refresh-token lifetime.
func (c *TokenCodec) RefreshValidity() time.Duration { return c.refreshValidity }

// IssueAccess signs a new access token for the given account.
func (c *TokenCodec) IssueAccess(author *models.Author) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(author.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.accessValidity)),
		},
		Email: author.Email,
		Name:  author.Name,
		Role:  author.Role,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.accessSecret)
}

// IssueRefresh signs a new refresh token referencing the stored record
// tokenID. The JWT expiry mirrors the record's expiry so both checks agree.
func (c *TokenCodec) IssueRefresh(authorID int64, tokenID string, expiresAt time.Time) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(authorID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		TokenID: tokenID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.refreshSecret)
}

// VerifyAccess parses and validates an access token. Bad signature,
// malformed payload and expiry all collapse into common.ErrInvalidToken;
// the caller learns nothing about which check failed.
func (c *TokenCodec) VerifyAccess(tokenString string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := c.verify(tokenString, claims, c.accessSecret); err != nil {
		return nil, err
	}
	if _, err := claims.AuthorID(); err != nil {
		return nil, common.ErrInvalidToken
	}
	if !claims.Role.Valid() {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

// VerifyRefresh parses and validates a refresh token, collapsing every
// failure into common.ErrInvalidToken.
func (c *TokenCodec) VerifyRefresh(tokenString string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := c.verify(tokenString, claims, c.refreshSecret); err != nil {
		return nil, err
	}
	if _, err := claims.AuthorID(); err != nil {
		return nil, common.ErrInvalidToken
	}
	if claims.TokenID == "" {
		return nil, common.ErrInvalidToken
	}
	return claims, nil
}

func (c *TokenCodec) verify(tokenString string, claims jwt.Claims, secret []byte) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return common.ErrInvalidToken
	}
	if !token.Valid {
		return common.ErrInvalidToken
	}
	return nil
}
