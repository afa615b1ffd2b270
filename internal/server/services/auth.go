// Package services contains server-side business logic. This file implements
// AuthService, which handles login, refresh-token rotation and logout.
package services

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/avelichko/inkwell-auth/internal/common"
	"github.com/avelichko/inkwell-auth/internal/dbx"
	"github.com/avelichko/inkwell-auth/internal/server/auth"
	"github.com/avelichko/inkwell-auth/internal/server/models"
	"github.com/avelichko/inkwell-auth/internal/server/repositories/repomanager"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Profile is the public projection of an account returned on login.
// It never carries the password hash.
type Profile struct {
	ID    int64
	Name  string
	Email string
	Role  models.Role
}

// LoginResult is the outcome of a successful login.
type LoginResult struct {
	TokenPair
	Author Profile
}

// AuthService orchestrates the two-token authentication protocol:
//   - Login: verify credentials, mint a token pair, persist the refresh record
//   - Refresh: validate and rotate a single-use refresh token
//   - Logout: best-effort revocation, never an error to the caller
//
// Every refresh-token record moves Active -> Revoked (on rotation or logout)
// or Active -> Expired (by clock); no transition leaves Revoked.
type AuthService struct {
	db              *sql.DB
	repos           repomanager.RepositoryManager
	codec           *auth.TokenCodec
	refreshValidity time.Duration
}

// NewAuthService constructs an AuthService over the given database handle,
// repositories and token codec.
func NewAuthService(db *sql.DB, repos repomanager.RepositoryManager, codec *auth.TokenCodec) *AuthService {
	return &AuthService{
		db:              db,
		repos:           repos,
		codec:           codec,
		refreshValidity: codec.RefreshValidity(),
	}
}

// Login verifies email/password and returns a fresh token pair plus the
// account's public profile. Every failure surfaces as
// common.ErrorUnauthorized except storage faults, which surface as
// common.ErrorInternal; neither reveals whether the email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	author, err := s.repos.Authors(s.db).GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}
	if author.PasswordHash == "" {
		return nil, common.ErrorUnauthorized
	}
	if !auth.CheckPassword(password, author.PasswordHash) {
		return nil, common.ErrorUnauthorized
	}
	if !author.IsActive {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.generateTokenPair(ctx, author, s.db)
	if err != nil {
		return nil, common.ErrorInternal
	}

	return &LoginResult{
		TokenPair: *pair,
		Author: Profile{
			ID:    author.ID,
			Name:  author.Name,
			Email: author.Email,
			Role:  author.Role,
		},
	}, nil
}

// Refresh validates a refresh token, rotates the stored record and returns
// a new token pair. The presented record is revoked with a conditional
// update inside the same transaction that creates its replacement, so two
// concurrent calls with the same token yield exactly one success. Every
// failure collapses into common.ErrorForbidden.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, common.ErrorForbidden
	}
	authorID, err := claims.AuthorID()
	if err != nil {
		return nil, common.ErrorForbidden
	}

	stored, err := s.repos.RefreshTokens(s.db).Get(ctx, claims.TokenID, authorID)
	if err != nil {
		return nil, common.ErrorForbidden
	}
	if stored.Revoked || time.Now().After(stored.ExpiresAt) {
		return nil, common.ErrorForbidden
	}

	author, err := s.repos.Authors(s.db).GetByID(ctx, authorID)
	if err != nil {
		return nil, common.ErrorForbidden
	}

	var pair *TokenPair
	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		revoked, err := s.repos.RefreshTokens(tx).RevokeActive(ctx, stored.ID)
		if err != nil {
			return err
		}
		if !revoked {
			// A concurrent refresh won the race for this record.
			return common.ErrorForbidden
		}
		var genErr error
		pair, genErr = s.generateTokenPair(ctx, author, tx)
		return genErr
	}); err != nil {
		return nil, common.ErrorForbidden
	}
	return pair, nil
}

// Logout revokes the record behind refreshToken when the token verifies.
// It is a best-effort "forget this session" signal: invalid tokens, repeat
// calls and storage faults all fall through silently, and the caller always
// sees success.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return
	}
	_ = s.repos.RefreshTokens(s.db).Revoke(ctx, claims.TokenID)
}

// Sessions returns the refresh-token records owned by authorID, for the
// admin audit endpoint.
func (s *AuthService) Sessions(ctx context.Context, authorID int64) ([]models.RefreshToken, error) {
	tokens, err := s.repos.RefreshTokens(s.db).ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return tokens, nil
}

// generateTokenPair creates a fresh refresh-token record and signs a new
// access/refresh token pair for the account. The refresh JWT embeds the
// record identifier and mirrors its expiry.
func (s *AuthService) generateTokenPair(ctx context.Context, author *models.Author, db dbx.DBTX) (*TokenPair, error) {
	record, err := s.repos.RefreshTokens(db).Create(ctx, author.ID, s.refreshValidity)
	if err != nil {
		return nil, err
	}
	access, err := s.codec.IssueAccess(author)
	if err != nil {
		return nil, err
	}
	refresh, err := s.codec.IssueRefresh(author.ID, record.ID, record.ExpiresAt)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
