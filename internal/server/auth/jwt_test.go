package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/avelichko/inkwell-auth/internal/common"
	"github.com/avelichko/inkwell-auth/internal/server/models"
)

func newTestCodec(t *testing.T) *TokenCodec {
	t.Helper()
	codec, err := NewTokenCodec([]byte("access-secret"), []byte("refresh-secret"), 15*time.Minute, 10*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}
	return codec
}

func testAuthor() *models.Author {
	return &models.Author{
		ID:       42,
		Name:     "Jane Writer",
		Email:    "jane@example.com",
		IsActive: true,
		Role:     models.RoleAuthor,
	}
}

func TestNewTokenCodec_EmptySecret(t *testing.T) {
	t.Parallel()

	if _, err := NewTokenCodec(nil, []byte("r"), time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty access secret")
	}
	if _, err := NewTokenCodec([]byte("a"), nil, time.Minute, time.Hour); err == nil {
		t.Fatal("expected error for empty refresh secret")
	}
}

func TestIssueAndVerifyAccess(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	author := testAuthor()

	tok, err := codec.IssueAccess(author)
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	claims, err := codec.VerifyAccess(tok)
	if err != nil {
		t.Fatalf("VerifyAccess error: %v", err)
	}

	id, err := claims.AuthorID()
	if err != nil || id != author.ID {
		t.Fatalf("AuthorID mismatch: got %d, %v", id, err)
	}
	if claims.Email != author.Email || claims.Name != author.Name || claims.Role != author.Role {
		t.Fatalf("claims mismatch: %+v", claims)
	}
	if claims.ExpiresAt == nil || claims.IssuedAt == nil {
		t.Fatal("expected iat and exp to be set")
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt.Time); got != 15*time.Minute {
		t.Fatalf("access validity = %v, want 15m", got)
	}
}

func TestIssueAndVerifyRefresh(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	expires := time.Now().Add(10 * time.Hour)

	tok, err := codec.IssueRefresh(42, "record-id-1", expires)
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	claims, err := codec.VerifyRefresh(tok)
	if err != nil {
		t.Fatalf("VerifyRefresh error: %v", err)
	}
	if claims.TokenID != "record-id-1" {
		t.Fatalf("TokenID = %q", claims.TokenID)
	}
	id, err := claims.AuthorID()
	if err != nil || id != 42 {
		t.Fatalf("AuthorID mismatch: got %d, %v", id, err)
	}
}

func TestVerify_WrongTokenKind(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	access, err := codec.IssueAccess(testAuthor())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	refresh, err := codec.IssueRefresh(42, "record-id-1", time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}

	// The two kinds are signed with distinct secrets, so neither verifies
	// as the other.
	if _, err := codec.VerifyRefresh(access); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for access token on refresh path, got %v", err)
	}
	if _, err := codec.VerifyAccess(refresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for refresh token on access path, got %v", err)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	codec, err := NewTokenCodec([]byte("access-secret"), []byte("refresh-secret"), -time.Second, 10*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	tok, err := codec.IssueAccess(testAuthor())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := codec.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for expired token, got %v", err)
	}

	refresh, err := codec.IssueRefresh(42, "record-id-1", time.Now().Add(-time.Minute))
	if err != nil {
		t.Fatalf("IssueRefresh error: %v", err)
	}
	if _, err := codec.VerifyRefresh(refresh); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for expired refresh token, got %v", err)
	}
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	tok, err := codec.IssueAccess(testAuthor())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}

	// Flip a character in the signature segment.
	parts := strings.Split(tok, ".")
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := codec.VerifyAccess(tampered); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for tampered token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)

	for _, tok := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("VerifyAccess(%q): want ErrInvalidToken, got %v", tok, err)
		}
		if _, err := codec.VerifyRefresh(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("VerifyRefresh(%q): want ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	codec := newTestCodec(t)
	other, err := NewTokenCodec([]byte("other-access"), []byte("other-refresh"), 15*time.Minute, 10*time.Hour)
	if err != nil {
		t.Fatalf("NewTokenCodec error: %v", err)
	}

	tok, err := codec.IssueAccess(testAuthor())
	if err != nil {
		t.Fatalf("IssueAccess error: %v", err)
	}
	if _, err := other.VerifyAccess(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("want ErrInvalidToken for foreign signature, got %v", err)
	}
}
