package auth

import (
	"errors"
	"testing"
	"time"
)

func newMemoryDBManager(t *testing.T) *SQLiteManager {
	t.Helper()
	m, err := NewSQLiteManager(":memory:", time.Hour)
	if err != nil {
		t.Fatalf("NewSQLiteManager err: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestSQLiteRegisterLoginResolve(t *testing.T) {
	m := newMemoryDBManager(t)

	accountID, token, err := m.Register("bob_02", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if accountID == 0 || token == "" {
		t.Fatalf("expected account id and token, got %d %q", accountID, token)
	}

	resolvedID, username, ok := m.ResolveSession(token)
	if !ok {
		t.Fatalf("expected register token to resolve")
	}
	if resolvedID != accountID {
		t.Fatalf("expected account %d, got %d", accountID, resolvedID)
	}
	if username != "bob_02" {
		t.Fatalf("expected username bob_02, got %q", username)
	}

	loginID, loginToken, err := m.Login("bob_02", "secret12")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loginID != accountID {
		t.Fatalf("expected same account id after login")
	}
	if loginToken == token {
		t.Fatalf("login should issue a fresh token")
	}
}

func TestSQLiteRejectsDuplicateAndBadCredentials(t *testing.T) {
	m := newMemoryDBManager(t)

	if _, _, err := m.Register("bob_02", "secret12"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := m.Register("BOB_02", "secret12"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
	if _, _, err := m.Login("bob_02", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, _, err := m.Login("nobody", "secret12"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown user, got %v", err)
	}
}

func TestSQLiteLogoutRevokesSession(t *testing.T) {
	m := newMemoryDBManager(t)

	_, token, err := m.Register("bob_02", "secret12")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	m.Logout(token)
	if _, _, ok := m.ResolveSession(token); ok {
		t.Fatalf("revoked token should not resolve")
	}
}
