package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/robalobadob/findpair/internal/db"
)

func newService(t *testing.T) *Service {
	t.Helper()
	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return NewService(conn, Config{Secret: "test-secret", TTL: time.Hour})
}

func TestValidateSignup(t *testing.T) {
	cases := []struct {
		user, pass string
		ok         bool
	}{
		{"alice", "password1", true},
		{"al", "password1", false},
		{"alice!", "password1", false},
		{"alice", "short", false},
		{"user_01", "12345678", true},
	}
	for _, tc := range cases {
		err := validateSignup(tc.user, tc.pass)
		if (err == nil) != tc.ok {
			t.Fatalf("validateSignup(%q,%q) err=%v, want ok=%v", tc.user, tc.pass, err, tc.ok)
		}
		if err != nil && !errors.Is(err, ErrInvalidSignup) {
			t.Fatalf("validateSignup(%q,%q) err=%v, want ErrInvalidSignup", tc.user, tc.pass, err)
		}
	}
}

func TestCreateAndAuthenticate(t *testing.T) {
	s := newService(t)
	ctx := context.Background()

	u, err := s.CreateUser(ctx, "  alice ", "password1")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Username != "alice" || u.ID == "" {
		t.Fatalf("unexpected user %+v", u)
	}
	if _, err := s.CreateUser(ctx, "ALICE", "password2"); !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	got, err := s.Authenticate(ctx, "Alice", "password1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if got.ID != u.ID {
		t.Fatalf("authenticated wrong user %s", got.ID)
	}
	if _, err := s.Authenticate(ctx, "alice", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := s.Authenticate(ctx, "nobody", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestSignVerify(t *testing.T) {
	s := newService(t)
	tok, exp, err := s.Sign(&User{ID: "u1", Username: "bob"})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatal("expiry should be in the future")
	}
	id, name, err := s.Verify(tok)
	if err != nil || id != "u1" || name != "bob" {
		t.Fatalf("verify: id=%q name=%q err=%v", id, name, err)
	}

	other := NewService(nil, Config{Secret: "another-secret"})
	if _, _, err := other.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken with wrong secret, got %v", err)
	}
}

func TestVerifyExpired(t *testing.T) {
	s := newService(t)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	tok, _, err := s.Sign(&User{ID: "u1", Username: "bob"})
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := s.Verify(tok); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected expired token to fail, got %v", err)
	}
}

func TestMiddleware(t *testing.T) {
	s := newService(t)
	u, err := s.CreateUser(context.Background(), "carol", "password1")
	if err != nil {
		t.Fatal(err)
	}
	tok, _, err := s.Sign(u)
	if err != nil {
		t.Fatal(err)
	}

	var seen *User
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// Require without token.
	rec := httptest.NewRecorder()
	s.Require()(h).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}

	// Require with bearer token.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	s.Require()(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen == nil || seen.ID != u.ID {
		t.Fatalf("expected authenticated request, code=%d user=%v", rec.Code, seen)
	}

	// Optional with cookie.
	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "findpair_token", Value: tok})
	rec = httptest.NewRecorder()
	s.Optional()(h).ServeHTTP(rec, req)
	if seen == nil || seen.Username != "carol" {
		t.Fatalf("expected cookie auth, got %v", seen)
	}

	// Optional with garbage token stays anonymous.
	seen = nil
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	s.Optional()(h).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || seen != nil {
		t.Fatalf("expected guest request, code=%d user=%v", rec.Code, seen)
	}
}

func TestCookies(t *testing.T) {
	s := NewService(nil, Config{Secure: true, CookieName: "tok"})
	rec := httptest.NewRecorder()
	s.SetCookie(rec, "abc", time.Now().Add(time.Hour))
	c := rec.Result().Cookies()
	if len(c) != 1 || c[0].Name != "tok" || c[0].Value != "abc" || !c[0].Secure || !c[0].HttpOnly {
		t.Fatalf("unexpected cookie %+v", c)
	}

	rec = httptest.NewRecorder()
	s.ClearCookie(rec)
	c = rec.Result().Cookies()
	if len(c) != 1 || c[0].MaxAge >= 0 {
		t.Fatalf("expected expiring cookie, got %+v", c)
	}
}

func TestCreateUserStorageErrorIsNotValidation(t *testing.T) {
	s := newService(t)
	_ = s.db.Close()
	_, err := s.CreateUser(context.Background(), "erin", "password1")
	if err == nil || errors.Is(err, ErrInvalidSignup) || errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("expected storage error, got %v", err)
	}
}
