package session

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func fixedIssuer(now time.Time) *Issuer {
	i := NewIssuer(testSecret, "ag3-api", 7*24*time.Hour)
	i.now = func() time.Time { return now }
	return i
}

func TestIssuer_IssueAndVerify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer(now)

	cred, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := now.Add(7 * 24 * time.Hour).Unix(); cred.ExpiresAt != want {
		t.Errorf("ExpiresAt: got %d, want %d", cred.ExpiresAt, want)
	}

	userID, err := issuer.Verify(cred.Token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if userID != "user-1" {
		t.Errorf("got %s, want user-1", userID)
	}
}

func TestIssuer_IssueEmptyUser(t *testing.T) {
	if _, err := fixedIssuer(time.Now()).Issue(""); err == nil {
		t.Error("expected error for empty user id")
	}
}

func TestIssuer_Verify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	issuer := fixedIssuer(now)
	cred, err := issuer.Issue("user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	signed := func(method jwt.SigningMethod, key any, claims jwt.Claims) string {
		t.Helper()
		s, err := jwt.NewWithClaims(method, claims).SignedString(key)
		if err != nil {
			t.Fatalf("failed to sign: %v", err)
		}
		return s
	}
	valid := jwt.RegisteredClaims{
		Subject:   "user-1",
		Issuer:    "ag3-api",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	tests := []struct {
		name   string
		token  string
		issuer *Issuer
	}{
		{"expired", cred.Token, fixedIssuer(now.Add(8 * 24 * time.Hour))},
		{"wrong secret", cred.Token, func() *Issuer {
			i := NewIssuer(strings.Repeat("x", 32), "ag3-api", time.Hour)
			i.now = func() time.Time { return now }
			return i
		}()},
		{"wrong issuer", cred.Token, func() *Issuer {
			i := NewIssuer(testSecret, "someone-else", time.Hour)
			i.now = func() time.Time { return now }
			return i
		}()},
		{"garbage", "not.a.token", issuer},
		{"empty", "", issuer},
		{"none algorithm", signed(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), issuer},
		{"hs512", signed(jwt.SigningMethodHS512, []byte(testSecret), valid), issuer},
		{"missing subject", signed(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Issuer:    "ag3-api",
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		}), issuer},
		{"missing expiry", signed(jwt.SigningMethodHS256, []byte(testSecret), jwt.RegisteredClaims{
			Subject: "user-1",
			Issuer:  "ag3-api",
		}), issuer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.issuer.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("got %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestCookie(t *testing.T) {
	cred := Credential{Token: "tok", ExpiresAt: 1714564800}
	c := Cookie("AG3_JWT", "ag3.dev", cred, true)

	if c.Name != "AG3_JWT" || c.Value != "tok" || c.Domain != "ag3.dev" {
		t.Errorf("got %+v", c)
	}
	if !c.Expires.Equal(time.Unix(1714564800, 0)) {
		t.Errorf("Expires: got %v", c.Expires)
	}
	if !c.HttpOnly || !c.Secure || c.Path != "/" || c.SameSite != http.SameSiteLaxMode {
		t.Errorf("attributes: got %+v", c)
	}
}

func TestExpiredCookie(t *testing.T) {
	c := ExpiredCookie("AG3_JWT", "ag3.dev", false)
	if c.Value != "" || c.MaxAge >= 0 {
		t.Errorf("got %+v, want cleared cookie", c)
	}
}

func TestCookieDomain(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		host       string
		want       string
	}{
		{"configured wins", "ag3.dev", "api.ag3.dev:8080", "ag3.dev"},
		{"host with port", "", "localhost:8080", "localhost"},
		{"host without port", "", "api.ag3.dev", "api.ag3.dev"},
		{"ipv6", "", "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Host = tt.host
			if got := CookieDomain(tt.configured, r); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
