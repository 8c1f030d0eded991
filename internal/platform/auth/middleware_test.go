package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

var testKey = []byte("console-test-signing-key")

func signToken(t *testing.T, claims Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := token.SignedString(testKey)
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return s
}

func authedRequest(token string) (*http.Request, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, httptest.NewRecorder()
}

func TestJWTMiddlewareValidToken(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	tok := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		ClinicID: "clinic-9",
		Roles:    []string{"registrar"},
	})

	req, rec := authedRequest(tok)
	c := e.NewContext(req, rec)

	var gotUser string
	var gotRoles []string
	handler := mw(func(c echo.Context) error {
		gotUser = UserIDFromContext(c.Request().Context())
		gotRoles = RolesFromContext(c.Request().Context())
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if gotUser != "user-1" {
		t.Errorf("user id = %q, want user-1", gotUser)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "registrar" {
		t.Errorf("roles = %v, want [registrar]", gotRoles)
	}
}

func TestJWTMiddlewareExpiredToken(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	tok := signToken(t, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user-1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	})

	req, rec := authedRequest(tok)
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	err := handler(c)
	if err == nil {
		t.Fatal("expected error for expired token")
	}
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T", err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", he.Code)
	}
	if he.Message != SessionExpiredCode {
		t.Errorf("message = %v, want %q", he.Message, SessionExpiredCode)
	}
}

func TestJWTMiddlewareMissingHeader(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	req, rec := authedRequest("")
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	err := handler(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
	if he.Message == SessionExpiredCode {
		t.Error("missing header must not report session_expired")
	}
}

func TestJWTMiddlewareBadSignature(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	other := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	tok, err := other.SignedString([]byte("wrong-key"))
	if err != nil {
		t.Fatalf("signing: %v", err)
	}

	req, rec := authedRequest(tok)
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	herr := handler(c)
	he, ok := herr.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", herr)
	}
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	mw := JWTMiddleware(JWTConfig{SigningKey: testKey})

	cases := []struct {
		name    string
		roles   []string
		allowed []string
		want    int
	}{
		{"matching role", []string{"physician"}, []string{"admin", "physician"}, http.StatusOK},
		{"no matching role", []string{"viewer"}, []string{"admin"}, http.StatusForbidden},
		{"no roles at all", nil, []string{"admin"}, http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tok := signToken(t, Claims{
				RegisteredClaims: jwt.RegisteredClaims{
					Subject:   "u",
					ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				},
				Roles: tc.roles,
			})
			req, rec := authedRequest(tok)
			c := e.NewContext(req, rec)

			handler := mw(RequireRole(tc.allowed...)(func(c echo.Context) error {
				return c.NoContent(http.StatusOK)
			}))
			err := handler(c)
			got := http.StatusOK
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					got = he.Code
				} else {
					t.Fatalf("unexpected error type: %T", err)
				}
			} else {
				got = rec.Code
			}
			if got != tc.want {
				t.Errorf("status = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestDevAuthMiddleware(t *testing.T) {
	e := echo.New()
	req, rec := authedRequest("")
	c := e.NewContext(req, rec)

	handler := DevAuthMiddleware()(func(c echo.Context) error {
		if UserIDFromContext(c.Request().Context()) == "" {
			t.Error("dev auth must set a user id")
		}
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
}
