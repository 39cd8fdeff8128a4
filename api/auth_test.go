package api

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"unify-api/domain"
)

func TestBearerTokenFromStringSuccess(t *testing.T) {
	token, err := bearerTokenFromString("Bearer header.payload.signature")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token != "header.payload.signature" {
		t.Fatalf("unexpected token content: %s", token)
	}
}

func TestBearerTokenFromStringMissing(t *testing.T) {
	if _, err := bearerTokenFromString(""); err == nil || err.Error() != "missing authorization header" {
		t.Fatalf("expected missing header error, got %v", err)
	}
}

func TestBearerTokenFromStringNoPrefix(t *testing.T) {
	if _, err := bearerTokenFromString("Basic abc.def.ghi"); err == nil || err.Error() != "bad auth header" {
		t.Fatalf("expected bad auth header error, got %v", err)
	}
}

func TestBearerTokenFromStringManyPeriods(t *testing.T) {
	header := "Bearer " + strings.Repeat(".", 1000)
	if _, err := bearerTokenFromString(header); err == nil || err.Error() != "bad auth header" {
		t.Fatalf("expected bad auth header error, got %v", err)
	}
}

func testAuth(secret []byte) *Auth {
	return &Auth{
		Audience:   "api://aud",
		Issuer:     "https://issuer/",
		TestMode:   true,
		TestSecret: secret,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"HS256"})),
	}
}

func signedToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func baseClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub": "user-123",
		"aud": "api://aud",
		"iss": "https://issuer/",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"nbf": time.Now().Add(-time.Minute).Unix(),
		"iat": time.Now().Add(-time.Minute).Unix(),
	}
}

func TestProfileFromBearerHS256(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	claims["role"] = "admin"

	profile, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims))
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if profile.ID != "user-123" {
		t.Fatalf("unexpected user id: %s", profile.ID)
	}
	if profile.Role != domain.RoleAdmin {
		t.Fatalf("unexpected role: %s", profile.Role)
	}
}

func TestProfileFromBearerAppMetadataRole(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	claims["app_metadata"] = map[string]any{"role": "worker"}

	profile, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims))
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if profile.Role != domain.RoleWorker {
		t.Fatalf("unexpected role: %s", profile.Role)
	}
}

func TestProfileFromBearerMissingRoleFallsBackToClient(t *testing.T) {
	secret := []byte("test-secret")

	profile, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, baseClaims()))
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if profile.Role != domain.RoleClient {
		t.Fatalf("expected client fallback, got %s", profile.Role)
	}
}

func TestProfileFromBearerUnknownRoleFallsBackToClient(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	claims["role"] = "superuser"

	profile, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims))
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if profile.Role != domain.RoleClient {
		t.Fatalf("expected client fallback, got %s", profile.Role)
	}
}

func TestProfileFromBearerExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	claims["exp"] = time.Now().Add(-5 * time.Minute).Unix()

	if _, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims)); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestProfileFromBearerMissingSub(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	delete(claims, "sub")

	if _, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims)); err == nil {
		t.Fatal("expected token without sub to fail")
	}
}

func TestProfileFromBearerWrongAudience(t *testing.T) {
	secret := []byte("test-secret")
	claims := baseClaims()
	claims["aud"] = "api://other"

	if _, err := testAuth(secret).ProfileFromBearer(signedToken(t, secret, claims)); err == nil {
		t.Fatal("expected wrong-audience token to fail")
	}
}

func TestProfileFromBearerWrongSecret(t *testing.T) {
	signed := signedToken(t, []byte("other-secret"), baseClaims())
	if _, err := testAuth([]byte("test-secret")).ProfileFromBearer(signed); err == nil {
		t.Fatal("expected bad signature to fail")
	}
}
