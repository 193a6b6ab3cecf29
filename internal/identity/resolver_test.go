package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"

	"github.com/intrale/platform-sub000/internal/fault"
)

const testSecret = "test-secret"

func testConfig() Config {
	return Config{
		ClientID: "test-client",
		Issuer:   "https://issuer.example.com",
		Secret:   testSecret,
	}
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func accessClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"email":     "user@example.com",
		"token_use": "access",
		"client_id": "test-client",
		"iss":       "https://issuer.example.com",
		"exp":       time.Now().Add(time.Hour).Unix(),
	}
}

func TestResolveMissingHeader(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	_, err := resolver.Resolve(context.Background(), "")
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveRejectsNonBearerHeader(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	_, err := resolver.Resolve(context.Background(), "Basic abc123")
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveValidLocalToken(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	ident, err := resolver.Resolve(context.Background(), "Bearer "+signToken(t, accessClaims()))
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ident.Email != "user@example.com" {
		t.Fatalf("unexpected email: %s", ident.Email)
	}
}

func TestResolveRejectsBadSignature(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims())
	signed, err := token.SignedString([]byte("other-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}

	_, resolveErr := resolver.Resolve(context.Background(), "Bearer "+signed)
	if fault.CodeOf(resolveErr) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", resolveErr)
	}
}

func TestResolveRejectsNonAccessToken(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	claims := accessClaims()
	claims["token_use"] = "id"

	_, err := resolver.Resolve(context.Background(), "Bearer "+signToken(t, claims))
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveRejectsClientMismatch(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	claims := accessClaims()
	claims["client_id"] = "another-client"

	_, err := resolver.Resolve(context.Background(), "Bearer "+signToken(t, claims))
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestResolveRejectsIssuerMismatch(t *testing.T) {
	resolver := NewResolver(testConfig(), nil)

	claims := accessClaims()
	claims["iss"] = "https://elsewhere.example.com"

	_, err := resolver.Resolve(context.Background(), "Bearer "+signToken(t, claims))
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

type stubProvider struct {
	email string
	err   error
}

func (p *stubProvider) LookupEmail(ctx context.Context, accessToken string) (string, error) {
	return p.email, p.err
}

func (p *stubProvider) CreateAccount(ctx context.Context, email string) error {
	return nil
}

func TestResolveDelegatesToProvider(t *testing.T) {
	resolver := NewResolver(testConfig(), &stubProvider{email: "Delegated@Example.com"})

	ident, err := resolver.Resolve(context.Background(), "Bearer opaque-token")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if ident.Email != "delegated@example.com" {
		t.Fatalf("unexpected email: %s", ident.Email)
	}
}

func TestResolveClassifiesProviderFailureAsUnauthorized(t *testing.T) {
	resolver := NewResolver(testConfig(), &stubProvider{err: errors.New("connection reset")})

	_, err := resolver.Resolve(context.Background(), "Bearer opaque-token")
	if fault.CodeOf(err) != fault.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}
