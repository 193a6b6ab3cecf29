package twofactor

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"

	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/model"
)

type memoryRepository struct {
	mu      sync.Mutex
	secrets map[string]model.TotpSecretItem
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		secrets: make(map[string]model.TotpSecretItem),
	}
}

func (m *memoryRepository) GetSecret(ctx context.Context, email string) (model.TotpSecretItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.secrets[email]
	if !ok {
		return model.TotpSecretItem{}, ErrNotFound
	}
	return item, nil
}

func (m *memoryRepository) PutSecret(ctx context.Context, item model.TotpSecretItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.secrets[item.Email] = item
	return nil
}

type memoryReplayGuard struct {
	mu   sync.Mutex
	used map[string]bool
}

func newMemoryReplayGuard() *memoryReplayGuard {
	return &memoryReplayGuard{used: make(map[string]bool)}
}

func (g *memoryReplayGuard) MarkUsed(ctx context.Context, email, code string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	key := email + ":" + code
	if g.used[key] {
		return false, nil
	}
	g.used[key] = true
	return true, nil
}

func fixedTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func TestSetupCreatesSecretAndProvisioningURI(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, nil, "intrale", fixedTime)

	uri, err := service.Setup(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	if !strings.HasPrefix(uri, "otpauth://totp/intrale:admin@example.com?secret=") {
		t.Fatalf("unexpected uri prefix: %s", uri)
	}
	if !strings.HasSuffix(uri, "&issuer=intrale&algorithm=SHA1&digits=6&period=30") {
		t.Fatalf("unexpected uri suffix: %s", uri)
	}

	stored, err := repo.GetSecret(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("secret not stored: %v", err)
	}
	if len(stored.Secret) != 32 {
		t.Fatalf("expected 32 char secret, got %d", len(stored.Secret))
	}
}

func TestSetupIsIdempotent(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, nil, "intrale", fixedTime)

	first, err := service.Setup(context.Background(), "admin@example.com")
	if err != nil {
		t.Fatalf("first setup: %v", err)
	}
	second, err := service.Setup(context.Background(), "Admin@Example.com")
	if err != nil {
		t.Fatalf("second setup: %v", err)
	}

	if first != second {
		t.Fatalf("expected identical uri, got %q and %q", first, second)
	}
	if len(repo.secrets) != 1 {
		t.Fatalf("expected one stored secret, got %d", len(repo.secrets))
	}
}

func TestVerifyAcceptsCurrentWindowCode(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, nil, "intrale", fixedTime)

	if _, err := service.Setup(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	stored, _ := repo.GetSecret(context.Background(), "admin@example.com")
	code, err := totp.GenerateCodeCustom(stored.Secret, fixedTime().UTC(), totpOpts)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if err := service.Verify(context.Background(), "admin@example.com", code); err != nil {
		t.Fatalf("verify with current code: %v", err)
	}
}

func TestVerifyRejectsWrongCode(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, nil, "intrale", fixedTime)

	if _, err := service.Setup(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	err := service.Verify(context.Background(), "admin@example.com", "000000")
	if err == nil {
		t.Fatal("expected error for wrong code")
	}
	if fault.CodeOf(err) != fault.CodeTwoFactorInvalid {
		t.Fatalf("expected two_factor_invalid, got %s", fault.CodeOf(err))
	}
}

func TestVerifyRejectsReplayedCode(t *testing.T) {
	repo := newMemoryRepository()
	service := NewWithRepository(repo, newMemoryReplayGuard(), "intrale", fixedTime)

	if _, err := service.Setup(context.Background(), "admin@example.com"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	stored, _ := repo.GetSecret(context.Background(), "admin@example.com")
	code, err := totp.GenerateCodeCustom(stored.Secret, fixedTime().UTC(), totpOpts)
	if err != nil {
		t.Fatalf("generate code: %v", err)
	}

	if err := service.Verify(context.Background(), "admin@example.com", code); err != nil {
		t.Fatalf("first verify: %v", err)
	}

	err = service.Verify(context.Background(), "admin@example.com", code)
	if fault.CodeOf(err) != fault.CodeTwoFactorInvalid {
		t.Fatalf("expected replayed code to be rejected, got %v", err)
	}
}

func TestVerifyWithoutSetup(t *testing.T) {
	service := NewWithRepository(newMemoryRepository(), nil, "intrale", fixedTime)

	err := service.Verify(context.Background(), "admin@example.com", "123456")
	if fault.CodeOf(err) != fault.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
