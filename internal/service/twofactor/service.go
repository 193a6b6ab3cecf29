package twofactor

import (
	"context"
	"crypto/rand"
	"encoding/base32"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/intrale/platform-sub000/internal/database"
	"github.com/intrale/platform-sub000/internal/fault"
	"github.com/intrale/platform-sub000/internal/model"
)

const (
	secretBytes = 20
	totpPeriod  = 30
)

var totpOpts = totp.ValidateOpts{
	Period:    totpPeriod,
	Skew:      0,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

// Service issues and verifies time-based one-time passwords. Secrets are
// created once per user and reused on later setup calls.
type Service struct {
	repo   Repository
	replay ReplayGuard
	issuer string
	now    func() time.Time
}

func New(db *database.Database, replay ReplayGuard, issuer string) *Service {
	return NewWithRepository(NewDynamoRepository(db), replay, issuer, time.Now)
}

func NewWithRepository(repo Repository, replay ReplayGuard, issuer string, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		repo:   repo,
		replay: replay,
		issuer: issuer,
		now:    now,
	}
}

// Setup returns the provisioning URI for email, generating and storing a
// secret on first use. Calling it again returns the same URI.
func (s *Service) Setup(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", fault.New(fault.CodeValidation, "email is required", nil)
	}

	item, err := s.repo.GetSecret(ctx, email)
	if errors.Is(err, ErrNotFound) {
		secret, genErr := generateSecret()
		if genErr != nil {
			return "", fault.New(fault.CodeInternal, "failed to generate secret", genErr)
		}
		item = model.TotpSecretItem{
			Email:     email,
			Secret:    secret,
			CreatedAt: s.now().UTC().Format(time.RFC3339),
		}
		if putErr := s.repo.PutSecret(ctx, item); putErr != nil {
			return "", fault.New(fault.CodeUnavailable, "failed to store secret", putErr)
		}
	} else if err != nil {
		return "", fault.New(fault.CodeUnavailable, "failed to load secret", err)
	}

	return s.provisioningURI(email, item.Secret), nil
}

// Verify checks code against the current window of the stored secret. An
// already-consumed code is rejected the same way an incorrect one is.
func (s *Service) Verify(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	code = strings.TrimSpace(code)
	if email == "" || code == "" {
		return fault.New(fault.CodeTwoFactorInvalid, "invalid two factor code", nil)
	}

	item, err := s.repo.GetSecret(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return fault.New(fault.CodeNotFound, "two factor is not configured", err)
	}
	if err != nil {
		return fault.New(fault.CodeUnavailable, "failed to load secret", err)
	}

	valid, err := totp.ValidateCustom(code, item.Secret, s.now().UTC(), totpOpts)
	if err != nil {
		return fault.New(fault.CodeInternal, "failed to validate code", err)
	}
	if !valid {
		return fault.New(fault.CodeTwoFactorInvalid, "invalid two factor code", nil)
	}

	if s.replay != nil {
		fresh, err := s.replay.MarkUsed(ctx, email, code)
		if err != nil {
			return fault.New(fault.CodeUnavailable, "failed to check code freshness", err)
		}
		if !fresh {
			return fault.New(fault.CodeTwoFactorInvalid, "invalid two factor code", nil)
		}
	}

	return nil
}

func (s *Service) provisioningURI(email, secret string) string {
	return fmt.Sprintf(
		"otpauth://totp/%s:%s?secret=%s&issuer=%s&algorithm=SHA1&digits=6&period=%d",
		s.issuer, email, secret, s.issuer, totpPeriod,
	)
}

func generateSecret() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(buf), nil
}
