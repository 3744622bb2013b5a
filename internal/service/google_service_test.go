package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"accounts-api/internal/domain"
)

type mockVerifier struct {
	identity GoogleIdentity
	err      error
}

func (m *mockVerifier) Verify(_ context.Context, _ string) (GoogleIdentity, error) {
	return m.identity, m.err
}

func newTestGoogleService(repo *mockAccountRepo, verifier CredentialVerifier) *GoogleAuthService {
	tokens := NewTokenService("secret", time.Hour)
	return NewGoogleAuthService(zap.NewNop(), repo, verifier, tokens, 4)
}

func TestGoogleAuthService_CreatesAccountOnFirstLogin(t *testing.T) {
	repo := newMockAccountRepo()
	verifier := &mockVerifier{identity: GoogleIdentity{Subject: "sub-1", Email: "ann@x.com", Name: "Ann Lee"}}
	svc := newTestGoogleService(repo, verifier)

	account, token, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	if account.Name != "Ann Lee" || account.Email != "ann@x.com" || account.Subscription != "free" {
		t.Fatalf("unexpected account: %+v", account)
	}
	if account.PasswordHash == "" {
		t.Fatalf("expected placeholder password hash")
	}
}

func TestGoogleAuthService_SecondLoginReusesAccount(t *testing.T) {
	repo := newMockAccountRepo()
	verifier := &mockVerifier{identity: GoogleIdentity{Subject: "sub-1", Email: "ann@x.com", Name: "Ann Lee"}}
	svc := newTestGoogleService(repo, verifier)

	first, _, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	second, _, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("expected same account, got %d and %d", first.ID, second.ID)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected single account, got %d", len(repo.accounts))
	}
}

func TestGoogleAuthService_DoesNotOverwriteLocalProfile(t *testing.T) {
	repo := newMockAccountRepo()
	accountSvc := newTestAccountService(repo)

	registered, err := accountSvc.Register(context.Background(), RegisterInput{
		Name: "Ann B. Lee", Email: "ann@x.com", Phone: "1234567890", Password: "secret1",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	verifier := &mockVerifier{identity: GoogleIdentity{Subject: "sub-1", Email: "ann@x.com", Name: "Ann"}}
	svc := newTestGoogleService(repo, verifier)

	account, _, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.ID != registered.ID || account.Name != "Ann B. Lee" {
		t.Fatalf("expected untouched local profile, got %+v", account)
	}

	// La contraseña local sigue siendo usable.
	if _, _, err := accountSvc.Login(context.Background(), "ann@x.com", "secret1"); err != nil {
		t.Fatalf("password login after federated login: %v", err)
	}
}

func TestGoogleAuthService_DefaultsNameWhenProviderOmitsIt(t *testing.T) {
	repo := newMockAccountRepo()
	verifier := &mockVerifier{identity: GoogleIdentity{Subject: "sub-1", Email: "ann@x.com"}}
	svc := newTestGoogleService(repo, verifier)

	account, _, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.Name != "Google User" {
		t.Fatalf("expected placeholder name, got %q", account.Name)
	}
}

func TestGoogleAuthService_RejectsInvalidCredential(t *testing.T) {
	repo := newMockAccountRepo()
	verifier := &mockVerifier{err: ErrCredentialInvalid}
	svc := newTestGoogleService(repo, verifier)

	if _, _, err := svc.Login(context.Background(), "bad"); !errors.Is(err, ErrCredentialInvalid) {
		t.Fatalf("expected ErrCredentialInvalid, got %v", err)
	}
	if len(repo.accounts) != 0 {
		t.Fatalf("expected no accounts created")
	}
}

// racingAccountRepo simula dos logins federados concurrentes: el primer
// GetByEmail no encuentra nada, el Create choca con el constraint y la
// relectura devuelve la cuenta creada por el otro login.
type racingAccountRepo struct {
	*mockAccountRepo
	raced bool
}

func (r *racingAccountRepo) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	if !r.raced {
		return domain.Account{}, pgx.ErrNoRows
	}
	return r.mockAccountRepo.GetByEmail(ctx, email)
}

func (r *racingAccountRepo) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	if !r.raced {
		r.raced = true
		winner := account
		winner.Name = "Winner"
		if _, err := r.mockAccountRepo.Create(ctx, winner); err != nil {
			return domain.Account{}, err
		}
		return domain.Account{}, &pgconn.PgError{Code: "23505", ConstraintName: "accounts_email_key"}
	}
	return r.mockAccountRepo.Create(ctx, account)
}

func TestGoogleAuthService_UniqueViolationRefetches(t *testing.T) {
	repo := &racingAccountRepo{mockAccountRepo: newMockAccountRepo()}
	verifier := &mockVerifier{identity: GoogleIdentity{Subject: "sub-1", Email: "ann@x.com", Name: "Ann Lee"}}
	tokens := NewTokenService("secret", time.Hour)
	svc := NewGoogleAuthService(zap.NewNop(), repo, verifier, tokens, 4)

	account, _, err := svc.Login(context.Background(), "credential")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if account.Name != "Winner" {
		t.Fatalf("expected refetched account from the winning login, got %+v", account)
	}
	if len(repo.accounts) != 1 {
		t.Fatalf("expected single account, got %d", len(repo.accounts))
	}
}
