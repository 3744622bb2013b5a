package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"google.golang.org/api/idtoken"

	"accounts-api/internal/domain"
	"accounts-api/internal/repository"
)

// GoogleIdentity es el claim verificado que entrega el proveedor.
type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

// CredentialVerifier valida una credencial del proveedor de identidad.
type CredentialVerifier interface {
	Verify(ctx context.Context, credential string) (GoogleIdentity, error)
}

var ErrCredentialInvalid = errors.New("google credential invalid")

// googleVerifier implementa CredentialVerifier contra los servidores de Google.
type googleVerifier struct {
	clientID string
}

func NewGoogleVerifier(clientID string) CredentialVerifier {
	return &googleVerifier{clientID: clientID}
}

func (v *googleVerifier) Verify(ctx context.Context, credential string) (GoogleIdentity, error) {
	payload, err := idtoken.Validate(ctx, credential, v.clientID)
	if err != nil {
		return GoogleIdentity{}, ErrCredentialInvalid
	}
	email, _ := payload.Claims["email"].(string)
	if strings.TrimSpace(email) == "" {
		return GoogleIdentity{}, ErrCredentialInvalid
	}
	name, _ := payload.Claims["name"].(string)
	return GoogleIdentity{
		Subject: payload.Subject,
		Email:   email,
		Name:    name,
	}, nil
}

// GoogleAuthService resuelve un login federado: verifica la credencial,
// busca o crea la cuenta local y emite un token de sesión.
type GoogleAuthService struct {
	logger     *zap.Logger
	accounts   repository.AccountRepository
	verifier   CredentialVerifier
	tokens     *TokenService
	bcryptCost int
}

const federatedDefaultName = "Google User"

func NewGoogleAuthService(logger *zap.Logger, accounts repository.AccountRepository, verifier CredentialVerifier, tokens *TokenService, bcryptCost int) *GoogleAuthService {
	return &GoogleAuthService{
		logger:     logger,
		accounts:   accounts,
		verifier:   verifier,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// Login intercambia una credencial de Google por cuenta + token.
func (s *GoogleAuthService) Login(ctx context.Context, credential string) (domain.Account, string, error) {
	if s.accounts == nil || s.verifier == nil {
		return domain.Account{}, "", errors.New("google auth service not configured")
	}

	identity, err := s.verifier.Verify(ctx, credential)
	if err != nil {
		return domain.Account{}, "", ErrCredentialInvalid
	}

	account, err := s.findOrCreate(ctx, identity)
	if err != nil {
		return domain.Account{}, "", err
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return domain.Account{}, "", err
	}
	return account, token, nil
}

// findOrCreate se comporta como atómico por email: una violación de unicidad
// al crear significa que otro login acaba de crear la cuenta, y se relee.
func (s *GoogleAuthService) findOrCreate(ctx context.Context, identity GoogleIdentity) (domain.Account, error) {
	emailAddr := normalizeEmail(identity.Email)

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Account{}, err
	}

	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = federatedDefaultName
	}
	hash, err := HashPassword(federatedSentinel, s.bcryptCost)
	if err != nil {
		return domain.Account{}, err
	}

	account, err = s.accounts.Create(ctx, domain.Account{
		Name:         name,
		Email:        emailAddr,
		PasswordHash: hash,
		Subscription: defaultSubscription,
	})
	if err == nil {
		if s.logger != nil {
			s.logger.Info("federated account created", zap.Int64("account_id", account.ID))
		}
		return account, nil
	}
	if repository.IsUniqueViolation(err) {
		return s.accounts.GetByEmail(ctx, emailAddr)
	}
	return domain.Account{}, err
}
