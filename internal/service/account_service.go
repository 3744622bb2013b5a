package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"accounts-api/internal/domain"
	"accounts-api/internal/repository"
)

// AccountService coordina reglas de negocio para cuentas.
type AccountService struct {
	logger     *zap.Logger
	accounts   repository.AccountRepository
	tokens     *TokenService
	bcryptCost int
}

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("forbidden")
)

// federatedSentinel es la "contraseña" fija con que se marca una cuenta
// creada por login federado. Login la rechaza siempre.
const federatedSentinel = "federated-login-no-password"

const defaultSubscription = "free"

func NewAccountService(logger *zap.Logger, accounts repository.AccountRepository, tokens *TokenService, bcryptCost int) *AccountService {
	return &AccountService{
		logger:     logger,
		accounts:   accounts,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Phone    string
	Password string
}

type UpdateInput struct {
	Name     *string
	Email    *string
	Phone    *string
	Password *string
}

// Register crea una cuenta local con contraseña hasheada.
func (s *AccountService) Register(ctx context.Context, input RegisterInput) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}

	hash, err := HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return domain.Account{}, err
	}

	account, err := s.accounts.Create(ctx, domain.Account{
		Name:         strings.TrimSpace(input.Name),
		Email:        normalizeEmail(input.Email),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: hash,
		Subscription: defaultSubscription,
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, err
	}
	return account, nil
}

// Login autentica por email y contraseña y emite un token de sesión.
func (s *AccountService) Login(ctx context.Context, emailAddr, password string) (domain.Account, string, error) {
	if s.accounts == nil {
		return domain.Account{}, "", errors.New("account service not configured")
	}

	emailAddr = normalizeEmail(emailAddr)
	if emailAddr == "" || password == "" {
		return domain.Account{}, "", ErrInvalidCredentials
	}

	account, err := s.accounts.GetByEmail(ctx, emailAddr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, "", ErrAccountNotFound
		}
		return domain.Account{}, "", err
	}

	if account.PasswordHash == "" || CheckPassword(federatedSentinel, account.PasswordHash) {
		// Cuenta de origen federado sin contraseña usable.
		return domain.Account{}, "", ErrInvalidCredentials
	}
	if !CheckPassword(password, account.PasswordHash) {
		return domain.Account{}, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(account.ID)
	if err != nil {
		return domain.Account{}, "", err
	}
	return account, token, nil
}

// List devuelve todas las cuentas.
func (s *AccountService) List(ctx context.Context) ([]domain.Account, error) {
	if s.accounts == nil {
		return nil, errors.New("account service not configured")
	}
	return s.accounts.List(ctx)
}

// Get devuelve una cuenta por id.
func (s *AccountService) Get(ctx context.Context, id int64) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

// Update aplica un patch parcial. El caller solo puede modificar su propia
// cuenta; la autorización se verifica antes que la existencia.
func (s *AccountService) Update(ctx context.Context, callerID, id int64, input UpdateInput) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}
	if callerID != id {
		return domain.Account{}, ErrForbidden
	}

	patch := repository.AccountPatch{
		Name:  input.Name,
		Email: input.Email,
		Phone: input.Phone,
	}
	if input.Email != nil {
		normalized := normalizeEmail(*input.Email)
		patch.Email = &normalized
	}
	if input.Password != nil {
		hash, err := HashPassword(*input.Password, s.bcryptCost)
		if err != nil {
			return domain.Account{}, err
		}
		patch.PasswordHash = &hash
	}

	account, err := s.accounts.Update(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		if repository.IsUniqueViolation(err) {
			return domain.Account{}, ErrEmailTaken
		}
		return domain.Account{}, err
	}
	return account, nil
}

// Delete elimina la cuenta del caller y devuelve el snapshot borrado.
func (s *AccountService) Delete(ctx context.Context, callerID, id int64) (domain.Account, error) {
	if s.accounts == nil {
		return domain.Account{}, errors.New("account service not configured")
	}
	if callerID != id {
		return domain.Account{}, ErrForbidden
	}

	account, err := s.accounts.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Account{}, ErrAccountNotFound
		}
		return domain.Account{}, err
	}
	return account, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
