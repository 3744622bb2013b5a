package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"accounts-api/internal/domain"
)

// AccountPatch describe campos opcionales de una actualización parcial.
// Un puntero nil deja la columna sin cambios.
type AccountPatch struct {
	Name         *string
	Email        *string
	Phone        *string
	PasswordHash *string
}

// AccountRepository define el contrato de persistencia para cuentas.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id int64) (domain.Account, error)
	GetByEmail(ctx context.Context, email string) (domain.Account, error)
	List(ctx context.Context) ([]domain.Account, error)
	Update(ctx context.Context, id int64, patch AccountPatch) (domain.Account, error)
	Delete(ctx context.Context, id int64) (domain.Account, error)
}

// pgUniqueViolation es el código de PostgreSQL para violaciones de unicidad.
const pgUniqueViolation = "23505"

// IsUniqueViolation indica si err proviene de un constraint UNIQUE.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// PgAccountRepository implementa AccountRepository usando pgxpool.
type PgAccountRepository struct {
	pool *pgxpool.Pool
}

func NewPgAccountRepository(pool *pgxpool.Pool) *PgAccountRepository {
	return &PgAccountRepository{pool: pool}
}

const accountColumns = `id, name, email, phone, password_hash, subscription, history, created_at`

func scanAccount(row pgx.Row) (domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Email,
		&a.Phone,
		&a.PasswordHash,
		&a.Subscription,
		&a.History,
		&a.CreatedAt,
	)
	return a, err
}

func (r *PgAccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
		INSERT INTO accounts (name, email, phone, password_hash, subscription)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query,
		account.Name,
		account.Email,
		account.Phone,
		account.PasswordHash,
		account.Subscription,
	))
}

func (r *PgAccountRepository) GetByID(ctx context.Context, id int64) (domain.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE id = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

func (r *PgAccountRepository) GetByEmail(ctx context.Context, email string) (domain.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE email = $1
	`
	return scanAccount(r.pool.QueryRow(ctx, query, email))
}

func (r *PgAccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY id
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *PgAccountRepository) Update(ctx context.Context, id int64, patch AccountPatch) (domain.Account, error) {
	const query = `
		UPDATE accounts
		SET name          = COALESCE($2, name),
		    email         = COALESCE($3, email),
		    phone         = COALESCE($4, phone),
		    password_hash = COALESCE($5, password_hash)
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Email,
		patch.Phone,
		patch.PasswordHash,
	))
}

func (r *PgAccountRepository) Delete(ctx context.Context, id int64) (domain.Account, error) {
	const query = `
		DELETE FROM accounts
		WHERE id = $1
		RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}
