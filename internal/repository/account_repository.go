package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ier-platform/auth-service/internal/domain"
)

// AccountRepository defines persistence access for accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByIDNumber(ctx context.Context, idNumber string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
}

type accountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository returns a Postgres-backed implementation.
func NewAccountRepository(pool *pgxpool.Pool) AccountRepository {
	return &accountRepository{pool: pool}
}

const accountColumns = `uuid, id_number, password_hash, first_name, last_name, middle_name,
        email, role, status, is_staff, is_superuser, created_at, updated_at`

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	const query = `
        INSERT INTO accounts (id_number, password_hash, first_name, last_name, middle_name,
            email, role, status, is_staff, is_superuser)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING uuid, created_at, updated_at`

	err := r.pool.QueryRow(ctx, query,
		account.IDNumber,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.MiddleName,
		account.Email,
		account.Role,
		account.Status,
		account.IsStaff,
		account.IsSuperuser,
	).Scan(&account.UUID, &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, account *domain.Account) error {
	const query = `
        UPDATE accounts SET id_number=$1, password_hash=$2, first_name=$3, last_name=$4,
            middle_name=$5, email=$6, role=$7, status=$8, is_staff=$9, is_superuser=$10,
            updated_at=NOW()
        WHERE uuid=$11`

	cmd, err := r.pool.Exec(ctx, query,
		account.IDNumber,
		account.PasswordHash,
		account.FirstName,
		account.LastName,
		account.MiddleName,
		account.Email,
		account.Role,
		account.Status,
		account.IsStaff,
		account.IsSuperuser,
		account.UUID,
	)
	if err != nil {
		return mapUniqueViolation(err)
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *accountRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.getBy(ctx, "uuid", id)
}

func (r *accountRepository) GetByIDNumber(ctx context.Context, idNumber string) (*domain.Account, error) {
	return r.getBy(ctx, "id_number", idNumber)
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *accountRepository) getBy(ctx context.Context, column string, value any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + `=$1`

	var account domain.Account
	if err := r.pool.QueryRow(ctx, query, value).Scan(
		&account.UUID,
		&account.IDNumber,
		&account.PasswordHash,
		&account.FirstName,
		&account.LastName,
		&account.MiddleName,
		&account.Email,
		&account.Role,
		&account.Status,
		&account.IsStaff,
		&account.IsSuperuser,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &account, nil
}

// mapUniqueViolation translates the accounts table's unique constraints
// into domain errors.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch {
	case strings.Contains(pgErr.ConstraintName, "id_number"):
		return domain.ErrIDNumberTaken
	case strings.Contains(pgErr.ConstraintName, "email"):
		return domain.ErrEmailTaken
	}
	return err
}
