package repository

import (
	"database/sql"
	"errors"

	"cardstudio/internal/account/model"
	"cardstudio/pkg/logger"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

var (
	// ErrNotFound indicates no account matches the lookup.
	ErrNotFound = errors.New("account not found")
	// ErrDuplicateEmail indicates the email is already registered. The storage
	// layer is the final authority: callers must tolerate this even after a
	// prior existence check, since check and insert are not transactional.
	ErrDuplicateEmail = errors.New("email already registered")
)

const uniqueViolation = "23505"

// Repository persists account records. Accounts are created once at signup
// and immutable thereafter; no update or delete is exposed.
type Repository interface {
	Create(name, email, passwordHash string) (*model.Account, error)
	FindByEmail(email string) (*model.Account, error)
	FindByID(id string) (*model.Account, error)
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) Create(name, email, passwordHash string) (*model.Account, error) {
	acc := &model.Account{ID: uuid.NewString(), Name: name, Email: email, PasswordHash: passwordHash}
	err := r.DB.QueryRow(
		`INSERT INTO accounts (id, name, email, password_hash, created_at) VALUES ($1, $2, $3, $4, NOW()) RETURNING created_at`,
		acc.ID, name, email, passwordHash,
	).Scan(&acc.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, ErrDuplicateEmail
		}
		logger.Sugar.Errorf("Failed to create account: %v", err)
		return nil, err
	}
	return acc, nil
}

func (r *PostgresRepository) FindByEmail(email string) (*model.Account, error) {
	return r.scanOne(r.DB.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM accounts WHERE email = $1`, email))
}

func (r *PostgresRepository) FindByID(id string) (*model.Account, error) {
	return r.scanOne(r.DB.QueryRow(
		`SELECT id, name, email, password_hash, created_at FROM accounts WHERE id = $1`, id))
}

func (r *PostgresRepository) scanOne(row *sql.Row) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(&acc.ID, &acc.Name, &acc.Email, &acc.PasswordHash, &acc.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Sugar.Errorf("Failed to scan account: %v", err)
		return nil, err
	}
	return &acc, nil
}
