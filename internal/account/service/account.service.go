package service

import (
	"errors"
	"time"

	"cardstudio/internal/account/model"
	"cardstudio/internal/account/repository"
	"cardstudio/pkg/token"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
// The two cases are deliberately indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("invalid credentials")

type AuthService struct {
	Accounts repository.Repository
	secret   []byte
	tokenTTL time.Duration
}

func NewAuthService(accounts repository.Repository, secret string, tokenTTL time.Duration) *AuthService {
	return &AuthService{Accounts: accounts, secret: []byte(secret), tokenTTL: tokenTTL}
}

// Signup hashes the password, creates the account, and issues a token. The
// existence check is advisory only; the store's uniqueness constraint is the
// final authority on duplicate emails.
func (s *AuthService) Signup(name, email, password string) (string, *model.Account, error) {
	if _, err := s.Accounts.FindByEmail(email); err == nil {
		return "", nil, repository.ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrNotFound) {
		return "", nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	acc, err := s.Accounts.Create(name, email, string(hash))
	if err != nil {
		return "", nil, err
	}

	t, err := token.Issue(acc.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return t, acc, nil
}

// Login verifies the credentials and issues a token.
func (s *AuthService) Login(email, password string) (string, *model.Account, error) {
	acc, err := s.Accounts.FindByEmail(email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrInvalidCredentials
		}
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(password)) != nil {
		return "", nil, ErrInvalidCredentials
	}

	t, err := token.Issue(acc.ID, s.secret, s.tokenTTL)
	if err != nil {
		return "", nil, err
	}
	return t, acc, nil
}
