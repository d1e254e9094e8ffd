package store

import (
	"time"

	"cardstudio/internal/account/model"
	"cardstudio/internal/account/repository"

	"github.com/google/uuid"
)

// AccountStore implements repository.Repository over the file store.
type AccountStore struct {
	fs *FileStore
}

func (s *AccountStore) Create(name, email, passwordHash string) (*model.Account, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	// Uniqueness is enforced here, under the same lock as the insert.
	for _, rec := range s.fs.accounts {
		if rec.Email == email {
			return nil, repository.ErrDuplicateEmail
		}
	}

	rec := accountRecord{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.fs.accounts[rec.ID] = rec
	if err := persist(s.fs.dir, accountsFile, s.fs.accounts); err != nil {
		delete(s.fs.accounts, rec.ID)
		return nil, err
	}
	return rec.toModel(), nil
}

func (s *AccountStore) FindByEmail(email string) (*model.Account, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	for _, rec := range s.fs.accounts {
		if rec.Email == email {
			return rec.toModel(), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *AccountStore) FindByID(id string) (*model.Account, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	rec, ok := s.fs.accounts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return rec.toModel(), nil
}
