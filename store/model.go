package store

import (
	"time"

	"cardstudio/internal/account/model"
)

// accountRecord is the on-disk shape of an account. Unlike the API model it
// carries the password hash; the file never leaves the server.
type accountRecord struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r accountRecord) toModel() *model.Account {
	return &model.Account{
		ID:           r.ID,
		Name:         r.Name,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
	}
}
