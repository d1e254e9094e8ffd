package service

import (
	"cardstudio/internal/card/model"
	"cardstudio/internal/card/repository"
	"cardstudio/socket"
)

// Notifier receives card change events for fan-out to the owner's other
// sessions. *socket.Hub satisfies it.
type Notifier interface {
	Notify(eventType, accountID string, payload interface{})
}

// CardService implements owner-scoped CRUD. A card that does not exist and a
// card owned by someone else are both reported as repository.ErrNotFound so
// callers cannot probe for other users' records.
type CardService struct {
	Repo     repository.Repository
	Notifier Notifier
}

func NewCardService(repo repository.Repository, notifier Notifier) *CardService {
	return &CardService{Repo: repo, Notifier: notifier}
}

func (s *CardService) Create(ownerID string, req model.CreateCardRequest) (*model.Card, error) {
	card, err := s.Repo.Create(ownerID, req)
	if err != nil {
		return nil, err
	}
	s.notify(socket.CardCreatedType, ownerID, card)
	return card, nil
}

func (s *CardService) List(ownerID string) ([]model.Card, error) {
	return s.Repo.ListByOwner(ownerID)
}

func (s *CardService) Get(ownerID, id string) (*model.Card, error) {
	card, err := s.Repo.FindByID(id)
	if err != nil {
		return nil, err
	}
	if card.OwnerID != ownerID {
		return nil, repository.ErrNotFound
	}
	return card, nil
}

func (s *CardService) Update(ownerID, id string, patch model.Patch) (*model.Card, error) {
	if _, err := s.Get(ownerID, id); err != nil {
		return nil, err
	}
	card, err := s.Repo.Update(id, patch)
	if err != nil {
		return nil, err
	}
	s.notify(socket.CardUpdatedType, ownerID, card)
	return card, nil
}

func (s *CardService) Delete(ownerID, id string) error {
	if _, err := s.Get(ownerID, id); err != nil {
		return err
	}
	if err := s.Repo.Delete(id); err != nil {
		return err
	}
	s.notify(socket.CardDeletedType, ownerID, map[string]string{"_id": id})
	return nil
}

func (s *CardService) notify(eventType, ownerID string, payload interface{}) {
	if s.Notifier != nil {
		s.Notifier.Notify(eventType, ownerID, payload)
	}
}
