package store

import (
	"maps"
	"sort"
	"time"

	"cardstudio/internal/card/model"
	"cardstudio/internal/card/repository"

	"github.com/google/uuid"
)

// CardStore implements repository.Repository over the file store.
type CardStore struct {
	fs *FileStore
}

func (s *CardStore) Create(ownerID string, req model.CreateCardRequest) (*model.Card, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	now := time.Now().UTC()
	card := model.Card{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Fields:      maps.Clone(req.Fields),
		Style:       maps.Clone(req.Style),
		LogoDataURL: req.LogoDataURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.fs.cards[card.ID] = card
	if err := persist(s.fs.dir, cardsFile, s.fs.cards); err != nil {
		delete(s.fs.cards, card.ID)
		return nil, err
	}
	return cloneCard(card), nil
}

func (s *CardStore) ListByOwner(ownerID string) ([]model.Card, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	cards := []model.Card{}
	for _, card := range s.fs.cards {
		if card.OwnerID == ownerID {
			cards = append(cards, *cloneCard(card))
		}
	}
	// Most recently touched first.
	sort.Slice(cards, func(i, j int) bool {
		return cards[i].UpdatedAt.After(cards[j].UpdatedAt)
	})
	return cards, nil
}

func (s *CardStore) FindByID(id string) (*model.Card, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	card, ok := s.fs.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return cloneCard(card), nil
}

func (s *CardStore) Update(id string, patch model.Patch) (*model.Card, error) {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	card, ok := s.fs.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Title != nil {
		card.Title = *patch.Title
	}
	if patch.Fields != nil {
		card.Fields = maps.Clone(patch.Fields)
	}
	if patch.Style != nil {
		card.Style = maps.Clone(patch.Style)
	}
	if patch.LogoDataURL != nil {
		card.LogoDataURL = *patch.LogoDataURL
	}
	card.UpdatedAt = time.Now().UTC()

	previous := s.fs.cards[id]
	s.fs.cards[id] = card
	if err := persist(s.fs.dir, cardsFile, s.fs.cards); err != nil {
		s.fs.cards[id] = previous
		return nil, err
	}
	return cloneCard(card), nil
}

func (s *CardStore) Delete(id string) error {
	s.fs.mu.Lock()
	defer s.fs.mu.Unlock()

	if _, ok := s.fs.cards[id]; !ok {
		// Idempotent: deleting an absent id is not an error here.
		return nil
	}
	previous := s.fs.cards[id]
	delete(s.fs.cards, id)
	if err := persist(s.fs.dir, cardsFile, s.fs.cards); err != nil {
		s.fs.cards[id] = previous
		return err
	}
	return nil
}

func cloneCard(card model.Card) *model.Card {
	card.Fields = maps.Clone(card.Fields)
	card.Style = maps.Clone(card.Style)
	return &card
}
