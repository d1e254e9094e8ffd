package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cardstudio/internal/card/model"
	"cardstudio/pkg/logger"

	"github.com/google/uuid"
)

// ErrNotFound indicates no card matches the id. Ownership checks happen one
// level up; this layer only reports absence.
var ErrNotFound = errors.New("card not found")

// Repository persists card records. Deleting a non-existent id is not an
// error at this layer.
type Repository interface {
	Create(ownerID string, req model.CreateCardRequest) (*model.Card, error)
	ListByOwner(ownerID string) ([]model.Card, error)
	FindByID(id string) (*model.Card, error)
	Update(id string, patch model.Patch) (*model.Card, error)
	Delete(id string) error
}

type PostgresRepository struct {
	DB *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{DB: db}
}

func (r *PostgresRepository) Create(ownerID string, req model.CreateCardRequest) (*model.Card, error) {
	card := &model.Card{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Title:       req.Title,
		Fields:      req.Fields,
		Style:       req.Style,
		LogoDataURL: req.LogoDataURL,
	}
	fields, style, err := marshalMaps(req.Fields, req.Style)
	if err != nil {
		return nil, err
	}
	err = r.DB.QueryRow(
		`INSERT INTO cards (id, owner_id, title, fields, style, logo_data_url, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		 RETURNING created_at, updated_at`,
		card.ID, ownerID, req.Title, fields, style, req.LogoDataURL,
	).Scan(&card.CreatedAt, &card.UpdatedAt)
	if err != nil {
		logger.Sugar.Errorf("Failed to create card: %v", err)
		return nil, err
	}
	return card, nil
}

func (r *PostgresRepository) ListByOwner(ownerID string) ([]model.Card, error) {
	rows, err := r.DB.Query(
		`SELECT id, owner_id, title, fields, style, logo_data_url, created_at, updated_at
		 FROM cards WHERE owner_id = $1 ORDER BY updated_at DESC`, ownerID)
	if err != nil {
		logger.Sugar.Errorf("Failed to list cards for owner %s: %v", ownerID, err)
		return nil, err
	}
	defer rows.Close()

	cards := []model.Card{}
	for rows.Next() {
		card, err := scanCard(rows.Scan)
		if err != nil {
			return nil, err
		}
		cards = append(cards, *card)
	}
	return cards, rows.Err()
}

func (r *PostgresRepository) FindByID(id string) (*model.Card, error) {
	row := r.DB.QueryRow(
		`SELECT id, owner_id, title, fields, style, logo_data_url, created_at, updated_at
		 FROM cards WHERE id = $1`, id)
	card, err := scanCard(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Sugar.Errorf("Failed to find card %s: %v", id, err)
		return nil, err
	}
	return card, nil
}

// Update overwrites only the supplied top-level attributes and always
// refreshes updated_at.
func (r *PostgresRepository) Update(id string, patch model.Patch) (*model.Card, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{}

	add := func(column string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Fields != nil {
		b, err := json.Marshal(patch.Fields)
		if err != nil {
			return nil, err
		}
		add("fields", b)
	}
	if patch.Style != nil {
		b, err := json.Marshal(patch.Style)
		if err != nil {
			return nil, err
		}
		add("style", b)
	}
	if patch.LogoDataURL != nil {
		add("logo_data_url", *patch.LogoDataURL)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE cards SET %s WHERE id = $%d
		 RETURNING id, owner_id, title, fields, style, logo_data_url, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	card, err := scanCard(r.DB.QueryRow(query, args...).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		logger.Sugar.Errorf("Failed to update card %s: %v", id, err)
		return nil, err
	}
	return card, nil
}

func (r *PostgresRepository) Delete(id string) error {
	_, err := r.DB.Exec(`DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		logger.Sugar.Errorf("Failed to delete card %s: %v", id, err)
	}
	return err
}

func scanCard(scan func(...interface{}) error) (*model.Card, error) {
	var card model.Card
	var fields, style []byte
	if err := scan(&card.ID, &card.OwnerID, &card.Title, &fields, &style,
		&card.LogoDataURL, &card.CreatedAt, &card.UpdatedAt); err != nil {
		return nil, err
	}
	if len(fields) > 0 {
		if err := json.Unmarshal(fields, &card.Fields); err != nil {
			return nil, err
		}
	}
	if len(style) > 0 {
		if err := json.Unmarshal(style, &card.Style); err != nil {
			return nil, err
		}
	}
	return &card, nil
}

func marshalMaps(fields, style map[string]interface{}) ([]byte, []byte, error) {
	f, err := json.Marshal(fields)
	if err != nil {
		return nil, nil, err
	}
	if style == nil {
		return f, nil, nil
	}
	s, err := json.Marshal(style)
	if err != nil {
		return nil, nil, err
	}
	return f, s, nil
}
