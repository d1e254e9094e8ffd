package model

import "time"

// Card is a saved business-card design owned by exactly one account. Fields
// and style are open-ended JSON objects; no shape is enforced beyond "is an
// object". Wire names match what the editor frontend expects.
type Card struct {
	ID          string                 `json:"_id"`
	OwnerID     string                 `json:"userId"`
	Title       string                 `json:"title"`
	Fields      map[string]interface{} `json:"fields"`
	Style       map[string]interface{} `json:"style,omitempty"`
	LogoDataURL string                 `json:"logoDataUrl,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type CreateCardRequest struct {
	Title       string                 `json:"title"`
	Fields      map[string]interface{} `json:"fields"`
	Style       map[string]interface{} `json:"style"`
	LogoDataURL string                 `json:"logoDataUrl"`
}

// Patch carries the allowed top-level attributes of an update. A nil entry
// means "not supplied": only supplied attributes are overwritten, the rest
// of the record is left alone. The updated timestamp always refreshes.
type Patch struct {
	Title       *string                `json:"title"`
	Fields      map[string]interface{} `json:"fields"`
	Style       map[string]interface{} `json:"style"`
	LogoDataURL *string                `json:"logoDataUrl"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
