package apiclient

import (
	"fmt"
	"time"

	"cardstudio/internal/editor"
)

type cardDTO struct {
	ID          string                 `json:"_id"`
	Title       string                 `json:"title"`
	Fields      map[string]interface{} `json:"fields"`
	Style       map[string]interface{} `json:"style"`
	LogoDataURL string                 `json:"logoDataUrl"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

func (d cardDTO) toEditor() editor.Card {
	return editor.Card{
		ID:          d.ID,
		Title:       d.Title,
		Fields:      stringify(d.Fields),
		Style:       stringify(d.Style),
		LogoDataURL: d.LogoDataURL,
		UpdatedAt:   d.UpdatedAt,
	}
}

// CardPatch carries the attributes of an update; nil entries are omitted
// from the request so the server leaves them alone.
type CardPatch struct {
	Title       *string           `json:"title,omitempty"`
	Fields      map[string]string `json:"fields,omitempty"`
	Style       map[string]string `json:"style,omitempty"`
	LogoDataURL *string           `json:"logoDataUrl,omitempty"`
}

// The server keeps fields/style open-ended; the editor works with strings.
func stringify(m map[string]interface{}) map[string]string {
	if m == nil {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		if s, ok := v.(string); ok {
			out[k] = s
		} else {
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}
