// Package editor holds the client-side card model: an in-memory draft edited
// field by field, plus the list of previously saved designs. Transitions are
// pure value-to-value functions decoupled from any rendering, so the form
// logic (including auto-contrast) is testable without a UI. Rasterizing the
// preview for export is delegated to an external renderer and lives outside
// this package.
package editor

import (
	"strconv"
	"strings"
	"time"
)

const (
	lightText = "#ffffff"
	darkText  = "#111111"
)

// Draft is the card being edited.
type Draft struct {
	Title       string
	Template    string
	Fields      map[string]string
	Style       map[string]string
	LogoDataURL string
}

// Card is a saved design as the editor sees it.
type Card struct {
	ID          string
	Title       string
	Fields      map[string]string
	Style       map[string]string
	LogoDataURL string
	UpdatedAt   time.Time
}

// NewDraft returns the placeholder card shown before any edits.
func NewDraft() Draft {
	return Draft{
		Title:    "My Card",
		Template: "modern",
		Fields: map[string]string{
			"name":    "John Doe",
			"title":   "Product Manager",
			"company": "Acme Inc.",
			"phone":   "+1 (555) 123-4567",
			"email":   "john.doe@example.com",
			"website": "www.example.com",
			"address": "123 Business Rd, City, Country",
		},
		Style: map[string]string{
			"bgColor":     "#ffffff",
			"textColor":   darkText,
			"accentColor": "#0ea5e9",
			"fontFamily":  "Inter, Arial, sans-serif",
		},
	}
}

func (d Draft) WithTitle(title string) Draft {
	d.Fields = cloneMap(d.Fields)
	d.Style = cloneMap(d.Style)
	d.Title = title
	return d
}

func (d Draft) WithTemplate(template string) Draft {
	d.Fields = cloneMap(d.Fields)
	d.Style = cloneMap(d.Style)
	d.Template = template
	return d
}

func (d Draft) WithField(name, value string) Draft {
	d.Fields = cloneMap(d.Fields)
	d.Style = cloneMap(d.Style)
	d.Fields[name] = value
	return d
}

// WithStyle applies one style edit. Picking a background color also
// recomputes a contrasting text color; no other style edit touches it.
func (d Draft) WithStyle(name, value string) Draft {
	d.Fields = cloneMap(d.Fields)
	d.Style = cloneMap(d.Style)
	d.Style[name] = value
	if name == "bgColor" {
		if IsHexDark(value) {
			d.Style["textColor"] = lightText
		} else {
			d.Style["textColor"] = darkText
		}
	}
	return d
}

func (d Draft) WithLogo(dataURL string) Draft {
	d.Fields = cloneMap(d.Fields)
	d.Style = cloneMap(d.Style)
	d.LogoDataURL = dataURL
	return d
}

// IsHexDark reports whether a hex color reads as dark, using perceived
// luminance with the midpoint threshold. Accepts #rgb and #rrggbb.
func IsHexDark(hex string) bool {
	clean := strings.TrimPrefix(hex, "#")
	if len(clean) == 3 {
		var sb strings.Builder
		for _, c := range clean {
			sb.WriteRune(c)
			sb.WriteRune(c)
		}
		clean = sb.String()
	}
	v, err := strconv.ParseUint(clean, 16, 32)
	if err != nil || len(clean) != 6 {
		return false
	}
	r := float64((v >> 16) & 255)
	g := float64((v >> 8) & 255)
	b := float64(v & 255)
	luminance := (0.2126*r + 0.7152*g + 0.0722*b) / 255
	return luminance < 0.5
}

// Session is the whole editor state: the draft plus the saved-designs list
// fetched on load.
type Session struct {
	Draft Draft
	Saved []Card
}

func NewSession() Session {
	return Session{Draft: NewDraft()}
}

// WithSaved replaces the saved list, newest-updated first as the API returns.
func (s Session) WithSaved(cards []Card) Session {
	s.Saved = append([]Card(nil), cards...)
	return s
}

// PrependSaved records a confirmed save at the head of the list.
func (s Session) PrependSaved(card Card) Session {
	saved := make([]Card, 0, len(s.Saved)+1)
	saved = append(saved, card)
	saved = append(saved, s.Saved...)
	s.Saved = saved
	return s
}

// RemoveSaved drops a design after the server confirms its deletion.
func (s Session) RemoveSaved(id string) Session {
	saved := make([]Card, 0, len(s.Saved))
	for _, card := range s.Saved {
		if card.ID != id {
			saved = append(saved, card)
		}
	}
	s.Saved = saved
	return s
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
