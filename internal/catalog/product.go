package catalog

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const pythonTimestampLayout = "2006-01-02T15:04:05.999999"

// SellingPlace is where a product is sold.
type SellingPlace string

const (
	SellingPlaceEvent SellingPlace = "event"
	SellingPlaceStore SellingPlace = "store"
)

// SellingPlaces lists the accepted values in display order.
var SellingPlaces = []SellingPlace{SellingPlaceStore, SellingPlaceEvent}

// Valid reports whether p is a known selling place.
func (p SellingPlace) Valid() bool {
	return p == SellingPlaceEvent || p == SellingPlaceStore
}

// Label returns a title-cased name for display.
func (p SellingPlace) Label() string {
	switch p {
	case SellingPlaceEvent:
		return "Event"
	case SellingPlaceStore:
		return "Store"
	default:
		return string(p)
	}
}

// Product mirrors the product resource of /api/v1/products.
type Product struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	EAN          string       `json:"ean"`
	InsertedAt   string       `json:"inserted_at"`
	Price        float64      `json:"price"`
	Description  string       `json:"description"`
	Active       bool         `json:"active"`
	SellingPlace SellingPlace `json:"selling_place"`
	Picture      []byte       `json:"picture,omitempty"`
}

// ParsedInsertedAt returns the creation time, or the zero time when it is
// missing or unparseable.
func (p Product) ParsedInsertedAt() time.Time {
	return parseTime(p.InsertedAt)
}

// PriceLabel formats the price the way the catalog shows it.
func (p Product) PriceLabel() string {
	return FormatPrice(p.Price)
}

// StatusLabel is "Active" or "Inactive".
func (p Product) StatusLabel() string {
	if p.Active {
		return "Active"
	}
	return "Inactive"
}

// PictureLabel summarises the attached picture, e.g. "image/png, 12.3 KiB".
func (p Product) PictureLabel() string {
	if len(p.Picture) == 0 {
		return "none"
	}
	return fmt.Sprintf("%s, %s", http.DetectContentType(p.Picture), formatBytes(len(p.Picture)))
}

// FormatPrice renders a price with two decimals.
func FormatPrice(price float64) string {
	return fmt.Sprintf("$%.2f", price)
}

// ListResponse mirrors the list endpoint payload.
type ListResponse struct {
	Items []Product `json:"items"`
	Total int       `json:"total"`
	Page  int       `json:"page"`
	Size  int       `json:"size"`
}

// CreateInput is the body of a create request.
type CreateInput struct {
	Name         string       `json:"name"`
	EAN          string       `json:"ean"`
	Price        float64      `json:"price"`
	Description  string       `json:"description"`
	Active       bool         `json:"active"`
	SellingPlace SellingPlace `json:"selling_place"`
	Picture      []byte       `json:"picture,omitempty"`
}

// UpdateInput is a partial update. Nil fields are left unchanged.
// RemovePicture sends an explicit null picture.
type UpdateInput struct {
	Name          *string
	EAN           *string
	Price         *float64
	Description   *string
	Active        *bool
	SellingPlace  *SellingPlace
	Picture       []byte
	RemovePicture bool
}

// Empty reports whether the update would change nothing.
func (u UpdateInput) Empty() bool {
	return u.Name == nil && u.EAN == nil && u.Price == nil && u.Description == nil &&
		u.Active == nil && u.SellingPlace == nil && len(u.Picture) == 0 && !u.RemovePicture
}

// MarshalJSON emits only the fields that are set.
func (u UpdateInput) MarshalJSON() ([]byte, error) {
	body := map[string]any{}
	if u.Name != nil {
		body["name"] = *u.Name
	}
	if u.EAN != nil {
		body["ean"] = *u.EAN
	}
	if u.Price != nil {
		body["price"] = *u.Price
	}
	if u.Description != nil {
		body["description"] = *u.Description
	}
	if u.Active != nil {
		body["active"] = *u.Active
	}
	if u.SellingPlace != nil {
		body["selling_place"] = *u.SellingPlace
	}
	switch {
	case len(u.Picture) > 0:
		body["picture"] = u.Picture
	case u.RemovePicture:
		body["picture"] = nil
	}
	return json.Marshal(body)
}

// UnmarshalJSON distinguishes an absent picture from an explicit null.
func (u *UpdateInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out UpdateInput
	fields := []struct {
		key  string
		dest any
	}{
		{"name", &out.Name},
		{"ean", &out.EAN},
		{"price", &out.Price},
		{"description", &out.Description},
		{"active", &out.Active},
		{"selling_place", &out.SellingPlace},
	}
	for _, f := range fields {
		v, ok := raw[f.key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(v, f.dest); err != nil {
			return fmt.Errorf("field %s: %w", f.key, err)
		}
	}
	if v, ok := raw["picture"]; ok {
		if strings.TrimSpace(string(v)) == "null" {
			out.RemovePicture = true
		} else if err := json.Unmarshal(v, &out.Picture); err != nil {
			return fmt.Errorf("field picture: %w", err)
		}
	}
	*u = out
	return nil
}

// Apply returns p with the set fields of u applied.
func (u UpdateInput) Apply(p Product) Product {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.EAN != nil {
		p.EAN = *u.EAN
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Active != nil {
		p.Active = *u.Active
	}
	if u.SellingPlace != nil {
		p.SellingPlace = *u.SellingPlace
	}
	switch {
	case len(u.Picture) > 0:
		p.Picture = u.Picture
	case u.RemovePicture:
		p.Picture = nil
	}
	return p
}

func parseTime(value string) time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	// Naive timestamps are emitted without a zone.
	if t, err := time.ParseInLocation(pythonTimestampLayout, value, time.UTC); err == nil {
		return t
	}
	return time.Time{}
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
