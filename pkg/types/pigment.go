// Pigment catalog entities and the catalog filter predicate.
package types

import (
	"strings"
	"time"
)

// DateLayout is the wire and storage format of filter date bounds.
const DateLayout = "2006-01-02"

// Pigment is a catalog entry.
type Pigment struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Brief       string `json:"brief"`
	Description string `json:"description,omitempty"`
	Color       string `json:"color,omitempty"`
	Specs       string `json:"specs,omitempty"`
	ImageKey    string `json:"image_key,omitempty"`
	CreatedAt   string `json:"created_at,omitempty"`
}

// DateRange bounds the created_at of catalog results. Empty bounds are open.
type DateRange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Validate reports ErrInvalidDate if a non-empty bound is not YYYY-MM-DD.
func (r DateRange) Validate() error {
	for _, v := range []string{r.From, r.To} {
		if v == "" {
			continue
		}
		if _, err := time.Parse(DateLayout, v); err != nil {
			return ErrInvalidDate
		}
	}
	return nil
}

// IsZero reports whether both bounds are open.
func (r DateRange) IsZero() bool {
	return r.From == "" && r.To == ""
}

// Filters are the catalog search criteria.
type Filters struct {
	Search    string    `json:"search"`
	Color     string    `json:"color"`
	DateRange DateRange `json:"dateRange"`
}

// Match reports whether p satisfies the filters: search is a case-insensitive
// substring of name or brief, color a case-insensitive substring of the
// pigment color, and created_at lies inside the inclusive date bounds. When
// any bound is set, pigments with a missing or unparseable created_at never
// match. Unparseable bounds are ignored.
func (f Filters) Match(p Pigment) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), q) &&
			!strings.Contains(strings.ToLower(p.Brief), q) {
			return false
		}
	}

	if f.Color != "" {
		if !strings.Contains(strings.ToLower(p.Color), strings.ToLower(f.Color)) {
			return false
		}
	}

	if f.DateRange.IsZero() {
		return true
	}
	if p.CreatedAt == "" {
		return false
	}
	created, err := time.Parse(time.RFC3339, p.CreatedAt)
	if err != nil {
		return false
	}
	if f.DateRange.From != "" {
		if from, err := time.Parse(DateLayout, f.DateRange.From); err == nil && created.Before(from) {
			return false
		}
	}
	if f.DateRange.To != "" {
		if to, err := time.Parse(DateLayout, f.DateRange.To); err == nil {
			end := to.Add(24*time.Hour - time.Second)
			if created.After(end) {
				return false
			}
		}
	}
	return true
}

// FilterPigments returns the pigments that match f, preserving order.
// The result is never nil.
func FilterPigments(pigments []Pigment, f Filters) []Pigment {
	out := make([]Pigment, 0, len(pigments))
	for _, p := range pigments {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}
