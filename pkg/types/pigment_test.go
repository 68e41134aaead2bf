package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func samplePigments() []Pigment {
	return []Pigment{
		{ID: 1, Name: "Ultramarine", Brief: "Natural blue pigment", Color: "blue", CreatedAt: "2024-01-15T10:30:00Z"},
		{ID: 2, Name: "Cinnabar", Brief: "Mercury-based red", Color: "Red", CreatedAt: "2024-01-16T14:20:00Z"},
		{ID: 3, Name: "Ochre", Brief: "Yellow-brown earth", Color: "yellow", CreatedAt: "2024-01-17T09:15:00Z"},
		{ID: 4, Name: "Charcoal", Brief: "Black from burnt wood", Color: "black", CreatedAt: ""},
		{ID: 5, Name: "White clay", Brief: "Natural white", Color: "white", CreatedAt: "not-a-date"},
	}
}

func ids(ps []Pigment) []int64 {
	out := make([]int64, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestFiltersMatch(t *testing.T) {
	tests := []struct {
		name    string
		filters Filters
		want    []int64
	}{
		{
			name:    "empty filters match everything",
			filters: Filters{},
			want:    []int64{1, 2, 3, 4, 5},
		},
		{
			name:    "search matches name case-insensitively",
			filters: Filters{Search: "ULTRA"},
			want:    []int64{1},
		},
		{
			name:    "search matches brief",
			filters: Filters{Search: "natural"},
			want:    []int64{1, 5},
		},
		{
			name:    "color is a case-insensitive substring",
			filters: Filters{Color: "re"},
			want:    []int64{2},
		},
		{
			name:    "from bound is inclusive at midnight",
			filters: Filters{DateRange: DateRange{From: "2024-01-16"}},
			want:    []int64{2, 3},
		},
		{
			name:    "to bound is inclusive through end of day",
			filters: Filters{DateRange: DateRange{To: "2024-01-16"}},
			want:    []int64{1, 2},
		},
		{
			name:    "both bounds on the same day",
			filters: Filters{DateRange: DateRange{From: "2024-01-17", To: "2024-01-17"}},
			want:    []int64{3},
		},
		{
			name:    "missing and unparseable dates are excluded when a bound is set",
			filters: Filters{DateRange: DateRange{From: "2000-01-01"}},
			want:    []int64{1, 2, 3},
		},
		{
			name:    "criteria combine",
			filters: Filters{Search: "e", Color: "yellow", DateRange: DateRange{To: "2024-12-31"}},
			want:    []int64{3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterPigments(samplePigments(), tt.filters)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterPigmentsNeverNil(t *testing.T) {
	got := FilterPigments(nil, Filters{Search: "x"})
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestDateRangeValidate(t *testing.T) {
	assert.NoError(t, DateRange{}.Validate())
	assert.NoError(t, DateRange{From: "2024-01-01", To: "2024-02-29"}.Validate())
	assert.ErrorIs(t, DateRange{From: "01/02/2024"}.Validate(), ErrInvalidDate)
	assert.ErrorIs(t, DateRange{To: "2024-13-01"}.Validate(), ErrInvalidDate)
}
