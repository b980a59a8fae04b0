package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Spice Villa", "spice-villa"},
		{"collapses runs", "Joe's  --  Diner!!", "joe-s-diner"},
		{"trims separators", "  ~Noodle Bar~  ", "noodle-bar"},
		{"keeps digits", "Pizza 4 You", "pizza-4-you"},
		{"non ascii removed", "Café Olé", "caf-ol"},
		{"only symbols", "!!!", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestSlugify_CapsLength(t *testing.T) {
	slug := Slugify(strings.Repeat("ab ", 80))

	assert.Len(t, slug, MaxSlugLength)
	assert.True(t, strings.HasPrefix(slug, "ab-ab-"))
}

func TestRestaurant_AcceptsOrders(t *testing.T) {
	assert.True(t, (&Restaurant{Approved: true}).AcceptsOrders())
	assert.False(t, (&Restaurant{Approved: false}).AcceptsOrders())
	assert.False(t, (&Restaurant{Approved: true, Disabled: true}).AcceptsOrders())
}
