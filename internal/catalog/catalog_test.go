package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidServiceType(t *testing.T) {
	for _, slug := range ServiceSlugs() {
		assert.True(t, IsValidServiceType(slug), "slug %q should be valid", slug)
	}

	assert.False(t, IsValidServiceType("tax-advice"))
	assert.False(t, IsValidServiceType(""))
	assert.False(t, IsValidServiceType("Consultation")) // slugs are case-sensitive
}

func TestServices_ReturnsCopy(t *testing.T) {
	first := Services()
	first[0].Title = "mutated"

	assert.NotEqual(t, "mutated", Services()[0].Title)
}

func TestServices_SlugsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for _, s := range Services() {
		assert.False(t, seen[s.Slug], "duplicate slug %q", s.Slug)
		seen[s.Slug] = true
		assert.NotEmpty(t, s.Title)
		assert.NotEmpty(t, s.Description)
	}
}
