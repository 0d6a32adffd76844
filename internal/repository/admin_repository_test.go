package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The admins migration enforces uniqueness on LOWER(email), and the auth
// service lowercases input before lookup. The query must match on the same
// expression, or a row seeded with uppercase letters becomes unreachable.
func TestAdminByEmailQuery_MatchesCaseInsensitively(t *testing.T) {
	assert.Contains(t, adminByEmailQuery, "LOWER(email) = LOWER($1)")
	assert.NotContains(t, adminByEmailQuery, "WHERE email =")
}
