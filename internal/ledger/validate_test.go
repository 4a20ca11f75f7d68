package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidPhone(t *testing.T) {
	valid := []string{"0512345678", "0500000000", "0599999999"}
	for _, p := range valid {
		assert.True(t, ValidPhone(p), p)
	}

	invalid := []string{
		"",
		"0412345678",   // wrong prefix
		"051234567",    // too short
		"05123456789",  // too long
		"+96650123456", // international form
		"05 12345678",  // embedded space
		"05abcdefgh",
	}
	for _, p := range invalid {
		assert.False(t, ValidPhone(p), p)
	}
}

func TestValidEmail(t *testing.T) {
	assert.True(t, ValidEmail("a@b.co"))
	assert.True(t, ValidEmail("user.name+tag@example.org"))

	assert.False(t, ValidEmail(""))
	assert.False(t, ValidEmail("no-at.example.com"))
	assert.False(t, ValidEmail("two@@example.com"))
	assert.False(t, ValidEmail("user@nodot"))
	assert.False(t, ValidEmail("spa ce@example.com"))
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2025-01-31"))
	assert.True(t, ValidDate("2024-02-29")) // leap day

	assert.False(t, ValidDate("2025-02-29")) // not a leap year
	assert.False(t, ValidDate("2025-13-01"))
	assert.False(t, ValidDate("31-01-2025"))
	assert.False(t, ValidDate("2025/01/31"))
	assert.False(t, ValidDate(""))
}

func TestAddMonths(t *testing.T) {
	assert.Equal(t, "2025-07-15", AddMonths("2025-01-15", 6))
	assert.Equal(t, "2026-01-15", AddMonths("2025-01-15", 12))
	// Go normalizes month-end overflow forward.
	assert.Equal(t, "2025-03-03", AddMonths("2025-01-31", 1))
	assert.Equal(t, "", AddMonths("not-a-date", 3))
}
