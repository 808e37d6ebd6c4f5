package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateUsername(t *testing.T) {
	assert.NoError(t, ValidateUsername("jerk_chicken"))
	assert.NoError(t, ValidateUsername("ana42"))

	assert.Error(t, ValidateUsername("ab"), "too short")
	assert.Error(t, ValidateUsername("UpperCase"), "uppercase rejected")
	assert.Error(t, ValidateUsername("has space"))
	assert.Error(t, ValidateUsername("_leading"))
	assert.Error(t, ValidateUsername("trailing_"))
	assert.Error(t, ValidateUsername("admin"), "reserved")
	assert.Error(t, ValidateUsername(strings.Repeat("a", 31)), "too long")
}

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("cook@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("two@@example.com"))
	assert.Error(t, ValidateEmail("spaces in@example.com"))
}

func TestDeriveUsername(t *testing.T) {
	assert.Equal(t, "ana42", DeriveUsername("Ana42@example.com"))
	assert.Equal(t, "jerkchicken", DeriveUsername("jerk.chicken@example.com"))

	// Too short after sanitization falls back to a random handle.
	got := DeriveUsername("a@example.com")
	assert.True(t, strings.HasPrefix(got, "foodie_"), "got %q", got)
	assert.NoError(t, ValidateUsername(got))

	// Reserved local part falls back too.
	got = DeriveUsername("admin@example.com")
	assert.True(t, strings.HasPrefix(got, "foodie_"), "got %q", got)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "ackee-saltfish", Slug("Ackee & Saltfish"))
	assert.Equal(t, "spicy-rum-punch", Slug("  Spicy   Rum Punch!  "))
	assert.Equal(t, "", Slug("!!!"))
}

func TestValidatePassword(t *testing.T) {
	assert.NoError(t, ValidatePassword("CorrectHorse7Battery"))
	assert.Error(t, ValidatePassword("Short1aA"))
	assert.Error(t, ValidatePassword("alllowercase1234"))
	assert.Error(t, ValidatePassword("ALLUPPERCASE1234"))
	assert.Error(t, ValidatePassword("NoDigitsInHerePal"))
	assert.Error(t, ValidatePassword("MyPassword123456"), "contains 'password'")
}
