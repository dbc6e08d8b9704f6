package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateEmail(t *testing.T) {
	cases := map[string]bool{
		"a@test.com":          true,
		"":                    false,
		"sin-arroba":          false,
		"Ana <a@test.com>":    false,
		"cuadrilla@norte.com": true,
	}
	for email, ok := range cases {
		err := ValidateEmail(email)
		assert.Equal(t, ok, err == nil, email)
	}
}

func TestValidatePassword(t *testing.T) {
	assert.Error(t, ValidatePassword("123"))
	assert.NoError(t, ValidatePassword("123456"))
}

func TestRequireString(t *testing.T) {
	assert.EqualError(t, RequireString("  ", "nombre"), "El campo nombre es obligatorio")
	assert.NoError(t, RequireString("x", "nombre"))
}

func TestParseID(t *testing.T) {
	id, ok := ParseID("42")
	assert.True(t, ok)
	assert.EqualValues(t, 42, id)

	for _, raw := range []string{"0", "-1", "abc", ""} {
		_, ok := ParseID(raw)
		assert.False(t, ok, raw)
	}
}
