package validator_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hrportal/pkg/validator"
)

func TestApply(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validator.Apply(
		validator.Required("email", "a@b.com"),
		validator.Email("email", "a@b.com"),
		validator.MinLen("password", "secret", 6),
	))

	err := validator.Apply(
		validator.Required("name", "  "),
		validator.Email("email", "not-an-email"),
		validator.MinLen("password", "abc", 6),
		validator.MaxLen("password", "abc", 64),
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, validator.ErrValidationFailed)
	assert.True(t, validator.IsValidationError(err))

	verrs := validator.ExtractValidationErrors(err)
	assert.Equal(t, []string{"name", "email", "password"}, verrs.Fields())
	assert.True(t, verrs.Has("email"))
	assert.Equal(t, []string{"must be at least 6 characters long"}, verrs.Get("password"))
	assert.Contains(t, err.Error(), "email: must be a valid email address")
}

func TestEmail(t *testing.T) {
	t.Parallel()

	for value, want := range map[string]bool{
		"ana@hr.example.com":   true,
		"a@b.com":              true,
		"":                     false,
		"ana":                  false,
		"ana@localhost":        false,
		"Ana <ana@hr.example>": false,
		"ana@.com":             false,
	} {
		assert.Equal(t, want, validator.Apply(validator.Email("email", value)) == nil, value)
	}
}

func TestMinLen_CountsCharacters(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validator.Apply(validator.MinLen("name", "João", 4)))
	assert.Error(t, validator.Apply(validator.MaxLen("name", "João", 3)))
}

func TestOneOf(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validator.Apply(validator.OneOf("role", "admin", []string{"admin", "manager"})))
	assert.Error(t, validator.Apply(validator.OneOf("role", "root", []string{"admin", "manager"})))
}

func TestWhen(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validator.Apply(validator.When(false, validator.Email("email", "bad"))))

	err := validator.Apply(validator.When(true, validator.Email("email", "bad")))
	verrs := validator.ExtractValidationErrors(err)
	require.NotNil(t, verrs)
	assert.Equal(t, []string{"email"}, verrs.Fields())
}

func TestExtractValidationErrors_Other(t *testing.T) {
	t.Parallel()
	assert.Nil(t, validator.ExtractValidationErrors(errors.New("boom")))
	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.False(t, validator.IsValidationError(nil))
}
