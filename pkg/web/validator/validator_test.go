package validator

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	RuleName *string `json:"ruleName" validate:"required"`
	APIKey   string  `form:"apiKey" validate:"required"`
	Plain    string  `validate:"required"`
}

func TestNewUsesTagNames(t *testing.T) {
	v := New()
	err := v.Struct(&sample{})
	require.Error(t, err)

	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	assert.Equal(t, []string{"ruleName", "apiKey", "Plain"}, fields)
}

func TestInitIsSafe(t *testing.T) {
	assert.NotPanics(t, Init)
}
