package utils

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testSettings struct {
	Name  string `validate:"required"`
	Level string `validate:"oneof=debug info"`
	Port  int    `validate:"min=1,max=65535"`
	URL   string `validate:"omitempty,url"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		err := ValidateStruct(testSettings{Name: "a", Level: "info", Port: 80})
		assert.NoError(t, err)
	})

	t.Run("invalid struct", func(t *testing.T) {
		err := ValidateStruct(testSettings{Level: "trace", Port: 0, URL: "nope"})
		require.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Equal(t, "testSettings.Name is required", fields["testSettings.Name"])
		assert.Equal(t, "testSettings.Level must be one of: debug info", fields["testSettings.Level"])
		assert.Equal(t, "testSettings.Port must be at least 1", fields["testSettings.Port"])
		assert.Equal(t, "testSettings.URL must be a valid URL", fields["testSettings.URL"])
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Message: "Validation failed"}
	assert.Equal(t, "Validation failed", err.Error())

	err.Fields = map[string]string{"b": "b is required", "a": "a is required"}
	assert.Equal(t, "Validation failed: a is required; b is required", err.Error())
}

func TestIsValidationError(t *testing.T) {
	assert.True(t, IsValidationError(&ValidationError{}))
	assert.False(t, IsValidationError(errors.New("other")))
	assert.Nil(t, GetValidationFields(errors.New("other")))
}
