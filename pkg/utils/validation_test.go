package utils

import (
	"testing"

	pkgerrors "recurring-orders/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name   string `json:"name" validate:"required,min=2,max=5"`
	Kind   string `json:"kind" validate:"omitempty,oneof=a b"`
	Amount int64  `json:"amount" validate:"gt=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidateStruct(sample{Name: "abc", Amount: 1}))
	})

	t.Run("reports every field by json name", func(t *testing.T) {
		err := ValidateStruct(sample{Kind: "c"})

		require.Error(t, err)
		appErr := pkgerrors.GetAppError(err)
		require.NotNil(t, appErr)
		assert.Equal(t, pkgerrors.ErrorTypeValidation, appErr.Type)
		assert.Contains(t, appErr.Message, "name is required")
		assert.Contains(t, appErr.Message, "kind must be one of: a b")
		assert.Contains(t, appErr.Message, "amount must be greater than 0")

		fields, ok := appErr.Details["fields"].(map[string]interface{})
		require.True(t, ok)
		assert.Len(t, fields, 3)
	})

	t.Run("length bounds", func(t *testing.T) {
		err := ValidateStruct(sample{Name: "abcdefg", Amount: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name must be at most 5 characters")

		err = ValidateStruct(sample{Name: "a", Amount: 1})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name must be at least 2 characters")
	})

	t.Run("not a struct", func(t *testing.T) {
		err := ValidateStruct("nope")

		assert.True(t, pkgerrors.IsValidation(err))
	})
}
