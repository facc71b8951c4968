package validator_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/pkg/validator"
)

type level string

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("all pass", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "T1"),
			validator.MaxLen("title", "T1", 255),
			validator.OneOf("priority", level("low"), []level{"low", "high"}),
			validator.RequiredUUID("project_id", uuid.New()),
			validator.MinNum("position", 0, 0),
		)
		assert.NoError(t, err)
	})

	t.Run("collects every failure", func(t *testing.T) {
		t.Parallel()
		err := validator.Apply(
			validator.Required("title", "   "),
			validator.MaxLen("description", strings.Repeat("x", 11), 10),
			validator.OneOf("priority", level("urgent"), []level{"low", "high"}),
			validator.RequiredUUID("project_id", uuid.Nil),
			validator.MinNum("position", -1, 0),
		)
		require.Error(t, err)
		require.True(t, validator.IsValidationError(err))

		ve := validator.ExtractValidationErrors(fmt.Errorf("wrapped: %w", err))
		require.Len(t, ve, 5)
		for _, f := range []string{"title", "description", "priority", "project_id", "position"} {
			assert.True(t, ve.Has(f), f)
		}
		assert.Equal(t, []string{"must be one of: low, high"}, ve.Fields()["priority"])
		assert.Contains(t, err.Error(), "title: field is required")
	})

	t.Run("max length counts runes", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.MaxLen("t", "ёёё", 3)))
	})

	t.Run("when skips rule", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, validator.Apply(validator.When(false, validator.Required("t", ""))))
		assert.Error(t, validator.Apply(validator.When(true, validator.Required("t", ""))))
	})
}

func TestExtractValidationErrors(t *testing.T) {
	t.Parallel()

	assert.Nil(t, validator.ExtractValidationErrors(nil))
	assert.Nil(t, validator.ExtractValidationErrors(fmt.Errorf("plain")))
	assert.False(t, validator.IsValidationError(nil))
}
