package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/taskflow/pkg/apperr"
)

func TestError_Kind(t *testing.T) {
	t.Parallel()

	errPlanNotFound := apperr.New(apperr.ErrNotFound, "billing: plan not found")

	t.Run("matches its kind", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, errPlanNotFound, apperr.ErrNotFound)
		assert.True(t, apperr.IsNotFound(errPlanNotFound))
		assert.False(t, apperr.IsInvalidState(errPlanNotFound))
		assert.Equal(t, "billing: plan not found", errPlanNotFound.Error())
	})

	t.Run("survives wrapping", func(t *testing.T) {
		t.Parallel()
		wrapped := fmt.Errorf("load order: %w", errPlanNotFound)
		assert.ErrorIs(t, wrapped, errPlanNotFound)
		assert.Equal(t, apperr.ErrNotFound, apperr.KindOf(wrapped))
	})

	t.Run("joined errors keep the kind", func(t *testing.T) {
		t.Parallel()
		joined := errors.Join(apperr.New(apperr.ErrSignatureInvalid, "bad signature"), errors.New("mismatch"))
		assert.True(t, apperr.IsSignatureInvalid(joined))
	})

	t.Run("unknown errors have no kind", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, apperr.KindOf(errors.New("boom")))
		assert.Nil(t, apperr.KindOf(nil))
	})
}
