package statemachine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/taskflow/pkg/statemachine"
)

type docStatus string

const (
	draft     docStatus = "draft"
	inReview  docStatus = "in_review"
	published docStatus = "published"
)

func TestTable_Transition(t *testing.T) {
	t.Parallel()

	table := statemachine.NewTable(draft, inReview, published).
		Allow(draft, inReview).
		Allow(inReview, draft, published)

	t.Run("allows declared moves", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, table.Transition(draft, inReview))
		assert.NoError(t, table.Transition(inReview, published))
		assert.True(t, table.CanTransition(inReview, draft))
	})

	t.Run("rejects undeclared moves", func(t *testing.T) {
		t.Parallel()
		err := table.Transition(draft, published)
		require.Error(t, err)
		assert.True(t, statemachine.IsNoTransitionAvailableError(err))
		assert.Contains(t, err.Error(), "'draft'")
		assert.False(t, table.CanTransition(published, draft))
	})

	t.Run("rejects unknown states", func(t *testing.T) {
		t.Parallel()
		err := table.Transition(draft, docStatus("archived"))
		require.Error(t, err)
		assert.True(t, statemachine.IsUnknownStateError(err))

		err = table.Transition(docStatus("archived"), draft)
		assert.True(t, statemachine.IsUnknownStateError(err))
	})

	t.Run("reports terminal states", func(t *testing.T) {
		t.Parallel()
		assert.True(t, table.Terminal(published))
		assert.False(t, table.Terminal(draft))
		assert.False(t, table.Terminal(docStatus("archived")))
	})
}

func TestTable_AllowAll(t *testing.T) {
	t.Parallel()

	table := statemachine.NewTable(draft, inReview, published).AllowAll()

	states := table.States()
	assert.Equal(t, []docStatus{draft, inReview, published}, states)

	for _, from := range states {
		for _, to := range states {
			assert.NoError(t, table.Transition(from, to), "%s -> %s", from, to)
		}
		assert.False(t, table.Terminal(from))
	}
}

func TestTable_States_ReturnsCopy(t *testing.T) {
	t.Parallel()

	table := statemachine.NewTable(draft, published)
	states := table.States()
	states[0] = inReview

	assert.True(t, table.Known(draft))
	assert.False(t, table.Known(inReview))
	assert.Equal(t, []docStatus{draft, published}, table.States())
}

func TestTable_Panics(t *testing.T) {
	t.Parallel()

	t.Run("duplicate state", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { statemachine.NewTable(draft, draft) })
	})

	t.Run("unknown source", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { statemachine.NewTable(draft).Allow(published, draft) })
	})

	t.Run("unknown target", func(t *testing.T) {
		t.Parallel()
		assert.Panics(t, func() { statemachine.NewTable(draft).Allow(draft, published) })
	})
}
