package booking

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIs(t *testing.T) {
	policy := newError(KindPolicy, StateRejected, "closed", nil)
	assert.ErrorIs(t, policy, ErrPolicy)
	assert.ErrorIs(t, policy, ErrValidation)
	assert.NotErrorIs(t, policy, ErrConflict)

	validation := newError(KindValidation, StateRejected, "bad", nil)
	assert.NotErrorIs(t, validation, ErrPolicy)

	cause := errors.New("pq: connection refused")
	db := newError(KindDatabase, StateRolledBack, "Failed", cause)
	assert.ErrorIs(t, db, cause)
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", db), ErrDatabase)
}

func TestKindAndStateOf(t *testing.T) {
	assert.Equal(t, KindConflict, KindOf(newError(KindConflict, StateRejected, "", nil)))
	assert.Equal(t, KindSystem, KindOf(errors.New("plain")))

	assert.Equal(t, StateServiceAttached, StateOf(nil))
	assert.Equal(t, StateRolledBack, StateOf(newError(KindDatabase, StateRolledBack, "", nil)))
	assert.Equal(t, StateRejected, StateOf(errors.New("plain")))
}

func TestStateTerminal(t *testing.T) {
	assert.False(t, StateValidating.Terminal())
	assert.False(t, StateAppointmentWritten.Terminal())
	assert.True(t, StateServiceAttached.Terminal())
	assert.True(t, StateRejected.Terminal())
	assert.True(t, StateRolledBack.Terminal())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "unknown", Kind(0).String())
	assert.Equal(t, "database", ErrDatabase.Error())
}
