package service

import (
	"context"
	"testing"

	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm_RequiresValidation(t *testing.T) {
	env := newTestEnv(t)
	draft := env.seedDraft(t, nil)

	_, err := env.svc.Confirm(context.Background(), draft.ID)
	assert.ErrorIs(t, err, form29domain.ErrDraftNotValidated)
}

func TestConfirm_ValidatedDraft(t *testing.T) {
	env := newTestEnv(t)
	draft := env.seedDraft(t, func(d *form29domain.Draft) {
		d.ValidationStatus = form29domain.ValidationStatusValid
	})

	confirmed, err := env.svc.Confirm(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, form29domain.DraftStatusConfirmed, confirmed.Status)

	// A second confirm is a no-op, not an error.
	again, err := env.svc.Confirm(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, form29domain.DraftStatusConfirmed, again.Status)

	var stored form29domain.Draft
	require.NoError(t, env.db.First(&stored, "id = ?", draft.ID).Error)
	assert.Equal(t, form29domain.DraftStatusConfirmed, stored.Status)
}

func TestCancel_ConfirmedDraftRefused(t *testing.T) {
	env := newTestEnv(t)
	draft := env.seedDraft(t, func(d *form29domain.Draft) {
		d.Status = form29domain.DraftStatusConfirmed
		d.ValidationStatus = form29domain.ValidationStatusValid
	})

	_, err := env.svc.Cancel(context.Background(), draft.ID)
	assert.ErrorIs(t, err, form29domain.ErrDraftConfirmed)

	paid := env.seedDraft(t, func(d *form29domain.Draft) {
		d.Status = form29domain.DraftStatusPaid
	})
	_, err = env.svc.Cancel(context.Background(), paid.ID)
	assert.ErrorIs(t, err, form29domain.ErrDraftConfirmed)
}

func TestCancel_DraftAndIdempotency(t *testing.T) {
	env := newTestEnv(t)
	draft := env.seedDraft(t, nil)

	cancelled, err := env.svc.Cancel(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, form29domain.DraftStatusCancelled, cancelled.Status)

	again, err := env.svc.Cancel(context.Background(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, form29domain.DraftStatusCancelled, again.Status)
}

func TestConfirm_UnknownDraft(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.svc.Confirm(context.Background(), env.node.Generate())
	assert.ErrorIs(t, err, form29domain.ErrDraftNotFound)
}
