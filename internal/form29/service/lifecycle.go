package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	form29domain "github.com/contaflow/tributo/internal/form29/domain"
	"go.uber.org/zap"
)

// Confirm transitions a validated draft to confirmed.
func (s *Service) Confirm(ctx context.Context, draftID snowflake.ID) (*form29domain.Draft, error) {
	draft, err := s.repo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, form29domain.ErrDraftNotFound
	}
	if draft.Status == form29domain.DraftStatusConfirmed {
		return draft, nil
	}
	if draft.Status != form29domain.DraftStatusDraft && draft.Status != form29domain.DraftStatusSaved {
		return nil, form29domain.ErrDraftNotDraft
	}
	if draft.ValidationStatus != form29domain.ValidationStatusValid {
		return nil, form29domain.ErrDraftNotValidated
	}

	updated, err := s.repo.UpdateStatus(ctx, draft.ID, draft.Status, form29domain.DraftStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, form29domain.ErrDraftNotDraft
	}

	s.log.Info("draft confirmed",
		zap.String("draft_id", draft.ID.String()),
		zap.String("company_id", draft.CompanyID.String()),
	)
	draft.Status = form29domain.DraftStatusConfirmed
	return draft, nil
}

// Cancel transitions a non-confirmed draft to cancelled. A cancelled draft
// stops blocking the period, so a fresh revision can be generated.
func (s *Service) Cancel(ctx context.Context, draftID snowflake.ID) (*form29domain.Draft, error) {
	draft, err := s.repo.FindByID(ctx, draftID)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, form29domain.ErrDraftNotFound
	}
	if draft.Status == form29domain.DraftStatusCancelled {
		return draft, nil
	}
	if draft.Status == form29domain.DraftStatusConfirmed || draft.Status == form29domain.DraftStatusPaid {
		return nil, form29domain.ErrDraftConfirmed
	}

	updated, err := s.repo.UpdateStatus(ctx, draft.ID, draft.Status, form29domain.DraftStatusCancelled)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, form29domain.ErrDraftNotDraft
	}

	s.log.Info("draft cancelled",
		zap.String("draft_id", draft.ID.String()),
		zap.String("company_id", draft.CompanyID.String()),
	)
	draft.Status = form29domain.DraftStatusCancelled
	return draft, nil
}
