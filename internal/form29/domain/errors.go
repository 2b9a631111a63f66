package domain

import "errors"

var (
	ErrDraftNotFound     = errors.New("draft_not_found")
	ErrDraftNotValidated = errors.New("draft_not_validated")
	ErrDraftNotDraft     = errors.New("draft_not_in_draft_status")
	ErrDraftConfirmed    = errors.New("draft_already_confirmed")
	ErrInvalidCompany    = errors.New("invalid_company")
	ErrInvalidPeriod     = errors.New("invalid_period")
)
