package errors

import "errors"

var (
	ErrCampaignNotFound    = errors.New("campaign not found")
	ErrParticipantNotFound = errors.New("participant not found")
	ErrResponseNotFound    = errors.New("waitlist response not found")

	ErrInvalidCampaignInput = errors.New("invalid campaign input")
	ErrInvalidPlatform      = errors.New("unsupported platform")
	ErrCampaignNotActive    = errors.New("campaign is not active")
	ErrInvalidTransition    = errors.New("invalid campaign status transition")
	ErrSelfTarget           = errors.New("action cannot target the acting user")
	ErrCreatorImmutable     = errors.New("creator role cannot be reassigned")

	ErrForbidden    = errors.New("forbidden")
	ErrCampaignFull = errors.New("campaign is full")
	ErrUserBanned   = errors.New("user is banned from this campaign")

	ErrAlreadyParticipant = errors.New("user already participates in this campaign")
	ErrAlreadyFunded      = errors.New("campaign already funded")
	ErrAlreadyEnded       = errors.New("campaign already ended")

	ErrIdempotencyKeyRequired = errors.New("idempotency key is required")
	ErrIdempotencyKeyConflict = errors.New("idempotency key conflict")
)
