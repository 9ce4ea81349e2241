package services

import "errors"

// Domain errors, classified so handlers can translate them into
// distinct HTTP outcomes: validation, state, authorization, not-found.
var (
	// Not-found. Soft-deleted and removed entities are reported as
	// not found on public reads.
	ErrNotFound = errors.New("not found")

	// Authorization
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Validation
	ErrInvalidFile        = errors.New("invalid image file")
	ErrInvalidCategory    = errors.New("invalid category")
	ErrInvalidMonthKey    = errors.New("invalid month key")
	ErrInvalidAction      = errors.New("invalid judge action")
	ErrFlagReasonRequired = errors.New("flag action requires a reason")
	ErrTooManyTags        = errors.New("too many tags")
	ErrCommentTooLong     = errors.New("comment exceeds maximum length")
	ErrEmptyComment       = errors.New("comment body is required")
	ErrEmailTaken         = errors.New("email is already registered")

	// State
	ErrQuotaExceeded     = errors.New("monthly submission limit reached")
	ErrSubmissionsClosed = errors.New("submissions are closed for this month")
	ErrJudgingClosed     = errors.New("judging is not open for this month")
	ErrInvalidTransition = errors.New("invalid month status transition")
	ErrMonthAlreadyOpen  = errors.New("another month is already open")
	ErrMonthExists       = errors.New("month already exists")
	ErrJudgePanelFull    = errors.New("judge panel is full for this month")
	ErrDuplicateJudge    = errors.New("user is already a judge for this month")
	ErrNotJudge          = errors.New("user is not a judge for this month")
	ErrAlreadyDrawn      = errors.New("raffle has already been drawn for this month")
	ErrNoParticipants    = errors.New("no eligible participants for this month")
)
