package types

import "errors"

// Booking and review conflicts are expected under load; handlers match these
// with errors.Is to pick the response status.
var (
	ErrSlotAlreadyBooked  = errors.New("timeslot is already booked")
	ErrInvalidTransition  = errors.New("booking cannot transition from its current status")
	ErrDuplicateReview    = errors.New("a review for this venue already exists")
	ErrInvalidRating      = errors.New("rating must be an integer between 1 and 5")
	ErrOTPInvalid         = errors.New("invalid OTP code")
	ErrOTPExpired         = errors.New("OTP code has expired")
	ErrAlreadyVerified    = errors.New("user is already verified")
	ErrNotVerified        = errors.New("account is not verified")
	ErrResendTooSoon      = errors.New("OTP was resent too recently")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
