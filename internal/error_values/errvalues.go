package errorvalues

import "errors"

var (
	ErrValidation = errors.New("validation failed")

	ErrUserExists       = errors.New("such user already exists")
	ErrUserNotFound     = errors.New("user doesn't exists")
	ErrWrongCredentials = errors.New("wrong email or password")
	ErrInvalidToken     = errors.New("invalid token")

	ErrPlanNotFound = errors.New("plan doesn't exist")
	ErrWrongOwner   = errors.New("plan has different owner")

	ErrMarkExists     = errors.New("day already marked completed")
	ErrMarkNotFound   = errors.New("completion mark doesn't exist")
	ErrBadDate        = errors.New("date must be YYYY-MM-DD")
	ErrDateOutOfRange = errors.New("date outside plan range")

	ErrFactorExists      = errors.New("verified totp factor already enrolled")
	ErrFactorNotFound    = errors.New("mfa factor doesn't exist")
	ErrChallengeNotFound = errors.New("mfa challenge doesn't exist")
	ErrChallengeExpired  = errors.New("mfa challenge expired")
	ErrWrongCode         = errors.New("wrong verification code")
)
