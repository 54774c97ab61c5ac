package entity

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
}

// Plan dates are calendar dates without a time component, kept as
// YYYY-MM-DD strings end to end.
type Plan struct {
	ID          uuid.UUID `json:"plan_id"`
	CreatorID   uuid.UUID `json:"creator_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

type CompletionMark struct {
	PlanID uuid.UUID `json:"plan_id"`
	UserID uuid.UUID `json:"user_id"`
	Date   string    `json:"date"`
}

const (
	FactorTypeTOTP = "totp"

	FactorStatusPending  = "pending"
	FactorStatusVerified = "verified"
)

type MFAFactor struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"-"`
	Type      string    `json:"factor_type"`
	Status    string    `json:"status"`
	Secret    string    `json:"-"`
	CreatedAt time.Time `json:"-"`
}

type MFAChallenge struct {
	ID        uuid.UUID
	FactorID  uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Authenticator assurance levels carried in session claims. AAL1 means
// password only, AAL2 means a TOTP factor was verified for this session.
const (
	AAL1 = "aal1"
	AAL2 = "aal2"
)

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	UserID       uuid.UUID `json:"uid"`
	Email        string    `json:"email"`
	AAL          string    `json:"aal"`
	ExpiresAt    time.Time `json:"expires_at"`
}
