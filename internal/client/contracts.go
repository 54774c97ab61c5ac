// Package client is the headless core the mobile shells build on: the
// provider contracts screens depend on and an HTTP implementation of
// them speaking to the goal-tracker API.
package client

import (
	"context"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

type Credentials struct {
	Email    string
	Password string
}

// Enrollment is what the settings screen renders during TOTP setup.
type Enrollment struct {
	FactorID uuid.UUID
	Secret   string
	QRCode   string
	URI      string
}

// AuthProvider owns the session lifecycle. Implementations must notify
// OnSessionChange subscribers on sign-in, sign-out, refresh and MFA
// step-up, always with the session now in effect (nil after sign-out).
type AuthProvider interface {
	// SignUp registers the account and signs it in.
	SignUp(ctx context.Context, creds Credentials) (*entity.Session, error)
	// SignIn returns the session and whether a verified TOTP factor
	// still has to be confirmed before the session reaches aal2.
	SignIn(ctx context.Context, creds Credentials) (session *entity.Session, mfaRequired bool, err error)
	SignOut(ctx context.Context) error
	GetSession() *entity.Session
	CurrentUser() (uuid.UUID, bool)
	RefreshSession(ctx context.Context) (*entity.Session, error)
	// OnSessionChange subscribes fn and returns its unsubscribe.
	OnSessionChange(fn func(*entity.Session)) (unsubscribe func())
}

type MFAProvider interface {
	ListFactors(ctx context.Context) ([]*entity.MFAFactor, error)
	Enroll(ctx context.Context) (*Enrollment, error)
	Challenge(ctx context.Context, factorID uuid.UUID) (challengeID uuid.UUID, err error)
	// Verify confirms the code for the challenged factor. On success the
	// provider swaps in the upgraded aal2 session.
	Verify(ctx context.Context, factorID, challengeID uuid.UUID, code string) error
	Unenroll(ctx context.Context, factorID uuid.UUID) error
}

type NewPlan struct {
	Title       string
	Description string
	StartDate   string
	EndDate     string
}

// RowStore is the data-plane contract: equality-filtered reads and
// writes on the signed-in user's plans and completed tables.
type RowStore interface {
	SelectPlans(ctx context.Context) ([]*entity.Plan, error)
	InsertPlan(ctx context.Context, plan NewPlan) (*entity.Plan, error)
	DeletePlan(ctx context.Context, planID uuid.UUID) error
	SelectCompleted(ctx context.Context, planID uuid.UUID) ([]string, error)
	InsertCompleted(ctx context.Context, planID uuid.UUID, date string) error
	DeleteCompleted(ctx context.Context, planID uuid.UUID, date string) error
}

// SessionStore caches the session locally so the app can restore it on
// launch. Implementations must be safe for concurrent use.
type SessionStore interface {
	Load() (*entity.Session, bool)
	Save(session *entity.Session)
	Clear()
}
