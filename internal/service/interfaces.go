package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

type RegisterRequest struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

type CreatePlanRequest struct {
	Title       string `validate:"required,min=1,max=200"`
	Description string `validate:"max=2000"`
	StartDate   string `validate:"required,datetime=2006-01-02"`
	EndDate     string `validate:"required,datetime=2006-01-02"`
}

type PaginationOpts struct {
	Limit  int
	Offset int
}

type UserServiceI interface {
	// Validates user's credentials, creates new row in database. Returns user's data with ID
	Register(ctx context.Context, req *RegisterRequest) (*entity.User, error)
	// Compares given credentials. If ok, gives back user's data with ID.
	Login(ctx context.Context, email, password string) (*entity.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	DeleteAccount(ctx context.Context, id uuid.UUID, password string) error
}

type PlansServiceI interface {
	// Validates the creation form and stores the plan. Plans are immutable afterwards
	CreatePlan(ctx context.Context, uid uuid.UUID, req CreatePlanRequest) (*entity.Plan, error)
	GetPlan(ctx context.Context, planID, userID uuid.UUID) (*entity.Plan, error)
	GetUserPlans(ctx context.Context, uid uuid.UUID, pagination PaginationOpts) ([]*entity.Plan, error)
	DeletePlan(ctx context.Context, planID, userID uuid.UUID) error
}

type CompletionsServiceI interface {
	// Flips the (plan, user, date) mark and reports whether the day is now completed
	Toggle(ctx context.Context, planID, userID uuid.UUID, date string) (bool, error)
	// Explicit-intent variants used by clients replaying queued writes
	Mark(ctx context.Context, planID, userID uuid.UUID, date string) error
	Unmark(ctx context.Context, planID, userID uuid.UUID, date string) error
	List(ctx context.Context, planID, userID uuid.UUID) ([]string, error)
}

// EnrollResult carries what the user needs to finish TOTP setup: the
// shared secret for manual entry and an SVG QR code of the otpauth URI.
type EnrollResult struct {
	FactorID uuid.UUID `json:"id"`
	Secret   string    `json:"secret"`
	QRCode   string    `json:"qr_code"`
	URI      string    `json:"uri"`
}

type MFAServiceI interface {
	Enroll(ctx context.Context, uid uuid.UUID) (*EnrollResult, error)
	ListFactors(ctx context.Context, uid uuid.UUID) ([]*entity.MFAFactor, error)
	Challenge(ctx context.Context, factorID, userID uuid.UUID) (*entity.MFAChallenge, error)
	// Verify consumes the challenge on success and flips the factor to
	// verified. A wrong code leaves both untouched so the user can retry.
	Verify(ctx context.Context, factorID, challengeID, userID uuid.UUID, code string) error
	Unenroll(ctx context.Context, factorID, userID uuid.UUID) error
}

type ScheduleDay struct {
	Date       string `json:"date"`
	MonthLabel string `json:"month_label,omitempty"`
	Completed  bool   `json:"completed"`
	Shape      string `json:"shape"`
}

type ScheduleWeek struct {
	Index int           `json:"week"`
	Days  []ScheduleDay `json:"days"`
}

type PlanSchedule struct {
	Plan  *entity.Plan   `json:"plan"`
	Weeks []ScheduleWeek `json:"weeks"`
}

type ScheduleServiceI interface {
	// Builds the render model for the plan details calendar
	BuildSchedule(ctx context.Context, planID, userID uuid.UUID) (*PlanSchedule, error)
}
