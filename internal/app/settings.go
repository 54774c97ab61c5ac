package app

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

var ErrNoPendingEnrollment = errors.New("no enrollment in progress")

// SettingsController backs the settings tab: the single MFA flow
// (enroll, show QR and secret, confirm code, unenroll) and sign-out.
// Sign-out lives here and nowhere else.
type SettingsController struct {
	auth client.AuthProvider
	mfa  client.MFAProvider

	mu      sync.Mutex
	factors []*entity.MFAFactor
	loadErr error
	pending *client.Enrollment
}

func NewSettingsController(auth client.AuthProvider, mfa client.MFAProvider) *SettingsController {
	return &SettingsController{auth: auth, mfa: mfa}
}

func (sc *SettingsController) OnActivate(ctx context.Context) {
	sc.reloadFactors(ctx)
}

func (sc *SettingsController) OnDeactivate() {
	// Leaving the screen abandons an unconfirmed enrollment
	sc.mu.Lock()
	sc.pending = nil
	sc.mu.Unlock()
}

func (sc *SettingsController) reloadFactors(ctx context.Context) {
	factors, err := sc.mfa.ListFactors(ctx)
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.factors, sc.loadErr = factors, err
}

func (sc *SettingsController) Factors() []*entity.MFAFactor {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.factors
}

func (sc *SettingsController) LoadErr() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.loadErr
}

// BeginEnrollment starts TOTP setup and returns what the screen renders:
// the QR code and the secret for manual entry.
func (sc *SettingsController) BeginEnrollment(ctx context.Context) (*client.Enrollment, error) {
	enrollment, err := sc.mfa.Enroll(ctx)
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	sc.pending = enrollment
	sc.mu.Unlock()
	return enrollment, nil
}

// ConfirmEnrollment challenges the pending factor and verifies the code.
// A wrong code leaves the enrollment pending so the user can retry.
func (sc *SettingsController) ConfirmEnrollment(ctx context.Context, code string) error {
	sc.mu.Lock()
	pending := sc.pending
	sc.mu.Unlock()
	if pending == nil {
		return ErrNoPendingEnrollment
	}
	challengeID, err := sc.mfa.Challenge(ctx, pending.FactorID)
	if err != nil {
		return err
	}
	if err := sc.mfa.Verify(ctx, pending.FactorID, challengeID, code); err != nil {
		return err
	}
	sc.mu.Lock()
	sc.pending = nil
	sc.mu.Unlock()
	sc.reloadFactors(ctx)
	return nil
}

func (sc *SettingsController) PendingEnrollment() *client.Enrollment {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.pending
}

func (sc *SettingsController) Unenroll(ctx context.Context, factorID uuid.UUID) error {
	if err := sc.mfa.Unenroll(ctx, factorID); err != nil {
		return err
	}
	sc.reloadFactors(ctx)
	return nil
}

func (sc *SettingsController) SignOut(ctx context.Context) error {
	return sc.auth.SignOut(ctx)
}
