package app_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/client"
	"github.com/mmad4804/goal-tracker/pkg/entity"
)

var (
	testUID    = uuid.New()
	testPlanID = uuid.New()
)

func junePlan() *entity.Plan {
	return &entity.Plan{
		ID:        testPlanID,
		CreatorID: testUID,
		Title:     "morning run",
		StartDate: "2024-06-01",
		EndDate:   "2024-06-30",
		CreatedAt: time.Now(),
	}
}

// fakeRowStore keeps plans and marks in memory and records completion
// writes in arrival order so serialization can be asserted.
type fakeRowStore struct {
	mu        sync.Mutex
	plans     []*entity.Plan
	completed map[string]struct{}
	writes    []string

	failSelect    bool
	failCompleted bool
}

func newFakeRowStore(plans ...*entity.Plan) *fakeRowStore {
	return &fakeRowStore{
		plans:     plans,
		completed: make(map[string]struct{}),
	}
}

func (f *fakeRowStore) SelectPlans(ctx context.Context) ([]*entity.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failSelect {
		return nil, errors.New("storage unavailable")
	}
	return append([]*entity.Plan(nil), f.plans...), nil
}

func (f *fakeRowStore) InsertPlan(ctx context.Context, plan client.NewPlan) (*entity.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := &entity.Plan{
		ID:          uuid.New(),
		CreatorID:   testUID,
		Title:       plan.Title,
		Description: plan.Description,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
		CreatedAt:   time.Now(),
	}
	f.plans = append(f.plans, created)
	return created, nil
}

func (f *fakeRowStore) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.plans {
		if p.ID == planID {
			f.plans = append(f.plans[:i], f.plans[i+1:]...)
			return nil
		}
	}
	return &client.APIError{StatusCode: http.StatusNotFound, Message: "plan doesn't exist"}
}

func (f *fakeRowStore) SelectCompleted(ctx context.Context, planID uuid.UUID) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	dates := make([]string, 0, len(f.completed))
	for d := range f.completed {
		dates = append(dates, d)
	}
	return dates, nil
}

func (f *fakeRowStore) InsertCompleted(ctx context.Context, planID uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "+"+date)
	if f.failCompleted {
		return errors.New("storage unavailable")
	}
	if _, ok := f.completed[date]; ok {
		return &client.APIError{StatusCode: http.StatusConflict, Message: "day already marked completed"}
	}
	f.completed[date] = struct{}{}
	return nil
}

func (f *fakeRowStore) DeleteCompleted(ctx context.Context, planID uuid.UUID, date string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, "-"+date)
	if f.failCompleted {
		return errors.New("storage unavailable")
	}
	if _, ok := f.completed[date]; !ok {
		return &client.APIError{StatusCode: http.StatusNotFound, Message: "completion mark doesn't exist"}
	}
	delete(f.completed, date)
	return nil
}

func (f *fakeRowStore) has(date string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.completed[date]
	return ok
}

func (f *fakeRowStore) recordedWrites() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.writes...)
}

type fakeAuth struct {
	mu          sync.Mutex
	session     *entity.Session
	signedOut   bool
	signOutFail error
}

func (f *fakeAuth) SignUp(ctx context.Context, creds client.Credentials) (*entity.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) SignIn(ctx context.Context, creds client.Credentials) (*entity.Session, bool, error) {
	return f.session, false, nil
}

func (f *fakeAuth) SignOut(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.signOutFail != nil {
		return f.signOutFail
	}
	f.signedOut = true
	f.session = nil
	return nil
}

func (f *fakeAuth) GetSession() *entity.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.session
}

func (f *fakeAuth) CurrentUser() (uuid.UUID, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.session == nil {
		return uuid.UUID{}, false
	}
	return f.session.UserID, true
}

func (f *fakeAuth) RefreshSession(ctx context.Context) (*entity.Session, error) {
	return f.session, nil
}

func (f *fakeAuth) OnSessionChange(fn func(*entity.Session)) func() {
	return func() {}
}

type fakeMFA struct {
	mu       sync.Mutex
	factors  map[uuid.UUID]*entity.MFAFactor
	failList bool
}

func newFakeMFA() *fakeMFA {
	return &fakeMFA{factors: make(map[uuid.UUID]*entity.MFAFactor)}
}

func (f *fakeMFA) ListFactors(ctx context.Context) ([]*entity.MFAFactor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList {
		return nil, errors.New("storage unavailable")
	}
	factors := make([]*entity.MFAFactor, 0, len(f.factors))
	for _, factor := range f.factors {
		cp := *factor
		factors = append(factors, &cp)
	}
	return factors, nil
}

func (f *fakeMFA) Enroll(ctx context.Context) (*client.Enrollment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.factors[id] = &entity.MFAFactor{
		ID:     id,
		UserID: testUID,
		Type:   entity.FactorTypeTOTP,
		Status: entity.FactorStatusPending,
	}
	return &client.Enrollment{
		FactorID: id,
		Secret:   "JBSWY3DPEHPK3PXP",
		QRCode:   "<svg></svg>",
		URI:      "otpauth://totp/goal-tracker:user@example.com",
	}, nil
}

func (f *fakeMFA) Challenge(ctx context.Context, factorID uuid.UUID) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.factors[factorID]; !ok {
		return uuid.UUID{}, &client.APIError{StatusCode: http.StatusNotFound, Message: "factor doesn't exist"}
	}
	return uuid.New(), nil
}

func (f *fakeMFA) Verify(ctx context.Context, factorID, challengeID uuid.UUID, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	factor, ok := f.factors[factorID]
	if !ok {
		return &client.APIError{StatusCode: http.StatusNotFound, Message: "factor doesn't exist"}
	}
	if code != "123456" {
		return &client.APIError{StatusCode: http.StatusForbidden, Message: "wrong verification code"}
	}
	factor.Status = entity.FactorStatusVerified
	return nil
}

func (f *fakeMFA) Unenroll(ctx context.Context, factorID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.factors[factorID]; !ok {
		return &client.APIError{StatusCode: http.StatusNotFound, Message: "factor doesn't exist"}
	}
	delete(f.factors, factorID)
	return nil
}
