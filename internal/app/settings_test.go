package app_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/app"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsEnrollmentFlow(t *testing.T) {
	auth := &fakeAuth{}
	mfa := newFakeMFA()
	sc := app.NewSettingsController(auth, mfa)
	ctx := context.Background()

	sc.OnActivate(ctx)
	assert.Empty(t, sc.Factors())

	enrollment, err := sc.BeginEnrollment(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, enrollment.Secret)
	assert.NotEmpty(t, enrollment.QRCode)
	assert.NotNil(t, sc.PendingEnrollment())

	t.Run("wrong code keeps enrollment pending", func(t *testing.T) {
		require.Error(t, sc.ConfirmEnrollment(ctx, "000000"))
		assert.NotNil(t, sc.PendingEnrollment())
	})
	t.Run("correct code verifies", func(t *testing.T) {
		require.NoError(t, sc.ConfirmEnrollment(ctx, "123456"))
		assert.Nil(t, sc.PendingEnrollment())
		factors := sc.Factors()
		require.Len(t, factors, 1)
		assert.Equal(t, entity.FactorStatusVerified, factors[0].Status)
	})
	t.Run("confirm without pending enrollment", func(t *testing.T) {
		assert.ErrorIs(t, sc.ConfirmEnrollment(ctx, "123456"), app.ErrNoPendingEnrollment)
	})
}

func TestSettingsDeactivateAbandonsEnrollment(t *testing.T) {
	sc := app.NewSettingsController(&fakeAuth{}, newFakeMFA())
	ctx := context.Background()
	sc.OnActivate(ctx)

	_, err := sc.BeginEnrollment(ctx)
	require.NoError(t, err)
	sc.OnDeactivate()
	assert.Nil(t, sc.PendingEnrollment())
	assert.ErrorIs(t, sc.ConfirmEnrollment(ctx, "123456"), app.ErrNoPendingEnrollment)
}

func TestSettingsUnenroll(t *testing.T) {
	sc := app.NewSettingsController(&fakeAuth{}, newFakeMFA())
	ctx := context.Background()
	sc.OnActivate(ctx)

	enrollment, err := sc.BeginEnrollment(ctx)
	require.NoError(t, err)
	require.NoError(t, sc.ConfirmEnrollment(ctx, "123456"))

	require.NoError(t, sc.Unenroll(ctx, enrollment.FactorID))
	assert.Empty(t, sc.Factors())

	assert.Error(t, sc.Unenroll(ctx, uuid.New()))
}

func TestSettingsSignOut(t *testing.T) {
	auth := &fakeAuth{session: &entity.Session{
		UserID:    testUID,
		AAL:       entity.AAL1,
		ExpiresAt: time.Now().Add(time.Hour),
	}}
	sc := app.NewSettingsController(auth, newFakeMFA())

	require.NoError(t, sc.SignOut(context.Background()))
	assert.True(t, auth.signedOut)
	assert.Nil(t, auth.GetSession())
}
