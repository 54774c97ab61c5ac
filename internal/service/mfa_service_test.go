package service_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/service"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wrongCode picks a 6-digit code that is invalid for secret in every
// accepted time window.
func wrongCode(t *testing.T, secret string) string {
	t.Helper()
	valid := map[string]struct{}{}
	for _, offset := range []time.Duration{-30 * time.Second, 0, 30 * time.Second} {
		code, err := totp.GenerateCode(secret, time.Now().Add(offset))
		require.NoError(t, err)
		valid[code] = struct{}{}
	}
	for _, candidate := range []string{"000000", "111111", "222222", "333333"} {
		if _, ok := valid[candidate]; !ok {
			return candidate
		}
	}
	t.Fatal("no invalid candidate code found")
	return ""
}

func TestEnroll(t *testing.T) {
	usersMock := &usersRepoMock{state: stateSuccess}
	mfaMock := newMFARepoMock()
	s := service.NewMFAService(usersMock, mfaMock)
	ctx := context.Background()
	t.Run("success", func(t *testing.T) {
		res, err := s.Enroll(ctx, testUserID)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Secret)
		assert.True(t, strings.HasPrefix(res.QRCode, "<svg"))
		assert.Contains(t, res.URI, "otpauth://totp/")
		factor, err := mfaMock.GetFactorByID(ctx, res.FactorID)
		require.NoError(t, err)
		assert.Equal(t, entity.FactorStatusPending, factor.Status)
	})
	t.Run("pending factor allows re-enroll", func(t *testing.T) {
		_, err := s.Enroll(ctx, testUserID)
		assert.NoError(t, err)
	})
	t.Run("verified factor blocks enroll", func(t *testing.T) {
		res, err := s.Enroll(ctx, testUserID)
		require.NoError(t, err)
		require.NoError(t, mfaMock.UpdateFactorStatus(ctx, res.FactorID, entity.FactorStatusVerified))
		_, err = s.Enroll(ctx, testUserID)
		assert.ErrorIs(t, err, errorvalues.ErrFactorExists)
	})
	t.Run("user not found", func(t *testing.T) {
		usersMock.state = stateNotFound
		_, err := s.Enroll(ctx, testUserID)
		assert.ErrorIs(t, err, errorvalues.ErrUserNotFound)
	})
}

func TestChallengeAndVerify(t *testing.T) {
	usersMock := &usersRepoMock{state: stateSuccess}
	mfaMock := newMFARepoMock()
	s := service.NewMFAService(usersMock, mfaMock)
	ctx := context.Background()

	enrolled, err := s.Enroll(ctx, testUserID)
	require.NoError(t, err)
	secret := enrolled.Secret

	challenge, err := s.Challenge(ctx, enrolled.FactorID, testUserID)
	require.NoError(t, err)
	assert.Equal(t, enrolled.FactorID, challenge.FactorID)

	t.Run("wrong code leaves factor pending and challenge alive", func(t *testing.T) {
		err := s.Verify(ctx, enrolled.FactorID, challenge.ID, testUserID, wrongCode(t, secret))
		assert.ErrorIs(t, err, errorvalues.ErrWrongCode)
		factor, err := mfaMock.GetFactorByID(ctx, enrolled.FactorID)
		require.NoError(t, err)
		assert.Equal(t, entity.FactorStatusPending, factor.Status)
		_, err = mfaMock.GetChallenge(ctx, challenge.ID)
		assert.NoError(t, err)
	})
	t.Run("valid code verifies factor and consumes challenge", func(t *testing.T) {
		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		require.NoError(t, s.Verify(ctx, enrolled.FactorID, challenge.ID, testUserID, code))
		factor, err := mfaMock.GetFactorByID(ctx, enrolled.FactorID)
		require.NoError(t, err)
		assert.Equal(t, entity.FactorStatusVerified, factor.Status)
		_, err = mfaMock.GetChallenge(ctx, challenge.ID)
		assert.ErrorIs(t, err, errorvalues.ErrChallengeNotFound)
	})
	t.Run("expired challenge", func(t *testing.T) {
		expired := &entity.MFAChallenge{
			ID:        uuid.New(),
			FactorID:  enrolled.FactorID,
			ExpiresAt: time.Now().Add(-time.Minute),
		}
		require.NoError(t, mfaMock.CreateChallenge(ctx, expired))
		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		assert.ErrorIs(t, s.Verify(ctx, enrolled.FactorID, expired.ID, testUserID, code), errorvalues.ErrChallengeExpired)
	})
	t.Run("challenge for different factor", func(t *testing.T) {
		stranger, err := s.Enroll(ctx, testUserID)
		require.NoError(t, err)
		other, err := s.Challenge(ctx, stranger.FactorID, testUserID)
		require.NoError(t, err)
		code, err := totp.GenerateCode(secret, time.Now())
		require.NoError(t, err)
		assert.ErrorIs(t, s.Verify(ctx, enrolled.FactorID, other.ID, testUserID, code), errorvalues.ErrChallengeNotFound)
	})
}

func TestUnenroll(t *testing.T) {
	usersMock := &usersRepoMock{state: stateSuccess}
	mfaMock := newMFARepoMock()
	s := service.NewMFAService(usersMock, mfaMock)
	ctx := context.Background()

	enrolled, err := s.Enroll(ctx, testUserID)
	require.NoError(t, err)

	t.Run("foreign factor hidden", func(t *testing.T) {
		assert.ErrorIs(t, s.Unenroll(ctx, enrolled.FactorID, uuid.New()), errorvalues.ErrFactorNotFound)
	})
	t.Run("success", func(t *testing.T) {
		require.NoError(t, s.Unenroll(ctx, enrolled.FactorID, testUserID))
		_, err := mfaMock.GetFactorByID(ctx, enrolled.FactorID)
		assert.ErrorIs(t, err, errorvalues.ErrFactorNotFound)
	})
	t.Run("already gone", func(t *testing.T) {
		assert.ErrorIs(t, s.Unenroll(ctx, enrolled.FactorID, testUserID), errorvalues.ErrFactorNotFound)
	})
}
