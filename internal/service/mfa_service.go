package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/repository"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"
)

var (
	issuer       = "goal-tracker"
	challengeTTL = time.Minute * 10
)

type MFAService struct {
	usersRepo repository.UsersRepositoryI
	mfaRepo   repository.MFARepositoryI
}

func NewMFAService(usersRepo repository.UsersRepositoryI, mfaRepo repository.MFARepositoryI) *MFAService {
	if usersRepo == nil || mfaRepo == nil {
		log.Fatal("on mfa service provided nil repos")
	}
	return &MFAService{
		usersRepo: usersRepo,
		mfaRepo:   mfaRepo,
	}
}

// Enroll provisions a pending TOTP factor. A second verified factor is
// rejected; pending leftovers can be unenrolled and retried.
func (serv *MFAService) Enroll(ctx context.Context, uid uuid.UUID) (*EnrollResult, error) {
	user, err := serv.usersRepo.FindByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	factors, err := serv.mfaRepo.GetFactorsByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	for _, f := range factors {
		if f.Type == entity.FactorTypeTOTP && f.Status == entity.FactorStatusVerified {
			return nil, errorvalues.ErrFactorExists
		}
	}
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      issuer,
		AccountName: user.Email,
	})
	if err != nil {
		return nil, errors.New("generating totp key error: " + err.Error())
	}
	factor := entity.MFAFactor{
		ID:     uuid.New(),
		UserID: uid,
		Type:   entity.FactorTypeTOTP,
		Status: entity.FactorStatusPending,
		Secret: key.Secret(),
	}
	err = serv.mfaRepo.CreateFactor(ctx, &factor)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	qr, err := renderQRSVG(key.URL())
	if err != nil {
		return nil, errors.New("rendering qr code error: " + err.Error())
	}
	return &EnrollResult{
		FactorID: factor.ID,
		Secret:   key.Secret(),
		QRCode:   qr,
		URI:      key.URL(),
	}, nil
}

func (serv *MFAService) ListFactors(ctx context.Context, uid uuid.UUID) ([]*entity.MFAFactor, error) {
	factors, err := serv.mfaRepo.GetFactorsByUser(ctx, uid)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return factors, nil
}

func (serv *MFAService) Challenge(ctx context.Context, factorID, userID uuid.UUID) (*entity.MFAChallenge, error) {
	factor, err := serv.getOwnedFactor(ctx, factorID, userID)
	if err != nil {
		return nil, err
	}
	challenge := entity.MFAChallenge{
		ID:        uuid.New(),
		FactorID:  factor.ID,
		ExpiresAt: time.Now().Add(challengeTTL),
	}
	err = serv.mfaRepo.CreateChallenge(ctx, &challenge)
	if err != nil {
		return nil, errors.New("repository error: " + err.Error())
	}
	return &challenge, nil
}

func (serv *MFAService) Verify(ctx context.Context, factorID, challengeID, userID uuid.UUID, code string) error {
	// Anything but 6 digits can't be a TOTP code, skip the crypto
	if err := validate.Var(code, "required,totp_code"); err != nil {
		return errorvalues.ErrWrongCode
	}
	factor, err := serv.getOwnedFactor(ctx, factorID, userID)
	if err != nil {
		return err
	}
	challenge, err := serv.mfaRepo.GetChallenge(ctx, challengeID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrChallengeNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	if challenge.FactorID != factor.ID {
		return errorvalues.ErrChallengeNotFound
	}
	if time.Now().After(challenge.ExpiresAt) {
		serv.mfaRepo.DeleteChallenge(ctx, challengeID)
		return errorvalues.ErrChallengeExpired
	}
	// A wrong code leaves the factor pending and the challenge alive so
	// the user can retry with the next rotation.
	if !totp.Validate(code, factor.Secret) {
		return errorvalues.ErrWrongCode
	}
	if factor.Status != entity.FactorStatusVerified {
		err = serv.mfaRepo.UpdateFactorStatus(ctx, factor.ID, entity.FactorStatusVerified)
		if err != nil {
			return errors.New("repository error: " + err.Error())
		}
	}
	err = serv.mfaRepo.DeleteChallenge(ctx, challengeID)
	if err != nil {
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (serv *MFAService) Unenroll(ctx context.Context, factorID, userID uuid.UUID) error {
	factor, err := serv.getOwnedFactor(ctx, factorID, userID)
	if err != nil {
		return err
	}
	err = serv.mfaRepo.DeleteFactor(ctx, factor.ID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFactorNotFound) {
			return err
		}
		return errors.New("repository error: " + err.Error())
	}
	return nil
}

func (serv *MFAService) getOwnedFactor(ctx context.Context, factorID, userID uuid.UUID) (*entity.MFAFactor, error) {
	factor, err := serv.mfaRepo.GetFactorByID(ctx, factorID)
	if err != nil {
		if errors.Is(err, errorvalues.ErrFactorNotFound) {
			return nil, err
		}
		return nil, errors.New("repository error: " + err.Error())
	}
	if factor.UserID != userID {
		// don't leak other users' factor ids
		return nil, errorvalues.ErrFactorNotFound
	}
	return factor, nil
}

// renderQRSVG draws the QR matrix as an SVG document, one rect per dark
// module, matching the svg payload shape authenticator onboarding expects.
func renderQRSVG(uri string) (string, error) {
	code, err := qrcode.New(uri, qrcode.Medium)
	if err != nil {
		return "", err
	}
	bitmap := code.Bitmap()
	size := len(bitmap)
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, size, size)
	b.WriteString(`<rect width="100%" height="100%" fill="#ffffff"/>`)
	for y, row := range bitmap {
		for x, dark := range row {
			if dark {
				fmt.Fprintf(&b, `<rect x="%d" y="%d" width="1" height="1" fill="#000000"/>`, x, y)
			}
		}
	}
	b.WriteString(`</svg>`)
	return b.String(), nil
}
