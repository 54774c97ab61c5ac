package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	errorvalues "github.com/mmad4804/goal-tracker/internal/error_values"
	"github.com/mmad4804/goal-tracker/internal/service"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/httputil"
)

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Session     *entity.Session `json:"session"`
	MFARequired bool            `json:"mfa_required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type CreatePlanRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
}

type GetPlansResponse struct {
	UserID string         `json:"uid"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Plans  []*entity.Plan `json:"plans"`
}

type ListFactorsResponse struct {
	All []*entity.MFAFactor `json:"all"`
}

type EnrollResponse struct {
	ID   string `json:"id"`
	TOTP struct {
		QRCode string `json:"qr_code"`
		Secret string `json:"secret"`
		URI    string `json:"uri"`
	} `json:"totp"`
}

type ChallengeResponse struct {
	ID        string    `json:"id"`
	ExpiresAt time.Time `json:"expires_at"`
}

type VerifyRequest struct {
	ChallengeID string `json:"challenge_id"`
	Code        string `json:"code"`
}

type ToggleRequest struct {
	Date string `json:"date"`
}

type ToggleResponse struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

type CompletedResponse struct {
	PlanID string   `json:"plan_id"`
	Dates  []string `json:"dates"`
}

func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RegisterRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("registering error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Register(ctx, &service.RegisterRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserExists):
			logger.Error("registering error: existed user")
			httputil.WriteErrorResponse(w, http.StatusConflict, "user with such email already exists", nil)
		case errors.Is(err, errorvalues.ErrValidation):
			logger.Error("registering error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid registration form", err)
		default:
			logger.Error("registering error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during registration", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, map[string]any{
		"uid": user.ID.String(),
	})
	logger.Info("successful registration")
}

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req LoginRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("login error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("login error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user with such email doesn't exist", nil)
			return
		case errors.Is(err, errorvalues.ErrWrongCredentials):
			logger.Error("login error: wrong password")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "invalid email or password", nil)
			return
		default:
			logger.Error("login error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
			return
		}
	}
	// Password alone is always aal1. The client must challenge+verify a
	// verified factor to obtain an aal2 session.
	mfaRequired := false
	factors, err := s.mfaService.ListFactors(ctx, user.ID)
	if err != nil {
		logger.Error("login error: listing factors error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during login", nil)
		return
	}
	for _, f := range factors {
		if f.Type == entity.FactorTypeTOTP && f.Status == entity.FactorStatusVerified {
			mfaRequired = true
			break
		}
	}
	session, err := s.jwtService.GenerateSession(user, entity.AAL1)
	if err != nil {
		logger.Error("login error: generating session error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating session", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, LoginResponse{
		Session:     session,
		MFARequired: mfaRequired,
	})
	logger.Info("successful login")
}

func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	var req RefreshRequest
	defer r.Body.Close()
	err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("refresh error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	claims, err := s.jwtService.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		logger.Error("refresh error: invalid refresh token")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid refresh token", nil)
		return
	}
	uid, err := uuid.Parse(claims.UserID)
	if err != nil {
		logger.Error("refresh error: invalid uid in claims")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "invalid token payload", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		if errors.Is(err, errorvalues.ErrUserNotFound) {
			logger.Error("refresh error: user doesn't exist")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
			return
		}
		logger.Error("refresh error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error during refresh", nil)
		return
	}
	// Refreshing preserves the assurance level the session already earned
	session, err := s.jwtService.GenerateSession(user, claims.AAL)
	if err != nil {
		logger.Error("refresh error: generating session error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating session", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, session)
	logger.Info("session refreshed")
}

// Logout is stateless on the server: tokens simply age out. The endpoint
// exists so the client contract has an explicit sign-out call.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	w.WriteHeader(http.StatusNoContent)
	logger.Info("logged out")
}

func (s *Server) ListFactors(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("list factors error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	factors, err := s.mfaService.ListFactors(ctx, uid)
	if err != nil {
		logger.Error("list factors error: service error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while listing factors", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ListFactorsResponse{All: factors})
	logger.Info("factors provided")
}

func (s *Server) EnrollFactor(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("enroll error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	result, err := s.mfaService.Enroll(ctx, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrFactorExists):
			logger.Error("enroll error: verified factor exists")
			httputil.WriteErrorResponse(w, http.StatusConflict, "totp factor already enrolled", nil)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("enroll error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "user not found", nil)
		default:
			logger.Error("enroll error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while enrolling", nil)
		}
		return
	}
	var resp EnrollResponse
	resp.ID = result.FactorID.String()
	resp.TOTP.QRCode = result.QRCode
	resp.TOTP.Secret = result.Secret
	resp.TOTP.URI = result.URI
	httputil.WriteJSONResponse(w, http.StatusCreated, resp)
	logger.Info("totp factor enrolled")
}

func (s *Server) ChallengeFactor(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("challenge error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	factorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("challenge error: invalid factor id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid factor id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	challenge, err := s.mfaService.Challenge(ctx, factorID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrFactorNotFound):
			logger.Error("challenge error: unexist factor")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "factor doesn't exist", nil)
		default:
			logger.Error("challenge error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating challenge", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, ChallengeResponse{
		ID:        challenge.ID.String(),
		ExpiresAt: challenge.ExpiresAt,
	})
	logger.Info("challenge created")
}

func (s *Server) VerifyFactor(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("verify error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	factorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("verify error: invalid factor id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid factor id in path value", nil)
		return
	}
	var req VerifyRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("verify error: invalid body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		logger.Error("verify error: invalid challenge id")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid challenge id", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.mfaService.Verify(ctx, factorID, challengeID, uid, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrWrongCode):
			// Factor stays pending, challenge stays alive, user retries
			logger.Error("verify error: wrong code")
			httputil.WriteErrorResponse(w, http.StatusForbidden, "wrong verification code", nil)
		case errors.Is(err, errorvalues.ErrChallengeExpired):
			logger.Error("verify error: challenge expired")
			httputil.WriteErrorResponse(w, http.StatusGone, "challenge expired, request a new one", nil)
		case errors.Is(err, errorvalues.ErrFactorNotFound), errors.Is(err, errorvalues.ErrChallengeNotFound):
			logger.Error("verify error: unexist factor or challenge")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "factor or challenge doesn't exist", nil)
		default:
			logger.Error("verify error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while verifying", nil)
		}
		return
	}
	user, err := s.userService.GetByID(ctx, uid)
	if err != nil {
		logger.Error("verify error: searching user error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while verifying", nil)
		return
	}
	// Successful verification upgrades the session to aal2
	session, err := s.jwtService.GenerateSession(user, entity.AAL2)
	if err != nil {
		logger.Error("verify error: generating session error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error creating session", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, map[string]any{"session": session})
	logger.Info("totp factor verified")
}

func (s *Server) UnenrollFactor(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("unenroll error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	factorID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("unenroll error: invalid factor id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid factor id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.mfaService.Unenroll(ctx, factorID, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrFactorNotFound):
			logger.Error("unenroll error: unexist factor")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "factor doesn't exist", nil)
		default:
			logger.Error("unenroll error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while unenrolling", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("totp factor unenrolled")
}

func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("create plan error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	var req CreatePlanRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("create plan error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	plan, err := s.plansService.CreatePlan(ctx, uid, service.CreatePlanRequest{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrValidation), errors.Is(err, errorvalues.ErrDateOutOfRange):
			logger.Error("create plan error: validation failed")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan form", err)
		case errors.Is(err, errorvalues.ErrUserNotFound):
			logger.Error("create plan error: unexist user")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "couldn't create plan: user doesn't exists", nil)
		default:
			logger.Error("create plan error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while creating plan", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, plan)
	logger.Info("plan created")
}

func (s *Server) GetPlans(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get plans error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * limit
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	plans, err := s.plansService.GetUserPlans(ctx, uid, service.PaginationOpts{
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		logger.Error("getting plans list error", slog.String("error", err.Error()))
		httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting plans list", nil)
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, GetPlansResponse{
		UserID: uid.String(),
		Page:   page,
		Limit:  limit,
		Plans:  plans,
	})
	logger.Info("plans provided")
}

func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get plan error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get plan error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	plan, err := s.plansService.GetPlan(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get plan error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("get plan error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while getting plan", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, plan)
	logger.Info("plan provided")
}

func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("plan deletion error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("plan deletion error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.plansService.DeletePlan(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrPlanNotFound):
			logger.Error("plan deletion error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("plan deletion error: plan has different owner")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("plan deletion error: service error")
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while deleting plan", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("plan deleted")
}

func (s *Server) GetSchedule(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get schedule error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get schedule error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*15)
	defer cancel()
	sched, err := s.scheduleService.BuildSchedule(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get schedule error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("get schedule error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while building schedule", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, sched)
	logger.Info("schedule provided")
}

func (s *Server) GetCompleted(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("get completed error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("get completed error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	dates, err := s.completionsService.List(ctx, id, uid)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("get completed error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("get completed error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "error while getting completed days", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, CompletedResponse{
		PlanID: id.String(),
		Dates:  dates,
	})
	logger.Info("completed days provided")
}

func (s *Server) MarkCompleted(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("mark error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("mark error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	var req ToggleRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("mark error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.completionsService.Mark(ctx, id, uid, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMarkExists):
			logger.Error("mark error: day already marked")
			httputil.WriteErrorResponse(w, http.StatusConflict, "day already marked completed", nil)
		case errors.Is(err, errorvalues.ErrBadDate), errors.Is(err, errorvalues.ErrDateOutOfRange):
			logger.Error("mark error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("mark error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("mark error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while marking", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusCreated, ToggleResponse{
		Date:      req.Date,
		Completed: true,
	})
	logger.Info("day marked completed")
}

func (s *Server) UnmarkCompleted(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("unmark error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("unmark error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	date := r.PathValue("date")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	err = s.completionsService.Unmark(ctx, id, uid, date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrMarkNotFound):
			logger.Error("unmark error: unexist mark")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "completion mark doesn't exist", nil)
		case errors.Is(err, errorvalues.ErrBadDate), errors.Is(err, errorvalues.ErrDateOutOfRange):
			logger.Error("unmark error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("unmark error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("unmark error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while unmarking", nil)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
	logger.Info("completion mark removed")
}

func (s *Server) ToggleCompleted(w http.ResponseWriter, r *http.Request) {
	logger := GetLoggerFromCtx(r.Context())
	uid, err := GetUIDFromContext(r)
	if err != nil {
		logger.Error("toggle error: unauthorized")
		httputil.WriteErrorResponse(w, http.StatusUnauthorized, "no authorization", nil)
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		logger.Error("toggle error: invalid id in path value")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid plan id in path value", nil)
		return
	}
	var req ToggleRequest
	defer r.Body.Close()
	err = sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		logger.Error("toggle error: invalid request body")
		httputil.WriteErrorResponse(w, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()
	completed, err := s.completionsService.Toggle(ctx, id, uid, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, errorvalues.ErrBadDate), errors.Is(err, errorvalues.ErrDateOutOfRange):
			logger.Error("toggle error: invalid date")
			httputil.WriteErrorResponse(w, http.StatusBadRequest, err.Error(), nil)
		case errors.Is(err, errorvalues.ErrPlanNotFound), errors.Is(err, errorvalues.ErrWrongOwner):
			logger.Error("toggle error: unexist plan")
			httputil.WriteErrorResponse(w, http.StatusNotFound, "plan doesn't exist", nil)
		default:
			logger.Error("toggle error: service error", slog.String("error", err.Error()))
			httputil.WriteErrorResponse(w, http.StatusInternalServerError, "internal error while toggling", nil)
		}
		return
	}
	httputil.WriteJSONResponse(w, http.StatusOK, ToggleResponse{
		Date:      req.Date,
		Completed: completed,
	})
	logger.Info("completion toggled")
}
