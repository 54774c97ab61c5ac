package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/mmad4804/goal-tracker/internal/api"
	"github.com/mmad4804/goal-tracker/pkg/entity"
	"github.com/mmad4804/goal-tracker/pkg/httputil"
)

var ErrNotSignedIn = errors.New("no active session")

// APIError carries a non-2xx response through to the controllers.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return "api error " + strconv.Itoa(e.StatusCode) + ": " + e.Message
}

func IsConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusConflict
}

func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client implements AuthProvider, MFAProvider and RowStore against the
// goal-tracker HTTP API.
type Client struct {
	baseURL string
	httpc   *http.Client
	store   SessionStore

	mu        sync.Mutex
	listeners map[int]func(*entity.Session)
	nextSubID int
}

type Option func(*Client)

func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

func WithSessionStore(store SessionStore) Option {
	return func(c *Client) {
		c.store = store
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:   baseURL,
		httpc:     &http.Client{Timeout: time.Second * 15},
		store:     NewMemorySessionStore(),
		listeners: make(map[int]func(*entity.Session)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reader io.Reader
	if body != nil {
		data, err := sonic.ConfigDefault.Marshal(body)
		if err != nil {
			return errors.New("marshalling request error: " + err.Error())
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return errors.New("building request error: " + err.Error())
	}
	req.Header.Set("Content-Type", "application/json")
	if authed {
		session, ok := c.store.Load()
		if !ok {
			return ErrNotSignedIn
		}
		req.Header.Set("Authorization", "Bearer "+session.AccessToken)
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return errors.New("request error: " + err.Error())
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp httputil.ErrorResponse
		if decErr := httputil.DecodeJSONBody(resp.Body, &errResp); decErr == nil {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}
	if out != nil {
		if err := httputil.DecodeJSONBody(resp.Body, out); err != nil {
			return errors.New("decoding response error: " + err.Error())
		}
	}
	return nil
}

// setSession swaps the cached session and fans the change out to
// subscribers. Listeners run outside the lock.
func (c *Client) setSession(session *entity.Session) {
	if session == nil {
		c.store.Clear()
	} else {
		c.store.Save(session)
	}
	c.mu.Lock()
	fns := make([]func(*entity.Session), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(session)
	}
}

func (c *Client) OnSessionChange(fn func(*entity.Session)) func() {
	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.listeners[id] = fn
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

func (c *Client) SignUp(ctx context.Context, creds Credentials) (*entity.Session, error) {
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", api.RegisterRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}, nil, false)
	if err != nil {
		return nil, err
	}
	session, _, err := c.SignIn(ctx, creds)
	return session, err
}

func (c *Client) SignIn(ctx context.Context, creds Credentials) (*entity.Session, bool, error) {
	var resp api.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", api.LoginRequest{
		Email:    creds.Email,
		Password: creds.Password,
	}, &resp, false)
	if err != nil {
		return nil, false, err
	}
	c.setSession(resp.Session)
	return resp.Session, resp.MFARequired, nil
}

func (c *Client) SignOut(ctx context.Context) error {
	if _, ok := c.store.Load(); ok {
		// Local sign-out proceeds even if the server call fails
		if err := c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil, true); err != nil {
			slog.Warn("remote logout failed", slog.String("error", err.Error()))
		}
	}
	c.setSession(nil)
	return nil
}

func (c *Client) GetSession() *entity.Session {
	session, ok := c.store.Load()
	if !ok {
		return nil
	}
	return session
}

func (c *Client) CurrentUser() (uuid.UUID, bool) {
	session, ok := c.store.Load()
	if !ok {
		return uuid.UUID{}, false
	}
	return session.UserID, true
}

func (c *Client) RefreshSession(ctx context.Context) (*entity.Session, error) {
	current, ok := c.store.Load()
	if !ok {
		return nil, ErrNotSignedIn
	}
	var refreshed entity.Session
	err := c.do(ctx, http.MethodPost, "/api/v1/auth/refresh", api.RefreshRequest{
		RefreshToken: current.RefreshToken,
	}, &refreshed, false)
	if err != nil {
		return nil, err
	}
	c.setSession(&refreshed)
	return &refreshed, nil
}

func (c *Client) ListFactors(ctx context.Context) ([]*entity.MFAFactor, error) {
	var resp api.ListFactorsResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/factors", nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.All, nil
}

func (c *Client) Enroll(ctx context.Context) (*Enrollment, error) {
	var resp api.EnrollResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/factors", nil, &resp, true)
	if err != nil {
		return nil, err
	}
	factorID, err := uuid.Parse(resp.ID)
	if err != nil {
		return nil, errors.New("invalid factor id in response: " + err.Error())
	}
	return &Enrollment{
		FactorID: factorID,
		Secret:   resp.TOTP.Secret,
		QRCode:   resp.TOTP.QRCode,
		URI:      resp.TOTP.URI,
	}, nil
}

func (c *Client) Challenge(ctx context.Context, factorID uuid.UUID) (uuid.UUID, error) {
	var resp api.ChallengeResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/factors/"+factorID.String()+"/challenge", nil, &resp, true)
	if err != nil {
		return uuid.UUID{}, err
	}
	challengeID, err := uuid.Parse(resp.ID)
	if err != nil {
		return uuid.UUID{}, errors.New("invalid challenge id in response: " + err.Error())
	}
	return challengeID, nil
}

func (c *Client) Verify(ctx context.Context, factorID, challengeID uuid.UUID, code string) error {
	var resp struct {
		Session *entity.Session `json:"session"`
	}
	err := c.do(ctx, http.MethodPost, "/api/v1/factors/"+factorID.String()+"/verify", api.VerifyRequest{
		ChallengeID: challengeID.String(),
		Code:        code,
	}, &resp, true)
	if err != nil {
		return err
	}
	if resp.Session != nil {
		c.setSession(resp.Session)
	}
	return nil
}

func (c *Client) Unenroll(ctx context.Context, factorID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/factors/"+factorID.String(), nil, nil, true)
}

func (c *Client) SelectPlans(ctx context.Context) ([]*entity.Plan, error) {
	var resp api.GetPlansResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/plans?limit=50&page=1", nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Plans, nil
}

func (c *Client) InsertPlan(ctx context.Context, plan NewPlan) (*entity.Plan, error) {
	var created entity.Plan
	err := c.do(ctx, http.MethodPost, "/api/v1/plans", api.CreatePlanRequest{
		Title:       plan.Title,
		Description: plan.Description,
		StartDate:   plan.StartDate,
		EndDate:     plan.EndDate,
	}, &created, true)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) DeletePlan(ctx context.Context, planID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/plans/"+planID.String(), nil, nil, true)
}

func (c *Client) SelectCompleted(ctx context.Context, planID uuid.UUID) ([]string, error) {
	var resp api.CompletedResponse
	err := c.do(ctx, http.MethodGet, "/api/v1/plans/"+planID.String()+"/completed", nil, &resp, true)
	if err != nil {
		return nil, err
	}
	return resp.Dates, nil
}

func (c *Client) InsertCompleted(ctx context.Context, planID uuid.UUID, date string) error {
	return c.do(ctx, http.MethodPost, "/api/v1/plans/"+planID.String()+"/completed", api.ToggleRequest{
		Date: date,
	}, nil, true)
}

func (c *Client) DeleteCompleted(ctx context.Context, planID uuid.UUID, date string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/plans/"+planID.String()+"/completed/"+date, nil, nil, true)
}
