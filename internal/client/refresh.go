package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

var (
	defaultCheckEvery = time.Minute
	refreshLeeway     = time.Minute * 5
)

// RefreshController keeps the access token fresh while the app is in the
// foreground. The shell calls Start on foreground and Stop on background;
// nothing refreshes in between.
type RefreshController struct {
	auth       AuthProvider
	checkEvery time.Duration
	leeway     time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
}

func NewRefreshController(auth AuthProvider) *RefreshController {
	return &RefreshController{
		auth:       auth,
		checkEvery: defaultCheckEvery,
		leeway:     refreshLeeway,
	}
}

// Start begins the refresh loop. Calling Start on a running controller
// is a no-op.
func (rc *RefreshController) Start() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	rc.cancel = cancel
	go rc.loop(ctx)
}

func (rc *RefreshController) Stop() {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.cancel == nil {
		return
	}
	rc.cancel()
	rc.cancel = nil
}

func (rc *RefreshController) loop(ctx context.Context) {
	// Coming back to the foreground may find an already stale token
	rc.refreshIfStale(ctx)
	ticker := time.NewTicker(rc.checkEvery)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rc.refreshIfStale(ctx)
		}
	}
}

func (rc *RefreshController) refreshIfStale(ctx context.Context) {
	session := rc.auth.GetSession()
	if session == nil {
		return
	}
	if time.Until(session.ExpiresAt) > rc.leeway {
		return
	}
	if _, err := rc.auth.RefreshSession(ctx); err != nil {
		slog.Warn("session refresh failed", slog.String("error", err.Error()))
	}
}
