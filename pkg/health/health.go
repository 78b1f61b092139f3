// Package health provides liveness and readiness probes for the storefront
// server. Checks run periodically in the background; the HTTP endpoints only
// read the latest recorded state.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"sync/atomic"
	"time"
)

// CheckFunc probes one component. A nil return means healthy.
type CheckFunc func(ctx context.Context) error

// check holds a registered probe together with its last observed result.
type check struct {
	name    string
	timeout time.Duration
	probe   CheckFunc

	failed  atomic.Bool
	lastErr atomic.Pointer[error]
}

// run executes the probe once under its timeout and records the result.
func (c *check) run(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	err := c.probe(ctx)
	c.lastErr.Store(&err)
	c.failed.Store(err != nil)
}

func (c *check) status() string {
	if p := c.lastErr.Load(); p != nil && *p != nil {
		return (*p).Error()
	}
	return "ok"
}

// Service aggregates liveness and readiness checks. It starts not ready;
// SetReady(true) is called once wiring completes and SetReady(false) when the
// shutdown drain begins.
type Service struct {
	ready  atomic.Bool
	cancel context.CancelFunc

	mu        sync.Mutex
	liveness  []*check
	readiness []*check
}

// New creates an empty, not-ready health service.
func New() *Service {
	return &Service{}
}

// AddLivenessCheck registers a probe for process liveness.
func (s *Service) AddLivenessCheck(name string, timeout time.Duration, probe CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.liveness = append(s.liveness, &check{name: name, timeout: timeout, probe: probe})
}

// AddReadinessCheck registers a probe gating traffic readiness.
func (s *Service) AddReadinessCheck(name string, timeout time.Duration, probe CheckFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.readiness = append(s.readiness, &check{name: name, timeout: timeout, probe: probe})
}

// Start runs every registered check now and then at the given interval until
// Stop is called or ctx is cancelled.
func (s *Service) Start(ctx context.Context, interval time.Duration) {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	s.cancel = cancel
	checks := append(append([]*check(nil), s.liveness...), s.readiness...)
	s.mu.Unlock()

	for _, c := range checks {
		go func(c *check) {
			c.run(ctx)
			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					c.run(ctx)
				}
			}
		}(c)
	}
}

// Stop cancels the background check goroutines. Safe to call repeatedly.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// SetReady flips the manual readiness gate.
func (s *Service) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports whether the service was marked ready and every readiness
// check currently passes.
func (s *Service) IsReady() bool {
	if !s.ready.Load() {
		return false
	}
	s.mu.Lock()
	checks := s.readiness
	s.mu.Unlock()

	for _, c := range checks {
		if c.failed.Load() {
			return false
		}
	}
	return true
}

// isLive reports whether every liveness check currently passes.
func (s *Service) isLive() bool {
	s.mu.Lock()
	checks := s.liveness
	s.mu.Unlock()

	for _, c := range checks {
		if c.failed.Load() {
			return false
		}
	}
	return true
}

type statusResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// LiveEndpoint serves the liveness probe: 200 while the process is healthy,
// 503 otherwise.
func (s *Service) LiveEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	checks := s.liveness
	s.mu.Unlock()
	s.respond(w, s.isLive(), checks)
}

// ReadyEndpoint serves the readiness probe.
func (s *Service) ReadyEndpoint(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	checks := s.readiness
	s.mu.Unlock()
	s.respond(w, s.IsReady(), checks)
}

func (s *Service) respond(w http.ResponseWriter, healthy bool, checks []*check) {
	resp := statusResponse{Status: "ok"}
	if len(checks) > 0 {
		resp.Checks = make(map[string]string, len(checks))
		for _, c := range checks {
			resp.Checks[c.name] = c.status()
		}
	}

	code := http.StatusOK
	if !healthy {
		resp.Status = "unavailable"
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
