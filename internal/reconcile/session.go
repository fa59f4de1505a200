package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadtrack-cli/internal/model"
	"github.com/sells-group/leadtrack-cli/internal/store"
)

// conflictRetries bounds optimistic-lock retries per capture call.
const conflictRetries = 3

// Session serializes reconciliation passes against a store. Captures
// are paced by a rate limiter so that burst sources (a scraped listing
// page, a backup import) do not hammer the backend.
type Session struct {
	rec     *Reconciler
	leads   store.Store
	limiter *rate.Limiter
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithRateLimit overrides the default pacing of capture calls.
func WithRateLimit(r rate.Limit, burst int) SessionOption {
	return func(s *Session) { s.limiter = rate.NewLimiter(r, burst) }
}

// NewSession wires a reconciler to a store. The default limit allows
// five captures per second with a small burst.
func NewSession(rec *Reconciler, st store.Store, opts ...SessionOption) *Session {
	s := &Session{
		rec:     rec,
		leads:   st,
		limiter: rate.NewLimiter(rate.Every(200*time.Millisecond), 5),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capture reconciles one candidate against the stored collection and
// persists the result.
func (s *Session) Capture(ctx context.Context, cand Candidate) (Result, error) {
	var res Result
	_, err := s.run(ctx, func(leads []model.Lead) ([]model.Lead, bool) {
		var out []model.Lead
		out, res = s.rec.Reconcile(cand, leads)
		return out, res.Outcome == OutcomeCreated || res.Outcome == OutcomeUpdated
	})
	return res, err
}

// CaptureBatch reconciles candidates in order and persists the combined
// result as a single write.
func (s *Session) CaptureBatch(ctx context.Context, cands []Candidate) (Summary, error) {
	var sum Summary
	_, err := s.run(ctx, func(leads []model.Lead) ([]model.Lead, bool) {
		var out []model.Lead
		out, sum = s.rec.ReconcileBatch(cands, leads)
		return out, sum.Created > 0 || sum.Updated > 0
	})
	return sum, err
}

// run loads the collection, applies fn, and saves when fn reports a
// change. A version conflict means another writer got in between load
// and save; reload and reapply.
func (s *Session) run(ctx context.Context, fn func([]model.Lead) ([]model.Lead, bool)) ([]model.Lead, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "reconcile: rate limit wait")
	}

	for attempt := 0; ; attempt++ {
		leads, version, err := s.leads.Leads(ctx)
		if err != nil {
			return nil, eris.Wrap(err, "reconcile: load leads")
		}
		out, dirty := fn(leads)
		if !dirty {
			return out, nil
		}
		err = s.leads.SaveLeads(ctx, out, version)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, store.ErrVersionConflict) && attempt < conflictRetries {
			zap.L().Warn("lead collection changed underneath, retrying",
				zap.Int("attempt", attempt+1))
			continue
		}
		return nil, eris.Wrap(err, "reconcile: save leads")
	}
}
