// Package portal drives the portal screens: it routes through the gate, loads
// scans for the signed-in user and hands uploads and report downloads to the
// backend.
package portal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dtroode/scanportal-client/internal/gate"
	"github.com/dtroode/scanportal-client/internal/logger"
	"github.com/dtroode/scanportal-client/internal/model"
	"github.com/dtroode/scanportal-client/internal/scans"
	"github.com/dtroode/scanportal-client/internal/session"
	"github.com/dtroode/scanportal-client/internal/upload"
)

// ErrStaleResult is returned when a scan fetch finished after a newer fetch
// started or the signed-in user changed. Its result was dropped.
var ErrStaleResult = errors.New("stale scan result discarded")

// RouteError is returned by a screen the session may not open. Decision tells
// the caller where to go instead.
type RouteError struct {
	Decision gate.Decision
}

func (e *RouteError) Error() string {
	if e.Decision.Kind == gate.KindLoading {
		return fmt.Sprintf("route %s: session is still loading", e.Decision.Route)
	}
	return fmt.Sprintf("route %s: redirect to %s", e.Decision.Route, e.Decision.Target)
}

// Portal is one signed-in-or-not client of the scan portal.
type Portal struct {
	session    *session.Store
	backend    model.ScanBackend
	artifacts  model.Storage
	uploads    *upload.Pipeline
	aggregator *scans.Aggregator
	logger     *logger.Logger
	now        func() time.Time

	mu         sync.Mutex
	collection model.ScanCollection
	generation uint64
	epoch      uint64

	unsubscribe func()
}

func New(
	sess *session.Store,
	backend model.ScanBackend,
	artifacts model.Storage,
	uploads *upload.Pipeline,
	logger *logger.Logger,
) *Portal {
	p := &Portal{
		session:    sess,
		backend:    backend,
		artifacts:  artifacts,
		uploads:    uploads,
		aggregator: scans.NewAggregator(),
		logger:     logger,
		now:        time.Now,
	}
	p.unsubscribe = sess.OnChange(p.sessionChanged)
	return p
}

// Close detaches the portal from its session.
func (p *Portal) Close() {
	p.unsubscribe()
}

// sessionChanged drops everything derived from the previous user.
func (p *Portal) sessionChanged(s model.Session) {
	p.mu.Lock()
	p.epoch++
	p.collection = model.ScanCollection{Version: p.collection.Version + 1}
	p.mu.Unlock()

	p.aggregator.Reset()
	p.uploads.ClearFile()

	p.logger.Debug("Portal: session changed, caches dropped",
		"authenticated", s.IsAuthenticated())
}

// Session returns the current session.
func (p *Portal) Session() model.Session {
	return p.session.Snapshot()
}

// Navigate decides what opening raw shows for the current session.
func (p *Portal) Navigate(raw string) gate.Decision {
	return gate.Decide(raw, p.session.Snapshot())
}

// Navigation returns the sidebar for the current session.
func (p *Portal) Navigation(current gate.Route) []gate.NavItem {
	return gate.Navigation(p.session.Snapshot(), current)
}

func (p *Portal) guard(route gate.Route) (model.Session, error) {
	s := p.session.Snapshot()
	d := gate.Decide(string(route), s)
	if d.Kind != gate.KindRender {
		return s, &RouteError{Decision: d}
	}
	return s, nil
}

// Login signs in and returns the result together with where to go next.
func (p *Portal) Login(ctx context.Context, email, password string) (model.LoginResult, gate.Decision) {
	res := p.session.Login(ctx, email, password)
	return res, p.Navigate(string(gate.RouteLogin))
}

// Logout signs out. The portal is back on the login screen when it returns.
func (p *Portal) Logout() gate.Decision {
	p.session.Logout()
	return p.Navigate(string(gate.RouteDashboard))
}

// Collection returns the last successfully fetched scans.
func (p *Portal) Collection() model.ScanCollection {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.collection
}

// RefreshScans fetches the scans visible to the signed-in user. On failure the
// last known collection is kept and returned with the error. A fetch overtaken
// by a newer fetch or by a session change returns ErrStaleResult.
func (p *Portal) RefreshScans(ctx context.Context) (model.ScanCollection, error) {
	token := p.session.Token()
	if token == "" {
		return p.Collection(), model.ErrNotAuthenticated
	}

	p.mu.Lock()
	p.generation++
	gen, epoch := p.generation, p.epoch
	p.mu.Unlock()

	p.logger.Debug("Portal: fetching scans", "generation", gen)

	records, err := p.backend.ListScans(ctx, token)

	p.mu.Lock()
	defer p.mu.Unlock()

	if gen != p.generation || epoch != p.epoch {
		p.logger.Debug("Portal: discarded stale scan result",
			"generation", gen,
			"current", p.generation)
		return p.collection, ErrStaleResult
	}
	if err != nil {
		p.logger.Warn("Portal: failed to fetch scans",
			"error", err.Error())
		return p.collection, fmt.Errorf("failed to fetch scans: %w", err)
	}

	p.collection = model.ScanCollection{
		Records: records,
		Version: p.collection.Version + 1,
	}
	p.logger.Info("Portal: scans fetched",
		"count", len(records),
		"version", p.collection.Version)
	return p.collection, nil
}

// invalidate bumps the collection version so derived views are rebuilt on the
// next fetch.
func (p *Portal) invalidate() {
	p.mu.Lock()
	p.collection.Version++
	p.mu.Unlock()
	p.aggregator.Reset()
}
