package league

import (
	"context"
	"fmt"
	"time"

	"github.com/exilewatch/exilewatch/internal/core"
	"github.com/exilewatch/exilewatch/internal/storage"
	"go.uber.org/zap"
)

// ActiveLeagueSource yields the provider's economy league names, newest
// first. Implemented by the poe.ninja client.
type ActiveLeagueSource interface {
	LeagueNames(ctx context.Context) ([]string, error)
}

// Discovery resolves the provider's currently active league and reconciles
// the registry against it: first sighting registers the league, a change of
// active league expires the previous one. Permanently-active leagues are
// never expired and never duplicated.
type Discovery struct {
	src       ActiveLeagueSource
	reg       *Registry
	permanent map[string]bool
	override  string
	log       *zap.Logger
	now       func() time.Time
}

// NewDiscovery creates a Discovery. When override is non-empty the provider
// is never consulted and the override league is used as-is.
func NewDiscovery(src ActiveLeagueSource, reg *Registry, permanent []string, override string, log *zap.Logger) *Discovery {
	if log == nil {
		log = zap.NewNop()
	}
	pm := make(map[string]bool, len(permanent))
	for _, name := range permanent {
		pm[name] = true
	}
	return &Discovery{
		src:       src,
		reg:       reg,
		permanent: pm,
		override:  override,
		log:       log,
		now:       time.Now,
	}
}

// Reconcile determines the active league and updates the registry. Running
// it repeatedly with an unchanged provider answer is a no-op: one Active
// league, no duplicate rows, no repeated transitions.
func (d *Discovery) Reconcile(ctx context.Context) (storage.League, error) {
	if d.override != "" {
		return d.reg.Ensure(ctx, d.override, d.now().UTC(), d.permanent[d.override])
	}

	name, err := d.resolveActiveLeague(ctx)
	if err != nil {
		return storage.League{}, err
	}

	// A permanent league reported as active is registered (once) but never
	// triggers expiry of anything.
	if d.permanent[name] {
		d.log.Warn("provider reported a permanent league as active", zap.String("league", name))
		return d.reg.Ensure(ctx, name, d.now().UTC(), true)
	}

	active, err := d.reg.Active(ctx)
	if err != nil {
		return storage.League{}, err
	}
	if len(active) == 1 && active[0].Name == name {
		return active[0], nil
	}

	lg, err := d.reg.Ensure(ctx, name, d.now().UTC(), false)
	if err != nil {
		return storage.League{}, err
	}
	if _, err := d.reg.ExpireAllExcept(ctx, name); err != nil {
		return storage.League{}, err
	}

	d.log.Info("active league resolved", zap.String("league", name))
	return lg, nil
}

// resolveActiveLeague picks the newest non-permanent league the provider
// indexes.
func (d *Discovery) resolveActiveLeague(ctx context.Context) (string, error) {
	names, err := d.src.LeagueNames(ctx)
	if err != nil {
		return "", err
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		if !d.permanent[name] {
			return name, nil
		}
	}
	if len(names) > 0 {
		// Only permanent leagues indexed; report the first one and let the
		// caller's permanent handling keep it safe.
		return names[0], nil
	}
	return "", core.WrapError(core.ErrProviderNoData, fmt.Errorf("provider returned no leagues"))
}
