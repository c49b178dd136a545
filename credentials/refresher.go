package credentials

import (
	"context"
	"fmt"
	"time"

	"github.com/ethanadams/s3gate/internal/logging"
	"github.com/ethanadams/s3gate/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Refresher proactively keeps an AssumeRoleWithWebIdentity provider's
// cache warm for long-lived daemons, so request paths never have to pay
// the STS round trip synchronously. It is purely additive: the lazy
// double-checked-refresh path on Provide remains correct whether or not
// a Refresher is running alongside it.
//
// Each refresh reschedules itself at 80% of the newly cached record's
// remaining lifetime, the way the reference scheduler reschedules a
// cron entry per run rather than assuming a fixed period.
type Refresher struct {
	provider *AssumeRoleWithWebIdentity
	cron     *cron.Cron
	entryID  cron.EntryID
	Metrics  *metrics.Collector // optional; nil is a valid no-op
}

// NewRefresher wraps provider. Call Start to begin proactive refreshing.
func NewRefresher(provider *AssumeRoleWithWebIdentity) *Refresher {
	return &Refresher{provider: provider, cron: cron.New()}
}

// Start performs an initial refresh, then schedules the next one at 80%
// of the resulting record's remaining lifetime, repeating until Stop is
// called. Cancelling ctx does not remove the schedule; the scheduled
// refreshes then fail with ctx's error.
func (r *Refresher) Start(ctx context.Context) error {
	creds, err := r.provider.ForceRefresh(ctx)
	if r.Metrics != nil {
		r.Metrics.RecordCredentialRefresh(r.provider.Name(), err == nil)
	}
	if err != nil {
		return fmt.Errorf("credentials: initial refresh: %w", err)
	}
	r.cron.Start()
	r.scheduleNext(ctx, creds)
	return nil
}

func (r *Refresher) scheduleNext(ctx context.Context, creds Credentials) {
	remaining := time.Until(creds.Expiration)
	if remaining <= 0 {
		remaining = time.Minute
	}
	delay := remaining * 4 / 5

	entryID, err := r.cron.AddFunc(fmt.Sprintf("@every %s", delay.Truncate(time.Second)), func() {
		fresh, err := r.provider.ForceRefresh(ctx)
		if r.Metrics != nil {
			r.Metrics.RecordCredentialRefresh(r.provider.Name(), err == nil)
		}
		if err != nil {
			logging.Warn("credential refresh failed, cache left empty for next caller: %v", err)
			return
		}
		r.cron.Remove(r.entryID)
		r.scheduleNext(ctx, fresh)
	})
	if err != nil {
		logging.Error("failed to schedule credential refresh: %v", err)
		return
	}
	r.entryID = entryID
}

// Stop cancels future scheduled refreshes and waits for any in-flight
// run to finish.
func (r *Refresher) Stop() {
	stopCtx := r.cron.Stop()
	<-stopCtx.Done()
}
